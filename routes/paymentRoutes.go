package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/controllers"
	"github.com/nutcrate/nutcrate-api/middlewares"
)

func PaymentRoutes(server *gin.Engine) {
	payment := server.Group("/api/payment")
	{
		payment.POST("/create-order", middlewares.RequireAuth(), controllers.CreatePaymentOrder)
		payment.POST("/verify", middlewares.RequireAuth(), controllers.VerifyPayment)
		// Gateway-originated; authenticated by its signature, not a session.
		payment.POST("/webhook", controllers.PaymentWebhook)
	}
}
