package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/controllers"
	"github.com/nutcrate/nutcrate-api/middlewares"
)

func OrderRoutes(server *gin.Engine) {
	orders := server.Group("/api/orders", middlewares.RequireAuth())
	{
		orders.GET("", controllers.GetMyOrders)
		orders.GET("/:id", controllers.GetOrderById)
		orders.GET("/:id/tracking", controllers.GetOrderTracking)
	}

	server.GET("/api/track/:orderNumber", controllers.TrackOrder)

	returns := server.Group("/api/returns", middlewares.RequireAuth())
	{
		returns.GET("", controllers.GetMyReturns)
		returns.POST("", controllers.CreateReturn)
	}
}
