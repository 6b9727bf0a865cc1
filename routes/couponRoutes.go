package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/controllers"
	"github.com/nutcrate/nutcrate-api/middlewares"
)

func CouponRoutes(server *gin.Engine) {
	server.GET("/api/coupons", controllers.GetPublicCoupons)
	server.POST("/api/coupons/validate", middlewares.RequireAuth(), controllers.ValidateCoupon)
}
