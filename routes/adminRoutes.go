package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/controllers"
	"github.com/nutcrate/nutcrate-api/middlewares"
)

func AdminRoutes(server *gin.Engine) {
	server.POST("/api/admin/login", controllers.AdminLogin)

	admin := server.Group("/api/admin", middlewares.RequireAdmin())
	{
		admin.GET("/stats", controllers.GetAdminStats)

		admin.POST("/products", controllers.CreateProduct)
		admin.PATCH("/products/:id", controllers.UpdateProduct)
		admin.DELETE("/products/:id", controllers.DeleteProduct)
		admin.POST("/products/images", controllers.UploadProductImages)

		admin.GET("/orders", controllers.GetOrders)
		admin.PATCH("/orders/:id", controllers.UpdateDeliveryStatus)
		admin.DELETE("/orders/:id", controllers.DeleteOrder)

		admin.GET("/returns", controllers.GetReturns)
		admin.PATCH("/returns/:id", controllers.UpdateReturn)

		admin.GET("/coupons", controllers.GetCoupons)
		admin.POST("/coupons", controllers.CreateCoupon)
		admin.PATCH("/coupons/:id", controllers.UpdateCoupon)
		admin.DELETE("/coupons/:id", controllers.DeleteCoupon)
	}
}
