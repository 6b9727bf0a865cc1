package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/controllers"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/api/products", controllers.GetProducts)
	server.GET("/api/products/:slug", controllers.GetProductBySlug)
}
