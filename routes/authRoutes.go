package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/controllers"
	"github.com/nutcrate/nutcrate-api/middlewares"
)

func AuthRoutes(server *gin.Engine) {
	auth := server.Group("/api/auth")
	{
		auth.POST("/sync", middlewares.RequireAuth(), controllers.SyncUser)
	}
}
