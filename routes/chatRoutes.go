package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/controllers"
)

func ChatRoutes(server *gin.Engine) {
	server.POST("/api/chat", controllers.Chat)
}
