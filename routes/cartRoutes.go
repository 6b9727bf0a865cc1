package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/controllers"
	"github.com/nutcrate/nutcrate-api/middlewares"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/api/cart", middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("", controllers.CreateCartItem)
		cart.PATCH("/:id", controllers.UpdateCartItem)
		cart.DELETE("/:id", controllers.DeleteCartItem)
	}

	wishlist := server.Group("/api/wishlist", middlewares.RequireAuth())
	{
		wishlist.GET("", controllers.GetWishlist)
		wishlist.POST("", controllers.AddWishlistItem)
		wishlist.DELETE("/:id", controllers.DeleteWishlistItem)
	}
}
