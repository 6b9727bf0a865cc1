package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the NutCrate API ❤️. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/api/auth/sync" - Sync the signed-in user's profile

PRODUCT
- GET "/api/products" - List products (category, search, featured filters)
- GET "/api/products/:slug" - Get product by slug

CART & WISHLIST
- GET/POST "/api/cart" - Fetch or add cart items
- PATCH/DELETE "/api/cart/:id" - Update or remove a cart item
- GET/POST "/api/wishlist" - Fetch or add wishlist items
- DELETE "/api/wishlist/:id" - Remove a wishlist item

PAYMENT
- POST "/api/payment/create-order" - Start checkout
- POST "/api/payment/verify" - Verify a completed payment
- POST "/api/payment/webhook" - Gateway webhook (signed)

ORDERS & RETURNS
- GET "/api/orders" - List your orders
- GET "/api/orders/:id" - Get an order
- GET "/api/orders/:id/tracking" - Order tracking timeline
- GET "/api/track/:orderNumber" - Public order tracking
- GET/POST "/api/returns" - List or request returns

COUPONS
- GET "/api/coupons" - Public coupons
- POST "/api/coupons/validate" - Validate a coupon

CHAT
- POST "/api/chat" - Shopping assistant (streaming)

ADMIN (X-Admin-Token)
- POST "/api/admin/login"
- GET "/api/admin/stats"
- CRUD "/api/admin/{products,orders,returns,coupons}"`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
