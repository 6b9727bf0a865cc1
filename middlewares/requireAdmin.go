package middlewares

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// RequireAdmin gates the back office with a single shared credential. The
// token is compared against the stored bcrypt hash on every request, so
// there is no session state to expire or revoke.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ctx.GetHeader("X-Admin-Token")
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing admin token"})
			return
		}

		hash := os.Getenv("ADMIN_PASSWORD_HASH")
		if hash == "" {
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Admin access is not configured"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid admin token"})
			return
		}

		ctx.Next()
	}
}
