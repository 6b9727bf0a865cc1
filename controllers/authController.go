package controllers

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/initializers"
	"github.com/nutcrate/nutcrate-api/middlewares"
	"github.com/nutcrate/nutcrate-api/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgInvalidInput        = "invalid input"
	msgInternalServerError = "Internal server error"
	msgInvalidAdminLogin   = "Invalid admin password"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

// SyncUser refreshes the stored profile for the authenticated user. The
// row itself is created by RequireAuth on first sign-in; this keeps email,
// name, and avatar in step with the identity provider.
func SyncUser(ctx *gin.Context) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var syncData models.SyncUserData
	if err := ctx.ShouldBindJSON(&syncData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	updates := map[string]any{
		"email":      syncData.Email,
		"name":       syncData.Name,
		"avatar_url": syncData.AvatarURL,
	}
	if result := initializers.DB.Model(&user).Updates(updates); result.Error != nil {
		log.Println("User sync error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"user": user})
}

// AdminLogin checks the shared back-office password. The raw password
// doubles as the admin token: every admin request re-verifies it against
// the stored hash, so nothing is issued or persisted here.
func AdminLogin(ctx *gin.Context) {
	var loginData models.AdminLoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	hash := os.Getenv("ADMIN_PASSWORD_HASH")
	if hash == "" {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Admin access is not configured")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(loginData.Password)); err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidAdminLogin)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"token": loginData.Password})
}
