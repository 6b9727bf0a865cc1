package middlewares

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/nutcrate/nutcrate-api/initializers"
	"github.com/nutcrate/nutcrate-api/models"
)

const UserContextKey = "currentUser"

type introspectionResult struct {
	Active  bool   `json:"active"`
	Subject string `json:"sub"`
}

// introspectToken asks the identity provider whether the session token is
// still valid. The browser's token is never trusted on its own.
func introspectToken(token string) (introspectionResult, error) {
	var result introspectionResult

	apiURL := os.Getenv("IDENTITY_API_URL")
	apiKey := os.Getenv("IDENTITY_API_KEY")
	if apiURL == "" || apiKey == "" {
		return result, errors.New("identity provider credentials are not set")
	}

	resp, err := resty.New().SetTimeout(10 * time.Second).R().
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"token": token}).
		Post(apiURL + "/v1/tokens/introspect")
	if err != nil {
		return result, err
	}
	if resp.StatusCode() != http.StatusOK {
		return result, errors.New("token introspection failed with status " + resp.Status())
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return result, err
	}
	return result, nil
}

// RequireAuth authenticates end-user requests via the X-Session-Token
// header. Claims are read from the JWT only for the user sync; validity
// comes from the provider's introspection endpoint.
func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ctx.GetHeader("X-Session-Token")
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing session token"})
			return
		}

		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid session token"})
			return
		}

		subject, _ := claims["sub"].(string)
		if subject == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid session token"})
			return
		}

		result, err := introspectToken(token)
		if err != nil {
			log.Println("Token introspection error:", err)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Could not verify session"})
			return
		}
		if !result.Active || result.Subject != subject {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Session is not active"})
			return
		}

		var user models.User
		email, _ := claims["email"].(string)
		name, _ := claims["name"].(string)
		dbResult := initializers.DB.
			Where(models.User{ClerkID: subject}).
			Attrs(models.User{Email: email, Name: name}).
			FirstOrCreate(&user)
		if dbResult.Error != nil {
			log.Println("User lookup error:", dbResult.Error)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}

		ctx.Set(UserContextKey, user)
		ctx.Next()
	}
}

// CurrentUser retrieves the authenticated user set by RequireAuth.
func CurrentUser(ctx *gin.Context) (models.User, bool) {
	value, exists := ctx.Get(UserContextKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}
