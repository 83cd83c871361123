package delivery

import (
	"net/http"

	"sendgate-backend/internal/account/usecase"

	"github.com/gin-gonic/gin"
)

// APIKeyMiddleware authenticates requests by the X-API-Key header and
// stores the resolved user on the context.
func APIKeyMiddleware(accountUsecase usecase.AccountUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}

		user, err := accountUsecase.GetUserByAPIKey(apiKey)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			c.Abort()
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

// AdminTokenMiddleware guards provisioning and status-callback endpoints
// with the static token from config. An empty configured token disables
// the endpoints entirely.
func AdminTokenMiddleware(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminToken == "" || c.GetHeader("X-Admin-Token") != adminToken {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
