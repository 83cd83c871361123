package api

import (
	"net/http"
	"time"

	accountDelivery "sendgate-backend/internal/account/delivery"
	accountUsecase "sendgate-backend/internal/account/usecase"
	emailDelivery "sendgate-backend/internal/email/delivery"
	emailUsecasePkg "sendgate-backend/internal/email/usecase"
	"sendgate-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, accountUc accountUsecase.AccountUsecase, emailUc emailUsecasePkg.EmailUsecase, cfg *config.Config) {
	accountHandler := accountDelivery.NewAccountHandler(accountUc)
	emailHandler := emailDelivery.NewEmailHandler(emailUc, accountUc)

	// Health check (no auth required)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})

	api := r.Group("/api")
	{
		// Email routes (API key protected)
		emails := api.Group("/emails")
		emails.Use(accountDelivery.APIKeyMiddleware(accountUc))
		{
			emails.POST("/send", emailHandler.SendEmail)
			emails.POST("/send-bulk", emailHandler.SendBulkEmail)
			emails.GET("", emailHandler.GetEmails)
			emails.GET("/:id", emailHandler.GetEmailByID)
			emails.GET("/:id/logs", emailHandler.GetEmailLogs)
		}

		// Admin routes (static token): provisioning and the status
		// callback used by an external dispatcher.
		admin := api.Group("")
		admin.Use(accountDelivery.AdminTokenMiddleware(cfg.AdminToken))
		{
			admin.POST("/users", accountHandler.CreateUser)
			admin.PATCH("/emails/:id/status", emailHandler.UpdateStatus)
		}
	}
}
