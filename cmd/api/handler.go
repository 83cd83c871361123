package api

import (
	accountUsecase "sendgate-backend/internal/account/usecase"
	emailUsecasePkg "sendgate-backend/internal/email/usecase"
	"sendgate-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	accountUsecase accountUsecase.AccountUsecase
	emailUsecase   emailUsecasePkg.EmailUsecase
	config         *config.Config
}

func NewHandler(accountUc accountUsecase.AccountUsecase, emailUc emailUsecasePkg.EmailUsecase, cfg *config.Config) *Handler {
	return &Handler{
		accountUsecase: accountUc,
		emailUsecase:   emailUc,
		config:         cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-API-Key, X-Admin-Token, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Setup routes
	SetupRoutes(r, h.accountUsecase, h.emailUsecase, h.config)

	return r.Run(addr)
}
