package delivery

import (
	"net/http"

	"sendgate-backend/internal/account/usecase"
	"sendgate-backend/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accountUsecase usecase.AccountUsecase
}

func NewAccountHandler(accountUsecase usecase.AccountUsecase) *AccountHandler {
	return &AccountHandler{accountUsecase: accountUsecase}
}

type createUserRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
}

// CreateUser provisions a new API client. The response is the only place
// the generated API key is returned.
func (h *AccountHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accountUsecase.CreateUser(req.Email, req.Name)
	if err != nil {
		if apperr.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, user)
}
