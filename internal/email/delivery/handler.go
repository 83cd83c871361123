package delivery

import (
	"net/http"
	"strconv"

	accountUsecase "sendgate-backend/internal/account/usecase"
	emaildomain "sendgate-backend/internal/email/domain"
	emaildto "sendgate-backend/internal/email/dto"
	"sendgate-backend/internal/email/usecase"
	"sendgate-backend/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	emailUsecase   usecase.EmailUsecase
	accountUsecase accountUsecase.AccountUsecase
}

func NewEmailHandler(emailUsecase usecase.EmailUsecase, accountUc accountUsecase.AccountUsecase) *EmailHandler {
	return &EmailHandler{
		emailUsecase:   emailUsecase,
		accountUsecase: accountUc,
	}
}

// SendEmail submits one email. Quota is reserved atomically before the
// record is created; a request failing validation consumes no quota.
func (h *EmailHandler) SendEmail(c *gin.Context) {
	var req emaildto.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")

	reserved, err := h.accountUsecase.ReserveSend(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if !reserved {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Daily rate limit exceeded"})
		return
	}

	resp, err := h.emailUsecase.SendEmail(&req, userID)
	if err != nil {
		if apperr.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SendBulkEmail submits one email per recipient. Each accepted recipient
// reserves its own quota slot; recipients failing validation or hitting
// the limit get a failed entry instead of aborting the batch.
func (h *EmailHandler) SendBulkEmail(c *gin.Context) {
	var req emaildto.SendBulkEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")

	// Upfront gate: a caller with nothing left gets a plain 429 instead
	// of a list of failures.
	allowed, err := h.accountUsecase.CheckRateLimit(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Daily rate limit exceeded"})
		return
	}

	responses := make([]*emaildto.EmailResponse, 0, len(req.To))
	for _, recipient := range req.To {
		single := &emaildto.SendEmailRequest{
			To:      recipient,
			Subject: req.Subject,
			Body:    req.Body,
			IsHTML:  req.IsHTML,
		}
		if err := single.Validate(); err != nil {
			responses = append(responses, &emaildto.EmailResponse{
				Status:  string(emaildomain.StatusFailed),
				Message: err.Error(),
			})
			continue
		}

		reserved, err := h.accountUsecase.ReserveSend(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if !reserved {
			responses = append(responses, &emaildto.EmailResponse{
				Status:  string(emaildomain.StatusFailed),
				Message: "Daily rate limit exceeded",
			})
			continue
		}

		resp, err := h.emailUsecase.SendEmail(single, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, responses)
}

func (h *EmailHandler) GetEmailByID(c *gin.Context) {
	id := c.Param("id")
	email, err := h.emailUsecase.GetEmailByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if email == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Email not found"})
		return
	}

	c.JSON(http.StatusOK, email)
}

func (h *EmailHandler) GetEmails(c *gin.Context) {
	userID := c.GetString("userID")

	page := 1
	pageSize := 50
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}
	if raw := c.Query("pageSize"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			pageSize = parsed
		}
	}

	emails, err := h.emailUsecase.GetEmailsByUser(userID, page, pageSize)
	if err != nil {
		if apperr.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, emaildto.EmailsResponse{
		Emails:   emails,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *EmailHandler) GetEmailLogs(c *gin.Context) {
	id := c.Param("id")
	email, err := h.emailUsecase.GetEmailByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if email == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Email not found"})
		return
	}

	logs, err := h.emailUsecase.GetEmailLogs(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, emaildto.EmailLogsResponse{Logs: logs})
}

// UpdateStatus is the callback surface for an external dispatcher. It is
// guarded by the admin token, not an API key.
func (h *EmailHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")

	var req emaildto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := h.emailUsecase.UpdateEmailStatus(id, emaildomain.Status(req.Status), req.ErrorMessage)
	if err != nil {
		if apperr.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Email not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}
