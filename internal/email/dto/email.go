package dto

import (
	"strings"
	"time"

	emaildomain "sendgate-backend/internal/email/domain"
	"sendgate-backend/pkg/apperr"
)

type SendEmailRequest struct {
	To      string `json:"to"`
	Cc      string `json:"cc,omitempty"`
	Bcc     string `json:"bcc,omitempty"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	IsHTML  bool   `json:"is_html"`
}

// Validate rejects requests with a missing recipient or subject.
// Whitespace-only values count as missing.
func (r *SendEmailRequest) Validate() error {
	if strings.TrimSpace(r.To) == "" {
		return apperr.NewValidation("to", "recipient email is required")
	}
	if strings.TrimSpace(r.Subject) == "" {
		return apperr.NewValidation("subject", "subject is required")
	}
	return nil
}

type SendBulkEmailRequest struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	IsHTML  bool     `json:"is_html"`
}

// EmailResponse echoes the outcome of one submission. For a recipient
// rejected inside a bulk request, ID is empty and Status carries "failed".
type EmailResponse struct {
	ID        string    `json:"id,omitempty"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type EmailsResponse struct {
	Emails   []*emaildomain.Email `json:"emails"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

type EmailLogsResponse struct {
	Logs []*emaildomain.EmailLog `json:"logs"`
}

type UpdateStatusRequest struct {
	Status       string `json:"status" binding:"required"`
	ErrorMessage string `json:"error_message,omitempty"`
}
