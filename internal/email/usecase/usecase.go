package usecase

import (
	emaildomain "sendgate-backend/internal/email/domain"
	emaildto "sendgate-backend/internal/email/dto"
)

// EmailUsecase is the submission service: it validates requests, creates
// email records and applies status updates. Quota enforcement is the
// boundary's job - nothing here touches the account store.
type EmailUsecase interface {
	// SendEmail validates the request and creates a pending email record.
	SendEmail(req *emaildto.SendEmailRequest, userID string) (*emaildto.EmailResponse, error)
	// SendBulkEmail submits each recipient independently and collects one
	// outcome per recipient. A rejected recipient yields a failed response
	// entry; it never aborts the rest of the batch.
	SendBulkEmail(req *emaildto.SendBulkEmailRequest, userID string) ([]*emaildto.EmailResponse, error)
	GetEmailByID(id string) (*emaildomain.Email, error)
	GetEmailsByUser(userID string, page, pageSize int) ([]*emaildomain.Email, error)
	// UpdateEmailStatus returns false when the id is unknown.
	UpdateEmailStatus(id string, status emaildomain.Status, errorMessage string) (bool, error)
	GetEmailLogs(emailID string) ([]*emaildomain.EmailLog, error)
}
