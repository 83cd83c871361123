package usecase

import (
	emaildomain "sendgate-backend/internal/email/domain"
	emaildto "sendgate-backend/internal/email/dto"
	"sendgate-backend/internal/email/repository"
	"sendgate-backend/pkg/apperr"
	"sendgate-backend/pkg/config"
)

// emailUsecase implements EmailUsecase
type emailUsecase struct {
	emailRepo repository.EmailRepository
	config    *config.Config
}

// NewEmailUsecase creates a new instance of emailUsecase
func NewEmailUsecase(emailRepo repository.EmailRepository, cfg *config.Config) EmailUsecase {
	return &emailUsecase{
		emailRepo: emailRepo,
		config:    cfg,
	}
}

func (u *emailUsecase) SendEmail(req *emaildto.SendEmailRequest, userID string) (*emaildto.EmailResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := &emaildomain.Email{
		From:    u.config.FromAddress,
		To:      req.To,
		Cc:      req.Cc,
		Bcc:     req.Bcc,
		Subject: req.Subject,
		Body:    req.Body,
		IsHTML:  req.IsHTML,
		UserID:  userID,
	}
	if err := u.emailRepo.Create(email); err != nil {
		return nil, err
	}

	return &emaildto.EmailResponse{
		ID:        email.ID,
		Status:    string(email.Status),
		Message:   "Email queued successfully",
		CreatedAt: email.CreatedAt,
	}, nil
}

// SendBulkEmail submits every recipient even when some fail. An empty
// recipient list is not an error; it produces an empty result.
func (u *emailUsecase) SendBulkEmail(req *emaildto.SendBulkEmailRequest, userID string) ([]*emaildto.EmailResponse, error) {
	responses := make([]*emaildto.EmailResponse, 0, len(req.To))

	for _, recipient := range req.To {
		single := &emaildto.SendEmailRequest{
			To:      recipient,
			Subject: req.Subject,
			Body:    req.Body,
			IsHTML:  req.IsHTML,
		}

		resp, err := u.SendEmail(single, userID)
		if err != nil {
			if apperr.IsValidation(err) {
				responses = append(responses, &emaildto.EmailResponse{
					Status:  string(emaildomain.StatusFailed),
					Message: err.Error(),
				})
				continue
			}
			// Store failures are not per-recipient outcomes.
			return nil, err
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

func (u *emailUsecase) GetEmailByID(id string) (*emaildomain.Email, error) {
	return u.emailRepo.FindByID(id)
}

func (u *emailUsecase) GetEmailsByUser(userID string, page, pageSize int) ([]*emaildomain.Email, error) {
	return u.emailRepo.FindByUserID(userID, page, pageSize)
}

func (u *emailUsecase) UpdateEmailStatus(id string, status emaildomain.Status, errorMessage string) (bool, error) {
	if !status.Valid() {
		return false, apperr.NewValidation("status", "unknown status value")
	}
	return u.emailRepo.UpdateStatus(id, status, errorMessage)
}

func (u *emailUsecase) GetEmailLogs(emailID string) ([]*emaildomain.EmailLog, error) {
	return u.emailRepo.FindLogsByEmailID(emailID)
}
