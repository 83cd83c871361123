package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	emaildomain "sendgate-backend/internal/email/domain"
)

// ResendMailer sends emails through the Resend API.
type ResendMailer struct {
	client *resend.Client
}

// NewResendMailer creates a mailer using the given Resend API key.
func NewResendMailer(apiKey string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey)}
}

func (m *ResendMailer) Send(ctx context.Context, email *emaildomain.Email) (string, error) {
	params := &resend.SendEmailRequest{
		From:    email.From,
		To:      []string{email.To},
		Subject: email.Subject,
	}
	if email.Cc != "" {
		params.Cc = []string{email.Cc}
	}
	if email.Bcc != "" {
		params.Bcc = []string{email.Bcc}
	}
	if email.IsHTML {
		params.Html = email.Body
	} else {
		params.Text = email.Body
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("resend send failed: %w", err)
	}
	return sent.Id, nil
}
