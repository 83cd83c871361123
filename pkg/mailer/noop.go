package mailer

import (
	"context"
	"fmt"
	"log"
	"time"

	emaildomain "sendgate-backend/internal/email/domain"
)

// NoopMailer logs sends without delivering anything. It backs development
// mode when no provider key is configured.
type NoopMailer struct{}

func NewNoopMailer() *NoopMailer {
	return &NoopMailer{}
}

func (m *NoopMailer) Send(_ context.Context, email *emaildomain.Email) (string, error) {
	log.Printf("[NoopMailer] would send %s to %s (%q)", email.ID, email.To, email.Subject)
	return fmt.Sprintf("noop-%d", time.Now().UnixNano()), nil
}
