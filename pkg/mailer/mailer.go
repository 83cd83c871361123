package mailer

import (
	"context"

	emaildomain "sendgate-backend/internal/email/domain"
)

// Mailer hands a message to an outbound provider. Send returns the
// provider's message id when it accepted the message.
type Mailer interface {
	Send(ctx context.Context, email *emaildomain.Email) (string, error)
}
