package repository

import (
	emaildomain "sendgate-backend/internal/email/domain"
)

// EmailRepository is the email record store together with its append-only
// event log. Creating a record and appending its Created event happen
// atomically, as does a status update and the event mirroring it.
type EmailRepository interface {
	// Create assigns an id, stamps CreatedAt, forces status pending and
	// appends one Created event.
	Create(email *emaildomain.Email) error
	FindByID(id string) (*emaildomain.Email, error)
	// FindByUserID pages through a user's emails, newest first. Page is
	// 1-based; page < 1 or pageSize <= 0 is a validation error.
	FindByUserID(userID string, page, pageSize int) ([]*emaildomain.Email, error)
	// FindByStatus feeds the dispatcher, oldest first.
	FindByStatus(status emaildomain.Status, limit int) ([]*emaildomain.Email, error)
	// UpdateStatus returns false when id is unknown, appending nothing.
	// On success it sets the status, stamps SentAt/DeliveredAt on the
	// first transition to sent/delivered, replaces the error message and
	// appends exactly one event mirroring the new status. A status with no event mapping, or a
	// transition that would move backwards, is an error.
	UpdateStatus(id string, status emaildomain.Status, errorMessage string) (bool, error)
	// IncrementRetry bumps the retry counter after a failed dispatch.
	IncrementRetry(id string) error
	FindLogsByEmailID(emailID string) ([]*emaildomain.EmailLog, error)
}
