package repository

import (
	"fmt"
	"time"

	emaildomain "sendgate-backend/internal/email/domain"
)

// applyTransition mutates e for a status update and returns the log event
// to append. Shared by every store implementation so the transition rules
// cannot drift between them.
func applyTransition(e *emaildomain.Email, status emaildomain.Status, errorMessage string, now time.Time) (emaildomain.LogEvent, error) {
	event, err := emaildomain.EventForStatus(status)
	if err != nil {
		return "", err
	}
	if !e.Status.CanTransition(status) {
		return "", fmt.Errorf("invalid transition from %q to %q", e.Status, status)
	}

	e.Status = status
	e.ErrorMessage = errorMessage

	ts := now.UTC()
	if status == emaildomain.StatusSent && e.SentAt == nil {
		e.SentAt = &ts
	}
	if status == emaildomain.StatusDelivered && e.DeliveredAt == nil {
		e.DeliveredAt = &ts
	}
	return event, nil
}

// transitionDetails is the log entry body: the error message when the
// transition carries one, else a generic note.
func transitionDetails(status emaildomain.Status, errorMessage string) string {
	if errorMessage != "" {
		return errorMessage
	}
	return fmt.Sprintf("Status updated to %s", status)
}
