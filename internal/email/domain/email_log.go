package domain

import (
	"fmt"
	"time"
)

// LogEvent is the kind of an audit log entry. It mirrors Status plus
// Created (written at submission) and post-delivery signals that never
// change the email's status.
type LogEvent string

const (
	EventCreated    LogEvent = "created"
	EventQueued     LogEvent = "queued"
	EventSending    LogEvent = "sending"
	EventSent       LogEvent = "sent"
	EventDelivered  LogEvent = "delivered"
	EventOpened     LogEvent = "opened"
	EventClicked    LogEvent = "clicked"
	EventBounced    LogEvent = "bounced"
	EventFailed     LogEvent = "failed"
	EventComplained LogEvent = "complained"
)

// EventForStatus maps a status transition to the log event recording it.
// A status with no mapping (including pending) is an error: writing a
// Created event for it would mask a bug in the caller.
func EventForStatus(status Status) (LogEvent, error) {
	switch status {
	case StatusQueued:
		return EventQueued, nil
	case StatusSending:
		return EventSending, nil
	case StatusSent:
		return EventSent, nil
	case StatusDelivered:
		return EventDelivered, nil
	case StatusFailed:
		return EventFailed, nil
	case StatusBounced:
		return EventBounced, nil
	default:
		return "", fmt.Errorf("no log event for status %q", status)
	}
}

// EmailLog is one append-only audit record of an email's lifecycle.
// Entries are never mutated or removed once written.
type EmailLog struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	EmailID   string    `json:"email_id" gorm:"index;not null"`
	Event     LogEvent  `json:"event" gorm:"not null"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}
