package domain

import "time"

// Status represents the delivery state of an email.
type Status string

const (
	StatusPending   Status = "pending"
	StatusQueued    Status = "queued"
	StatusSending   Status = "sending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
	StatusBounced   Status = "bounced"
)

// statusRank orders the normal progression. Failed and Bounced sit outside
// the ladder: they are terminal sinks reachable from any non-terminal state.
var statusRank = map[Status]int{
	StatusPending:   0,
	StatusQueued:    1,
	StatusSending:   2,
	StatusSent:      3,
	StatusDelivered: 4,
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusQueued, StatusSending, StatusSent, StatusDelivered, StatusFailed, StatusBounced:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusFailed || s == StatusBounced
}

// CanTransition reports whether moving from s to next preserves the
// monotonic progression. Re-applying the current status is allowed.
func (s Status) CanTransition(next Status) bool {
	if s.Terminal() && next != s {
		return false
	}
	if next == StatusFailed || next == StatusBounced {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to >= from
}

// Email is a single submitted message and its delivery state.
type Email struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	From         string     `json:"from" gorm:"not null"`
	To           string     `json:"to" gorm:"not null"`
	Cc           string     `json:"cc,omitempty"`
	Bcc          string     `json:"bcc,omitempty"`
	Subject      string     `json:"subject"`
	Body         string     `json:"body"`
	IsHTML       bool       `json:"is_html" gorm:"default:true"`
	Status       Status     `json:"status" gorm:"index;default:pending"`
	UserID       string     `json:"user_id" gorm:"index;not null"`
	CreatedAt    time.Time  `json:"created_at" gorm:"index"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	RetryCount   int        `json:"retry_count" gorm:"default:0"`
}
