package repository

import (
	"time"

	accountdomain "sendgate-backend/internal/account/domain"
)

// UserRepository is the account store. Find methods return (nil, nil) when
// no record matches. Quota operations persist the lazy window reset they
// apply; each is atomic with respect to concurrent calls for the same user.
type UserRepository interface {
	Create(user *accountdomain.User) error
	FindByID(id string) (*accountdomain.User, error)
	// FindByAPIKey matches the key byte-for-byte against active users only.
	FindByAPIKey(key string) (*accountdomain.User, error)
	Update(user *accountdomain.User) error

	// CheckQuota applies the lazy daily reset and reports whether the user
	// is under their limit. It never increments the counter.
	CheckQuota(id string, now time.Time) (bool, error)
	// IncrementSentCount records one accepted send and stamps LastUsedAt.
	IncrementSentCount(id string, now time.Time) error
	// ReserveSend performs reset, check and increment in one critical
	// section so two concurrent requests cannot both pass the check on the
	// last remaining slot. False means the quota is exhausted or the user
	// is unknown.
	ReserveSend(id string, now time.Time) (bool, error)
}
