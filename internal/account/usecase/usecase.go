package usecase

import (
	accountdomain "sendgate-backend/internal/account/domain"
)

// AccountUsecase resolves API clients and enforces their daily send quota.
type AccountUsecase interface {
	// GetUserByAPIKey returns the active user holding key, or nil.
	GetUserByAPIKey(key string) (*accountdomain.User, error)
	GetUserByID(id string) (*accountdomain.User, error)
	// CreateUser provisions a user with a fresh API key and default limits.
	CreateUser(email, name string) (*accountdomain.User, error)
	// ValidateAPIKey reports whether key belongs to an active user.
	ValidateAPIKey(key string) (bool, error)
	// CheckRateLimit reports whether the user may send now, applying the
	// lazy daily reset. It does not consume quota.
	CheckRateLimit(userID string) (bool, error)
	// IncrementEmailCount consumes one quota slot. Call it exactly once
	// per accepted send, and only after the check passed.
	IncrementEmailCount(userID string) error
	// ReserveSend is the atomic check-and-consume used by the request
	// path; prefer it over the CheckRateLimit/IncrementEmailCount pair.
	ReserveSend(userID string) (bool, error)
}
