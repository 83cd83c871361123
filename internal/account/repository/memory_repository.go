package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"

	accountdomain "sendgate-backend/internal/account/domain"
	"sendgate-backend/internal/account/quota"
)

// memoryUserRepository keeps users in process memory. It backs tests and
// DB-less development mode; all operations share one mutex so the quota
// check-then-increment sequence cannot interleave.
type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*accountdomain.User
	byKey map[string]string // api key -> user id
}

// NewMemoryUserRepository creates an empty in-memory user store.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users: make(map[string]*accountdomain.User),
		byKey: make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(user *accountdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	stored := *user
	r.users[stored.ID] = &stored
	r.byKey[stored.APIKey] = stored.ID
	return nil
}

func (r *memoryUserRepository) FindByID(id string) (*accountdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyUser(r.users[id]), nil
}

func (r *memoryUserRepository) FindByAPIKey(key string) (*accountdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byKey[key]
	if !ok {
		return nil, nil
	}
	user := r.users[id]
	if user == nil || !user.IsActive {
		return nil, nil
	}
	return copyUser(user), nil
}

func (r *memoryUserRepository) Update(user *accountdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if ok {
		delete(r.byKey, existing.APIKey)
	}
	stored := *user
	r.users[stored.ID] = &stored
	r.byKey[stored.APIKey] = stored.ID
	return nil
}

func (r *memoryUserRepository) CheckQuota(id string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return false, nil
	}
	return quota.Allow(user, now), nil
}

func (r *memoryUserRepository) IncrementSentCount(id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil
	}
	user.EmailsSentToday++
	ts := now.UTC()
	user.LastUsedAt = &ts
	return nil
}

func (r *memoryUserRepository) ReserveSend(id string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return false, nil
	}
	if !quota.Allow(user, now) {
		return false, nil
	}
	user.EmailsSentToday++
	ts := now.UTC()
	user.LastUsedAt = &ts
	return true, nil
}

func copyUser(u *accountdomain.User) *accountdomain.User {
	if u == nil {
		return nil
	}
	out := *u
	return &out
}
