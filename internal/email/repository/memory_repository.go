package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	emaildomain "sendgate-backend/internal/email/domain"
	"sendgate-backend/pkg/apperr"
)

// memoryEmailRepository keeps emails and their log in process memory,
// mirroring the behavior the durable store must provide. One mutex guards
// both collections so a status update and its log append cannot be
// observed half done.
type memoryEmailRepository struct {
	mu     sync.RWMutex
	emails map[string]*emaildomain.Email
	logs   []*emaildomain.EmailLog
}

// NewMemoryEmailRepository creates an empty in-memory email store.
func NewMemoryEmailRepository() EmailRepository {
	return &memoryEmailRepository{
		emails: make(map[string]*emaildomain.Email),
	}
}

func (r *memoryEmailRepository) Create(email *emaildomain.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if email.ID == "" {
		email.ID = uuid.New().String()
	}
	email.Status = emaildomain.StatusPending
	if email.CreatedAt.IsZero() {
		email.CreatedAt = time.Now().UTC()
	}

	stored := *email
	r.emails[stored.ID] = &stored
	r.logs = append(r.logs, &emaildomain.EmailLog{
		ID:        uuid.New().String(),
		EmailID:   stored.ID,
		Event:     emaildomain.EventCreated,
		Timestamp: time.Now().UTC(),
		Details:   "Email created and queued for sending",
	})
	return nil
}

func (r *memoryEmailRepository) FindByID(id string) (*emaildomain.Email, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyEmail(r.emails[id]), nil
}

func (r *memoryEmailRepository) FindByUserID(userID string, page, pageSize int) ([]*emaildomain.Email, error) {
	if page < 1 {
		return nil, apperr.NewValidation("page", "page must be >= 1")
	}
	if pageSize <= 0 {
		return nil, apperr.NewValidation("pageSize", "pageSize must be > 0")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*emaildomain.Email
	for _, e := range r.emails {
		if e.UserID == userID {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	skip := (page - 1) * pageSize
	if skip >= len(matched) {
		return []*emaildomain.Email{}, nil
	}
	end := skip + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]*emaildomain.Email, 0, end-skip)
	for _, e := range matched[skip:end] {
		out = append(out, copyEmail(e))
	}
	return out, nil
}

func (r *memoryEmailRepository) FindByStatus(status emaildomain.Status, limit int) ([]*emaildomain.Email, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*emaildomain.Email
	for _, e := range r.emails {
		if e.Status == status {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]*emaildomain.Email, 0, len(matched))
	for _, e := range matched {
		out = append(out, copyEmail(e))
	}
	return out, nil
}

func (r *memoryEmailRepository) UpdateStatus(id string, status emaildomain.Status, errorMessage string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email, ok := r.emails[id]
	if !ok {
		return false, nil
	}

	event, err := applyTransition(email, status, errorMessage, time.Now())
	if err != nil {
		return false, err
	}

	r.logs = append(r.logs, &emaildomain.EmailLog{
		ID:        uuid.New().String(),
		EmailID:   id,
		Event:     event,
		Timestamp: time.Now().UTC(),
		Details:   transitionDetails(status, errorMessage),
	})
	return true, nil
}

func (r *memoryEmailRepository) IncrementRetry(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if email, ok := r.emails[id]; ok {
		email.RetryCount++
	}
	return nil
}

func (r *memoryEmailRepository) FindLogsByEmailID(emailID string) ([]*emaildomain.EmailLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*emaildomain.EmailLog
	for _, l := range r.logs {
		if l.EmailID == emailID {
			entry := *l
			out = append(out, &entry)
		}
	}
	return out, nil
}

func copyEmail(e *emaildomain.Email) *emaildomain.Email {
	if e == nil {
		return nil
	}
	out := *e
	return &out
}
