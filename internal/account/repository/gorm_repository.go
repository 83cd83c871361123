package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	accountdomain "sendgate-backend/internal/account/domain"
	"sendgate-backend/internal/account/quota"
)

// gormUserRepository implements UserRepository on a relational store.
type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a GORM-backed user store.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(user *accountdomain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	return r.db.Create(user).Error
}

func (r *gormUserRepository) FindByID(id string) (*accountdomain.User, error) {
	var user accountdomain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) FindByAPIKey(key string) (*accountdomain.User, error) {
	var user accountdomain.User
	err := r.db.Where("api_key = ? AND is_active = ?", key, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) Update(user *accountdomain.User) error {
	return r.db.Save(user).Error
}

func (r *gormUserRepository) CheckQuota(id string, now time.Time) (bool, error) {
	allowed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, id)
		if err != nil || user == nil {
			return err
		}
		allowed = quota.Allow(user, now)
		return tx.Save(user).Error
	})
	return allowed, err
}

func (r *gormUserRepository) IncrementSentCount(id string, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, id)
		if err != nil || user == nil {
			return err
		}
		user.EmailsSentToday++
		ts := now.UTC()
		user.LastUsedAt = &ts
		return tx.Save(user).Error
	})
}

// ReserveSend holds a row lock across the reset, check and increment so
// concurrent requests for the same user serialize on the database.
func (r *gormUserRepository) ReserveSend(id string, now time.Time) (bool, error) {
	reserved := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, id)
		if err != nil || user == nil {
			return err
		}
		if !quota.Allow(user, now) {
			// Persist the window reset even when the send is denied.
			return tx.Save(user).Error
		}
		user.EmailsSentToday++
		ts := now.UTC()
		user.LastUsedAt = &ts
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		reserved = true
		return nil
	})
	return reserved, err
}

func lockUser(tx *gorm.DB, id string) (*accountdomain.User, error) {
	var user accountdomain.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
