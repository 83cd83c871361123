package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	emaildomain "sendgate-backend/internal/email/domain"
	"sendgate-backend/pkg/apperr"
)

// gormEmailRepository implements EmailRepository on a relational store.
// Record writes and their log appends share a transaction.
type gormEmailRepository struct {
	db *gorm.DB
}

// NewGormEmailRepository creates a GORM-backed email store.
func NewGormEmailRepository(db *gorm.DB) EmailRepository {
	return &gormEmailRepository{db: db}
}

func (r *gormEmailRepository) Create(email *emaildomain.Email) error {
	if email.ID == "" {
		email.ID = uuid.New().String()
	}
	email.Status = emaildomain.StatusPending
	if email.CreatedAt.IsZero() {
		email.CreatedAt = time.Now().UTC()
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(email).Error; err != nil {
			return err
		}
		return tx.Create(&emaildomain.EmailLog{
			ID:        uuid.New().String(),
			EmailID:   email.ID,
			Event:     emaildomain.EventCreated,
			Timestamp: time.Now().UTC(),
			Details:   "Email created and queued for sending",
		}).Error
	})
}

func (r *gormEmailRepository) FindByID(id string) (*emaildomain.Email, error) {
	var email emaildomain.Email
	err := r.db.Where("id = ?", id).First(&email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}

func (r *gormEmailRepository) FindByUserID(userID string, page, pageSize int) ([]*emaildomain.Email, error) {
	if page < 1 {
		return nil, apperr.NewValidation("page", "page must be >= 1")
	}
	if pageSize <= 0 {
		return nil, apperr.NewValidation("pageSize", "pageSize must be > 0")
	}

	var emails []*emaildomain.Email
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&emails).Error
	return emails, err
}

func (r *gormEmailRepository) FindByStatus(status emaildomain.Status, limit int) ([]*emaildomain.Email, error) {
	var emails []*emaildomain.Email
	query := r.db.Where("status = ?", status).Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&emails).Error
	return emails, err
}

func (r *gormEmailRepository) UpdateStatus(id string, status emaildomain.Status, errorMessage string) (bool, error) {
	updated := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var email emaildomain.Email
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&email).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		event, err := applyTransition(&email, status, errorMessage, time.Now())
		if err != nil {
			return err
		}
		if err := tx.Save(&email).Error; err != nil {
			return err
		}
		if err := tx.Create(&emaildomain.EmailLog{
			ID:        uuid.New().String(),
			EmailID:   id,
			Event:     event,
			Timestamp: time.Now().UTC(),
			Details:   transitionDetails(status, errorMessage),
		}).Error; err != nil {
			return err
		}
		updated = true
		return nil
	})
	return updated, err
}

func (r *gormEmailRepository) IncrementRetry(id string) error {
	return r.db.Model(&emaildomain.Email{}).Where("id = ?", id).
		UpdateColumn("retry_count", gorm.Expr("retry_count + 1")).Error
}

func (r *gormEmailRepository) FindLogsByEmailID(emailID string) ([]*emaildomain.EmailLog, error) {
	var logs []*emaildomain.EmailLog
	err := r.db.Where("email_id = ?", emailID).Order("timestamp ASC").Find(&logs).Error
	return logs, err
}
