package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	accountdomain "sendgate-backend/internal/account/domain"
	"sendgate-backend/internal/account/repository"
	"sendgate-backend/pkg/apperr"
)

// accountUsecase implements AccountUsecase
type accountUsecase struct {
	userRepo repository.UserRepository
}

// NewAccountUsecase creates a new instance of accountUsecase
func NewAccountUsecase(userRepo repository.UserRepository) AccountUsecase {
	return &accountUsecase{userRepo: userRepo}
}

func (u *accountUsecase) GetUserByAPIKey(key string) (*accountdomain.User, error) {
	return u.userRepo.FindByAPIKey(key)
}

func (u *accountUsecase) GetUserByID(id string) (*accountdomain.User, error) {
	return u.userRepo.FindByID(id)
}

func (u *accountUsecase) CreateUser(email, name string) (*accountdomain.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperr.NewValidation("email", "email is required")
	}

	user := &accountdomain.User{
		ID:              uuid.New().String(),
		Email:           email,
		Name:            name,
		APIKey:          uuid.New().String(),
		IsActive:        true,
		DailyEmailLimit: accountdomain.DefaultDailyEmailLimit,
		EmailsSentToday: 0,
		CreatedAt:       time.Now().UTC(),
	}
	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *accountUsecase) ValidateAPIKey(key string) (bool, error) {
	// Consistent with GetUserByAPIKey: inactive users never validate.
	user, err := u.userRepo.FindByAPIKey(key)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

func (u *accountUsecase) CheckRateLimit(userID string) (bool, error) {
	return u.userRepo.CheckQuota(userID, time.Now())
}

func (u *accountUsecase) IncrementEmailCount(userID string) error {
	return u.userRepo.IncrementSentCount(userID, time.Now())
}

func (u *accountUsecase) ReserveSend(userID string) (bool, error) {
	return u.userRepo.ReserveSend(userID, time.Now())
}
