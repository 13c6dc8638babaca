package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"agriloan-backend/internal/domain/apperr"
	domain "agriloan-backend/internal/domain/user"
	"agriloan-backend/pkg/id"
)

type Usecase struct {
	users domain.Repository
	log   *logrus.Logger
}

func NewUsecase(users domain.Repository, log *logrus.Logger) *Usecase {
	return &Usecase{users: users, log: log}
}

type RegisterInput struct {
	EmailOrPhone string `json:"email_or_phone"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	EntityName   string `json:"entity_name"`
}

type UserDTO struct {
	UserID       string    `json:"user_id"`
	EmailOrPhone string    `json:"email_or_phone"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	EntityName   string    `json:"entity_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toDTO(u *domain.User) *UserDTO {
	return &UserDTO{
		UserID:       u.UserID,
		EmailOrPhone: u.EmailOrPhone,
		FullName:     u.FullName,
		Role:         string(u.Role),
		EntityName:   u.EntityName,
		CreatedAt:    u.CreatedAt,
	}
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	contact := strings.TrimSpace(in.EmailOrPhone)
	name := strings.TrimSpace(in.FullName)
	if contact == "" {
		return nil, apperr.Validationf("email_or_phone is required")
	}
	if name == "" {
		return nil, apperr.Validationf("full_name is required")
	}
	role := domain.Role(in.Role)
	if !role.Valid() {
		return nil, apperr.Validationf("unknown role %q", in.Role)
	}

	// uniqueness on contact; the db unique index backs this up under races
	if _, err := u.users.GetByEmailOrPhone(ctx, contact); err == nil {
		return nil, apperr.Validationf("account for %s already exists", contact)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	usr := &domain.User{
		UserID:       id.NewID32(),
		EmailOrPhone: contact,
		FullName:     name,
		Role:         role,
		EntityName:   strings.TrimSpace(in.EntityName),
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"user_id": usr.UserID, "role": usr.Role}).Info("user registered")
	return toDTO(usr), nil
}

func (u *Usecase) Get(ctx context.Context, userID string) (*UserDTO, error) {
	usr, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user %s", userID)
		}
		return nil, err
	}
	return toDTO(usr), nil
}
