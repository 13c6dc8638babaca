package usermock

import (
	"context"

	"gorm.io/gorm"

	domain "agriloan-backend/internal/domain/user"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn            func(ctx context.Context, u *domain.User) error
	SaveFn              func(ctx context.Context, u *domain.User) error
	GetByUserIDFn       func(ctx context.Context, userID string) (*domain.User, error)
	GetByEmailOrPhoneFn func(ctx context.Context, emailOrPhone string) (*domain.User, error)
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, u *domain.User) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByEmailOrPhone(ctx context.Context, emailOrPhone string) (*domain.User, error) {
	if m.GetByEmailOrPhoneFn != nil {
		return m.GetByEmailOrPhoneFn(ctx, emailOrPhone)
	}
	return nil, gorm.ErrRecordNotFound
}

// Fixed returns a repo whose lookups resolve the given users by id.
func Fixed(users ...*domain.User) *Repo {
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}
	return &Repo{
		GetByUserIDFn: func(_ context.Context, userID string) (*domain.User, error) {
			if u, ok := byID[userID]; ok {
				return u, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
}
