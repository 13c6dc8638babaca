package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
	GetByEmailOrPhone(ctx context.Context, emailOrPhone string) (*User, error)
}
