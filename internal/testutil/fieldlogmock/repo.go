package fieldlogmock

import (
	"context"

	"gorm.io/gorm"

	domain "agriloan-backend/internal/domain/fieldlog"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, f *domain.FieldLog) error
	GetByLogIDFn     func(ctx context.Context, logID string) (*domain.FieldLog, error)
	ListByFarmerIDFn func(ctx context.Context, farmerID string) ([]domain.FieldLog, error)
}

func (m *Repo) Create(ctx context.Context, f *domain.FieldLog) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, f)
	}
	return nil
}

func (m *Repo) GetByLogID(ctx context.Context, logID string) (*domain.FieldLog, error) {
	if m.GetByLogIDFn != nil {
		return m.GetByLogIDFn(ctx, logID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListByFarmerID(ctx context.Context, farmerID string) ([]domain.FieldLog, error) {
	if m.ListByFarmerIDFn != nil {
		return m.ListByFarmerIDFn(ctx, farmerID)
	}
	return nil, nil
}
