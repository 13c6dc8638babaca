package loanmock

import (
	"context"

	"gorm.io/gorm"

	domain "agriloan-backend/internal/domain/loan"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListByFarmerIDFn       func(ctx context.Context, farmerID string) ([]domain.Loan, error)
	ListByStatusesFn       func(ctx context.Context, statuses ...domain.Status) ([]domain.Loan, error)
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
	AddRepaymentFn         func(ctx context.Context, r *domain.Repayment) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListByFarmerID(ctx context.Context, farmerID string) ([]domain.Loan, error) {
	if m.ListByFarmerIDFn != nil {
		return m.ListByFarmerIDFn(ctx, farmerID)
	}
	return nil, nil
}

func (m *Repo) ListByStatuses(ctx context.Context, statuses ...domain.Status) ([]domain.Loan, error) {
	if m.ListByStatusesFn != nil {
		return m.ListByStatusesFn(ctx, statuses...)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) AddRepayment(ctx context.Context, r *domain.Repayment) error {
	if m.AddRepaymentFn != nil {
		return m.AddRepaymentFn(ctx, r)
	}
	return nil
}
