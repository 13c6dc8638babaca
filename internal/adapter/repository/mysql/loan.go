package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "agriloan-backend/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	// Omit the ledger: repayments are append-only and written through
	// AddRepayment, never re-saved with the parent row.
	return r.db.WithContext(ctx).Omit("Repayments").Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Preload("Repayments", func(db *gorm.DB) *gorm.DB { return db.Order("repayments.id ASC") }).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Repayments", func(db *gorm.DB) *gorm.DB { return db.Order("repayments.id ASC") }).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListByFarmerID(ctx context.Context, farmerID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Preload("Repayments", func(db *gorm.DB) *gorm.DB { return db.Order("repayments.id ASC") }).
		Where("farmer_id = ?", farmerID).
		Order("application_date DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListByStatuses(ctx context.Context, statuses ...loanDomain.Status) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Preload("Repayments", func(db *gorm.DB) *gorm.DB { return db.Order("repayments.id ASC") }).
		Where("status IN ?", statuses).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) AddRepayment(ctx context.Context, p *loanDomain.Repayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}
