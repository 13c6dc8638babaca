package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row for the enclosing transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	ListByFarmerID(ctx context.Context, farmerID string) ([]Loan, error)
	ListByStatuses(ctx context.Context, statuses ...Status) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
	AddRepayment(ctx context.Context, r *Repayment) error
}
