package mysql

import (
	"context"

	"gorm.io/gorm"

	"agriloan-backend/internal/domain/loan"
	"agriloan-backend/internal/domain/negotiation"
	"agriloan-backend/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Users:        &UserRepository{db: tx},
		Loans:        &LoanRepository{db: tx},
		Listings:     &ListingRepository{db: tx},
		Negotiations: &NegotiationRepository{db: tx},
		FieldLogs:    &FieldLogRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

func (u *GormUoW) WithinNegotiationTx(ctx context.Context, negotiationID string, fn func(r uow.Repos, n *negotiation.Negotiation) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		n, err := r.Negotiations.GetByNegotiationIDForUpdate(ctx, negotiationID)
		if err != nil {
			return err
		}
		return fn(r, n)
	})
}
