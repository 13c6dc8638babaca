package uowmock

import (
	"context"
	"errors"

	"agriloan-backend/internal/domain/loan"
	"agriloan-backend/internal/domain/negotiation"
	"agriloan-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn            func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn        func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error
	WithinNegotiationTxFn func(ctx context.Context, negotiationID string, fn func(r uow.Repos, n *negotiation.Negotiation) error) error
}

func New() *UoW { return &UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, loanID, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinNegotiationTx(ctx context.Context, negotiationID string, fn func(r uow.Repos, n *negotiation.Negotiation) error) error {
	if m.WithinNegotiationTxFn != nil {
		return m.WithinNegotiationTxFn(ctx, negotiationID, fn)
	}
	return errUnimplemented
}

// Passthrough wires the helpers straight onto the given repos, resolving the
// locked row through the corresponding repo's ForUpdate lookup. It behaves
// like a transaction that always commits.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
		WithinLoanTxFn: func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
			l, err := repos.Loans.GetByLoanIDForUpdate(ctx, loanID)
			if err != nil {
				return err
			}
			return fn(repos, l)
		},
		WithinNegotiationTxFn: func(ctx context.Context, negotiationID string, fn func(r uow.Repos, n *negotiation.Negotiation) error) error {
			n, err := repos.Negotiations.GetByNegotiationIDForUpdate(ctx, negotiationID)
			if err != nil {
				return err
			}
			return fn(repos, n)
		},
	}
}
