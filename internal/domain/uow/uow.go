package uow

import (
	"context"

	"agriloan-backend/internal/domain/fieldlog"
	"agriloan-backend/internal/domain/loan"
	"agriloan-backend/internal/domain/marketplace"
	"agriloan-backend/internal/domain/negotiation"
	"agriloan-backend/internal/domain/user"
)

// Repos bundles every repository bound to one transaction.
type Repos struct {
	Users        user.Repository
	Loans        loan.Repository
	Listings     marketplace.Repository
	Negotiations negotiation.Repository
	FieldLogs    fieldlog.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
	// convenience: lock the negotiation row first, then pass it in
	WithinNegotiationTx(ctx context.Context, negotiationID string, fn func(r Repos, n *negotiation.Negotiation) error) error
}
