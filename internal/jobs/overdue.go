package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	loanDomain "agriloan-backend/internal/domain/loan"
	"agriloan-backend/internal/domain/uow"
	"agriloan-backend/internal/metrics"
)

// OverdueSweeper periodically persists OVERDUE on approved loans past their
// due date. The effective status already reads as OVERDUE without it; the
// sweep only aligns stored state for status-based queries.
type OverdueSweeper struct {
	loans    loanDomain.Repository
	uow      uow.UnitOfWork
	interval time.Duration
	log      *logrus.Logger
}

func NewOverdueSweeper(loans loanDomain.Repository, tx uow.UnitOfWork, interval time.Duration, log *logrus.Logger) *OverdueSweeper {
	return &OverdueSweeper{loans: loans, uow: tx, interval: interval, log: log}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *OverdueSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.SweepOnce(ctx); err != nil {
				s.log.WithError(err).Warn("overdue sweep failed")
			} else if n > 0 {
				s.log.WithField("marked", n).Info("overdue sweep complete")
			}
		}
	}
}

// SweepOnce marks every APPROVED/ACTIVE loan past due with an outstanding
// balance. Each loan is re-checked under its row lock, so a repayment that
// lands concurrently (possibly settling the loan) always wins.
func (s *OverdueSweeper) SweepOnce(ctx context.Context) (int, error) {
	candidates, err := s.loans.ListByStatuses(ctx, loanDomain.StatusApproved, loanDomain.StatusActive)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	marked := 0
	for i := range candidates {
		c := &candidates[i]
		if c.RepaymentDueDate == nil || !now.After(*c.RepaymentDueDate) {
			continue
		}
		err := s.uow.WithinLoanTx(ctx, c.LoanID, func(r uow.Repos, l *loanDomain.Loan) error {
			if l.Status != loanDomain.StatusApproved && l.Status != loanDomain.StatusActive {
				return nil
			}
			if l.RepaymentDueDate == nil || !now.After(*l.RepaymentDueDate) || l.RemainingBalance() <= 0 {
				return nil
			}
			l.Status = loanDomain.StatusOverdue
			l.StateUpdatedAt = now
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			metrics.LoanTransitions.WithLabelValues(string(loanDomain.StatusOverdue)).Inc()
			marked++
			return nil
		})
		if err != nil {
			s.log.WithError(err).WithField("loan_id", c.LoanID).Warn("overdue sweep: loan skipped")
		}
	}

	metrics.OverdueSweeps.Inc()
	return marked, nil
}
