package loan

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"agriloan-backend/internal/domain/apperr"
	"agriloan-backend/internal/domain/crop"
	domain "agriloan-backend/internal/domain/loan"
	"agriloan-backend/internal/domain/uow"
	userDomain "agriloan-backend/internal/domain/user"
	"agriloan-backend/internal/metrics"
	"agriloan-backend/pkg/id"
)

// Usecase drives the loan lifecycle state machine and the repayment ledger.
// Every transition runs inside a row-locked transaction and re-validates the
// status guard against the locked row.
type Usecase struct {
	loans domain.Repository
	users userDomain.Repository
	uow   uow.UnitOfWork
	log   *logrus.Logger
}

func NewUsecase(loans domain.Repository, users userDomain.Repository, tx uow.UnitOfWork, log *logrus.Logger) *Usecase {
	return &Usecase{loans: loans, users: users, uow: tx, log: log}
}

func (u *Usecase) userInRole(ctx context.Context, userID string, role userDomain.Role) (*userDomain.User, error) {
	actor, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user %s", userID)
		}
		return nil, err
	}
	if actor.Role != role {
		return nil, apperr.Validationf("user %s is not a %s", userID, role)
	}
	return actor, nil
}

// SubmitApplication creates a loan in PENDING_ADMIN_REVIEW with the farmer's
// display name snapshotted onto it.
func (u *Usecase) SubmitApplication(ctx context.Context, in SubmitApplicationInput) (*LoanDTO, error) {
	if in.FarmerID == "" {
		return nil, apperr.Validationf("farmer_id is required")
	}
	if in.RequestedAmount <= 0 {
		return nil, apperr.Validationf("requested_amount must be positive")
	}
	if in.FarmSizeAcres <= 0 {
		return nil, apperr.Validationf("farm_size_acres must be positive")
	}
	ct := crop.Type(in.CropType)
	if !ct.Valid() {
		return nil, apperr.Validationf("unknown crop type %q", in.CropType)
	}
	if ct == crop.Other && strings.TrimSpace(in.OtherCropType) == "" {
		return nil, apperr.Validationf("other_crop_type is required when crop type is Other")
	}
	if strings.TrimSpace(in.InputNeeds) == "" {
		return nil, apperr.Validationf("input_needs is required")
	}

	farmer, err := u.userInRole(ctx, in.FarmerID, userDomain.RoleFarmer)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	l := &domain.Loan{
		LoanID:              id.NewID32(),
		FarmerID:            farmer.UserID,
		FarmerName:          farmer.FullName,
		FarmSizeAcres:       in.FarmSizeAcres,
		CropType:            ct,
		OtherCropType:       strings.TrimSpace(in.OtherCropType),
		InputNeeds:          strings.TrimSpace(in.InputNeeds),
		RequestedAmount:     in.RequestedAmount,
		ApplicationDate:     now,
		ExpectedHarvestDate: in.ExpectedHarvestDate,
		Status:              domain.StatusPendingAdminReview,
		StateUpdatedAt:      now,
	}
	if err := u.loans.Create(ctx, l); err != nil {
		return nil, err
	}

	metrics.LoanTransitions.WithLabelValues(string(domain.StatusPendingAdminReview)).Inc()
	u.log.WithFields(logrus.Fields{"loan_id": l.LoanID, "farmer_id": l.FarmerID}).Info("loan application submitted")
	return toDTO(l, now), nil
}

// RecordAdminDecision applies the first review stage: FORWARD moves the loan
// to the bank queue with a pre-approved ceiling, REJECT terminates it.
func (u *Usecase) RecordAdminDecision(ctx context.Context, in AdminDecisionInput) (*LoanDTO, error) {
	reviewer, err := u.userInRole(ctx, in.ReviewerID, userDomain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	var dto *LoanDTO
	err = u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusPendingAdminReview {
			return apperr.InvalidStatef("loan %s is %s, admin review requires %s",
				l.LoanID, l.Status, domain.StatusPendingAdminReview)
		}

		now := time.Now().UTC()
		comments := strings.TrimSpace(in.Comments)

		switch in.Action {
		case domain.AdminForward:
			if in.PreApprovedAmount == nil || *in.PreApprovedAmount <= 0 {
				return apperr.Validationf("pre_approved_amount must be positive to forward")
			}
			amount := *in.PreApprovedAmount
			l.PreApprovedAmount = &amount
			l.Status = domain.StatusPendingBankApproval
		case domain.AdminReject:
			if comments == "" {
				return apperr.Validationf("comments are required to reject")
			}
			l.Status = domain.StatusRejected
		default:
			return apperr.Validationf("unknown admin action %q", in.Action)
		}

		l.AdminReviewerID = reviewer.UserID
		l.AdminReviewerName = reviewer.FullName
		l.AdminReviewDate = &now
		l.AdminComments = comments
		l.StateUpdatedAt = now

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		metrics.LoanTransitions.WithLabelValues(string(l.Status)).Inc()
		dto = toDTO(l, now)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("loan %s", in.LoanID)
		}
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"loan_id": in.LoanID, "action": in.Action}).Info("admin decision recorded")
	return dto, nil
}

// RecordOfficerDecision applies the binding bank stage. APPROVE from
// PENDING_BANK_APPROVAL transitions to APPROVED; re-APPROVE while already
// APPROVED/ACTIVE is a modification and keeps the current status. REJECT
// terminates and clears the approved amount and due date.
func (u *Usecase) RecordOfficerDecision(ctx context.Context, in OfficerDecisionInput) (*LoanDTO, error) {
	officer, err := u.userInRole(ctx, in.OfficerID, userDomain.RoleBankOfficer)
	if err != nil {
		return nil, err
	}

	var dto *LoanDTO
	err = u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		switch l.Status {
		case domain.StatusPendingBankApproval, domain.StatusApproved, domain.StatusActive:
		default:
			return apperr.InvalidStatef("loan %s is %s, officer decision requires bank queue or approved loan",
				l.LoanID, l.Status)
		}

		now := time.Now().UTC()

		switch in.Action {
		case domain.OfficerApprove:
			if in.ApprovedAmount == nil || *in.ApprovedAmount <= 0 {
				return apperr.Validationf("approved_amount must be positive to approve")
			}
			if in.RepaymentDueDate == nil {
				return apperr.Validationf("repayment_due_date is required to approve")
			}
			if in.RepaymentDueDate.Before(now) {
				return apperr.Validationf("repayment_due_date must not be in the past")
			}
			amount := *in.ApprovedAmount
			due := in.RepaymentDueDate.UTC()
			l.ApprovedAmount = &amount
			l.RepaymentDueDate = &due
			if l.Status == domain.StatusPendingBankApproval {
				l.Status = domain.StatusApproved
				metrics.LoanTransitions.WithLabelValues(string(domain.StatusApproved)).Inc()
			}
		case domain.OfficerReject:
			l.Status = domain.StatusRejected
			l.ApprovedAmount = nil
			l.RepaymentDueDate = nil
			metrics.LoanTransitions.WithLabelValues(string(domain.StatusRejected)).Inc()
		default:
			return apperr.Validationf("unknown officer action %q", in.Action)
		}

		l.OfficerID = officer.UserID
		l.OfficerName = officer.FullName
		l.OfficerComments = strings.TrimSpace(in.Comments)
		l.StateUpdatedAt = now

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l, now)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("loan %s", in.LoanID)
		}
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"loan_id": in.LoanID, "action": in.Action}).Info("officer decision recorded")
	return dto, nil
}

// MarkDisbursed records disbursement: APPROVED moves to ACTIVE.
func (u *Usecase) MarkDisbursed(ctx context.Context, loanID, officerID string) (*LoanDTO, error) {
	if _, err := u.userInRole(ctx, officerID, userDomain.RoleBankOfficer); err != nil {
		return nil, err
	}

	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusApproved {
			return apperr.InvalidStatef("loan %s is %s, disbursement requires %s",
				l.LoanID, l.Status, domain.StatusApproved)
		}
		now := time.Now().UTC()
		l.Status = domain.StatusActive
		l.StateUpdatedAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		metrics.LoanTransitions.WithLabelValues(string(domain.StatusActive)).Inc()
		dto = toDTO(l, now)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("loan %s", loanID)
		}
		return nil, err
	}
	return dto, nil
}

// RecordRepayment appends to the ledger and advances the persisted status:
// REPAID once the balance reaches zero, OVERDUE when a partial payment lands
// past the due date. This is the only path besides the sweeper that persists
// either status. Not idempotent: each call appends a new ledger row.
func (u *Usecase) RecordRepayment(ctx context.Context, in RepaymentInput) (*RepaymentDTO, error) {
	if in.Amount <= 0 {
		return nil, apperr.Validationf("amount must be positive")
	}

	var dto *RepaymentDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		if l.ApprovedAmount == nil {
			return apperr.InvalidStatef("loan %s has no approved amount", l.LoanID)
		}
		switch l.Status {
		case domain.StatusApproved, domain.StatusActive, domain.StatusOverdue:
		default:
			return apperr.InvalidStatef("loan %s is %s, repayments require an open approved loan", l.LoanID, l.Status)
		}

		remaining := l.RemainingBalance()
		if in.Amount > remaining {
			return apperr.Validationf("amount %.2f exceeds remaining balance %.2f", in.Amount, remaining)
		}

		now := time.Now().UTC()
		paidAt := in.PaidAt
		if paidAt.IsZero() {
			paidAt = now
		}

		p := &domain.Repayment{
			RepaymentID:   id.NewID32(),
			LoanID:        l.ID,
			TransactionID: uuid.NewString(),
			Amount:        in.Amount,
			PaidAt:        paidAt.UTC(),
			RecordedBy:    in.RecordedBy,
		}
		if err := r.Loans.AddRepayment(ctx, p); err != nil {
			return err
		}
		l.Repayments = append(l.Repayments, *p)

		if l.TotalRepaid() >= *l.ApprovedAmount {
			l.Status = domain.StatusRepaid
			metrics.LoanTransitions.WithLabelValues(string(domain.StatusRepaid)).Inc()
		} else if l.RepaymentDueDate != nil && p.PaidAt.After(*l.RepaymentDueDate) {
			l.Status = domain.StatusOverdue
			metrics.LoanTransitions.WithLabelValues(string(domain.StatusOverdue)).Inc()
		}
		l.StateUpdatedAt = now

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		metrics.RepaymentsRecorded.Inc()
		metrics.RepaymentAmount.Add(in.Amount)
		d := toRepaymentDTO(p)
		dto = &d
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("loan %s", in.LoanID)
		}
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"loan_id": in.LoanID, "amount": in.Amount}).Info("repayment recorded")
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("loan %s", loanID)
		}
		return nil, err
	}
	return toDTO(l, time.Now().UTC()), nil
}

func (u *Usecase) ListByFarmer(ctx context.Context, farmerID string) ([]LoanDTO, error) {
	loans, err := u.loans.ListByFarmerID(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *toDTO(&loans[i], now))
	}
	return out, nil
}
