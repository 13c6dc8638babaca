package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	loanDomain "agriloan-backend/internal/domain/loan"
	marketDomain "agriloan-backend/internal/domain/marketplace"
	"agriloan-backend/internal/domain/uow"
	"agriloan-backend/pkg/id"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	listingRepo := NewListingRepository(db)

	loanID := id.NewID32()
	listingID := id.NewID32()

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, makeLoan(loanID, id.NewID32())); err != nil {
			return err
		}
		return r.Listings.Create(ctx, &marketDomain.Listing{
			ListingID: listingID, FarmerID: id.NewID32(), FarmerName: "Amina Yusuf",
			CropType: "Maize", QuantityKg: 100, QualityGrade: marketDomain.GradeB,
			PricePerKg: 120, ListingDate: time.Now().UTC(), Status: marketDomain.ListingAvailable,
		})
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := loanRepo.GetByLoanID(ctx, loanID); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
	if _, err := listingRepo.GetByListingID(ctx, listingID); err != nil {
		t.Fatalf("listing not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	loanID := id.NewID32()
	sentinel := errors.New("boom")

	_ = guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, makeLoan(loanID, id.NewID32())); err != nil {
			return err
		}
		return sentinel // force rollback
	})

	if _, err := loanRepo.GetByLoanID(ctx, loanID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected loan not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinLoanTx(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	l := makeLoan(id.NewID32(), id.NewID32())
	if err := loanRepo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := guow.WithinLoanTx(ctx, l.LoanID, func(r uow.Repos, locked *loanDomain.Loan) error {
		if locked.LoanID != l.LoanID {
			t.Fatalf("locked wrong loan: %s", locked.LoanID)
		}
		locked.Status = loanDomain.StatusPendingBankApproval
		return r.Loans.Save(ctx, locked)
	})
	if err != nil {
		t.Fatalf("WithinLoanTx err: %v", err)
	}

	got, err := loanRepo.GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != loanDomain.StatusPendingBankApproval {
		t.Fatalf("status = %s, want PENDING_BANK_APPROVAL", got.Status)
	}

	// missing loan surfaces the repo error before fn runs
	err = guow.WithinLoanTx(ctx, id.NewID32(), func(r uow.Repos, _ *loanDomain.Loan) error {
		t.Fatalf("fn must not run for a missing loan")
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want record not found", err)
	}
}
