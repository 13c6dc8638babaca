package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	fieldlogDomain "agriloan-backend/internal/domain/fieldlog"
	loanDomain "agriloan-backend/internal/domain/loan"
	marketDomain "agriloan-backend/internal/domain/marketplace"
	negDomain "agriloan-backend/internal/domain/negotiation"
	userDomain "agriloan-backend/internal/domain/user"
	"agriloan-backend/pkg/id"
)

// openTestDB creates an in-memory sqlite DB with the full schema. The domain
// models avoid MySQL-only column types, so they migrate cleanly on sqlite.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&userDomain.User{},
		&loanDomain.Loan{},
		&loanDomain.Repayment{},
		&marketDomain.Listing{},
		&negDomain.Negotiation{},
		&negDomain.Message{},
		&fieldlogDomain.FieldLog{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeLoan(loanID, farmerID string) *loanDomain.Loan {
	return &loanDomain.Loan{
		LoanID:          loanID,
		FarmerID:        farmerID,
		FarmerName:      "Amina Yusuf",
		FarmSizeAcres:   2.5,
		CropType:        "Maize",
		InputNeeds:      "seed and fertilizer",
		RequestedAmount: 150000,
		ApplicationDate: time.Now().UTC(),
		Status:          loanDomain.StatusPendingAdminReview,
		StateUpdatedAt:  time.Now().UTC(),
	}
}

func TestLoanCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	farmerID := id.NewID32()

	l := makeLoan(loanID, farmerID)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.FarmerID != farmerID || got.Status != loanDomain.StatusPendingAdminReview {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}

	if _, err := repo.GetByLoanID(ctx, id.NewID32()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestLoanRepaymentsAppendInOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan(id.NewID32(), id.NewID32())
	amount := 100000.0
	l.ApprovedAmount = &amount
	l.Status = loanDomain.StatusActive
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i, amt := range []float64{30000, 20000, 50000} {
		p := &loanDomain.Repayment{
			RepaymentID:   id.NewID32(),
			LoanID:        l.ID,
			TransactionID: id.NewID32(),
			Amount:        amt,
			PaidAt:        time.Now().UTC().Add(time.Duration(i) * time.Minute),
			RecordedBy:    id.NewID32(),
		}
		if err := repo.AddRepayment(ctx, p); err != nil {
			t.Fatalf("AddRepayment %d: %v", i, err)
		}
	}

	got, err := repo.GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if len(got.Repayments) != 3 {
		t.Fatalf("repayments = %d, want 3", len(got.Repayments))
	}
	want := []float64{30000, 20000, 50000}
	for i, p := range got.Repayments {
		if p.Amount != want[i] {
			t.Fatalf("repayment %d amount = %v, want %v (insertion order lost)", i, p.Amount, want[i])
		}
	}
	if got.TotalRepaid() != 100000 || got.RemainingBalance() != 0 {
		t.Fatalf("ledger totals: repaid=%v remaining=%v", got.TotalRepaid(), got.RemainingBalance())
	}
}

func TestLoanListByStatuses(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	statuses := []loanDomain.Status{
		loanDomain.StatusPendingAdminReview,
		loanDomain.StatusApproved,
		loanDomain.StatusActive,
		loanDomain.StatusRepaid,
	}
	for _, s := range statuses {
		l := makeLoan(id.NewID32(), id.NewID32())
		l.Status = s
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("Create %s: %v", s, err)
		}
	}

	got, err := repo.ListByStatuses(ctx, loanDomain.StatusApproved, loanDomain.StatusActive)
	if err != nil {
		t.Fatalf("ListByStatuses: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, l := range got {
		if l.Status != loanDomain.StatusApproved && l.Status != loanDomain.StatusActive {
			t.Fatalf("unexpected status %s", l.Status)
		}
	}
}

func TestLoanListByFarmerID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	farmerID := id.NewID32()
	for i := 0; i < 2; i++ {
		if err := repo.Create(ctx, makeLoan(id.NewID32(), farmerID)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.Create(ctx, makeLoan(id.NewID32(), id.NewID32())); err != nil {
		t.Fatalf("Create other: %v", err)
	}

	got, err := repo.ListByFarmerID(ctx, farmerID)
	if err != nil {
		t.Fatalf("ListByFarmerID: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}
