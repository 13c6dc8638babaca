package mysql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	negDomain "agriloan-backend/internal/domain/negotiation"
	"agriloan-backend/pkg/id"
)

func makeNegotiation(buyerID, listingID string) *negDomain.Negotiation {
	price, qty := 300.0, 200.0
	return &negDomain.Negotiation{
		NegotiationID:          id.NewID32(),
		ListingID:              listingID,
		BuyerID:                buyerID,
		BuyerName:              "Tunde Traders",
		FarmerID:               id.NewID32(),
		FarmerName:             "Amina Yusuf",
		CropType:               "Tomatoes",
		Status:                 negDomain.StatusPendingFarmer,
		CurrentOfferPricePerKg: &price,
		CurrentOfferQuantityKg: &qty,
		LastUpdate:             time.Now().UTC(),
	}
}

func TestNegotiationMessageTranscriptOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewNegotiationRepository(db)
	ctx := context.Background()

	n := makeNegotiation(id.NewID32(), id.NewID32())
	if err := repo.Create(ctx, n); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// same SentAt on purpose: ordering must come from insertion, not time
	at := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 4; i++ {
		m := &negDomain.Message{
			MessageID:     id.NewID32(),
			NegotiationID: n.ID,
			SenderID:      n.BuyerID,
			SenderRole:    "BUYER",
			Text:          fmt.Sprintf("message %d", i),
			SentAt:        at,
		}
		if err := repo.AddMessage(ctx, m); err != nil {
			t.Fatalf("AddMessage %d: %v", i, err)
		}
	}

	got, err := repo.GetByNegotiationID(ctx, n.NegotiationID)
	if err != nil {
		t.Fatalf("GetByNegotiationID: %v", err)
	}
	if len(got.Messages) != 4 {
		t.Fatalf("messages = %d, want 4", len(got.Messages))
	}
	for i, m := range got.Messages {
		if want := fmt.Sprintf("message %d", i); m.Text != want {
			t.Fatalf("message %d = %q, want %q", i, m.Text, want)
		}
	}
}

func TestFindOpenByBuyerAndListing(t *testing.T) {
	db := openTestDB(t)
	repo := NewNegotiationRepository(db)
	ctx := context.Background()

	buyerID := id.NewID32()
	listingID := id.NewID32()

	// a terminal negotiation must not count as open
	done := makeNegotiation(buyerID, listingID)
	done.Status = negDomain.StatusCancelledByBuyer
	if err := repo.Create(ctx, done); err != nil {
		t.Fatalf("Create terminal: %v", err)
	}

	if _, err := repo.FindOpenByBuyerAndListing(ctx, buyerID, listingID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found with only terminal negotiation, got %v", err)
	}

	open := makeNegotiation(buyerID, listingID)
	if err := repo.Create(ctx, open); err != nil {
		t.Fatalf("Create open: %v", err)
	}

	got, err := repo.FindOpenByBuyerAndListing(ctx, buyerID, listingID)
	if err != nil {
		t.Fatalf("FindOpenByBuyerAndListing: %v", err)
	}
	if got.NegotiationID != open.NegotiationID {
		t.Fatalf("got %s, want %s", got.NegotiationID, open.NegotiationID)
	}

	// other buyer on the same listing sees nothing
	if _, err := repo.FindOpenByBuyerAndListing(ctx, id.NewID32(), listingID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found for other buyer, got %v", err)
	}
}

func TestNegotiationSaveDoesNotTouchMessages(t *testing.T) {
	db := openTestDB(t)
	repo := NewNegotiationRepository(db)
	ctx := context.Background()

	n := makeNegotiation(id.NewID32(), id.NewID32())
	if err := repo.Create(ctx, n); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.AddMessage(ctx, &negDomain.Message{
		MessageID: id.NewID32(), NegotiationID: n.ID,
		SenderID: negDomain.SystemSenderID, SenderRole: negDomain.SystemSenderRole,
		Text: "negotiation opened", IsSystem: true, SentAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}

	loaded, err := repo.GetByNegotiationID(ctx, n.NegotiationID)
	if err != nil {
		t.Fatalf("GetByNegotiationID: %v", err)
	}
	loaded.Status = negDomain.StatusAgreed
	loaded.Messages = nil // Save must not delete the transcript
	if err := repo.Save(ctx, loaded); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again, err := repo.GetByNegotiationID(ctx, n.NegotiationID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Status != negDomain.StatusAgreed {
		t.Fatalf("status = %s, want AGREED", again.Status)
	}
	if len(again.Messages) != 1 {
		t.Fatalf("messages = %d, want 1 (transcript must survive Save)", len(again.Messages))
	}
}
