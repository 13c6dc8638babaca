package negotiation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"agriloan-backend/internal/domain/apperr"
	marketDomain "agriloan-backend/internal/domain/marketplace"
	domain "agriloan-backend/internal/domain/negotiation"
	"agriloan-backend/internal/domain/uow"
	userDomain "agriloan-backend/internal/domain/user"
	"agriloan-backend/internal/testutil/listingmock"
	"agriloan-backend/internal/testutil/negotiationmock"
	"agriloan-backend/internal/testutil/uowmock"
	"agriloan-backend/internal/testutil/usermock"
)

const (
	farmerID  = "ffffffffffffffffffffffffffffffff"
	buyerID   = "cccccccccccccccccccccccccccccccc"
	listingID = "1111111111111111111111111111dead"
)

type harness struct {
	uc           *Usecase
	negotiations map[string]*domain.Negotiation
	listings     map[string]*marketDomain.Listing
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	negStore := make(map[string]*domain.Negotiation)
	listStore := map[string]*marketDomain.Listing{
		listingID: {
			ID: 1, ListingID: listingID,
			FarmerID: farmerID, FarmerName: "Amina Yusuf",
			CropType: "Tomatoes", QuantityKg: 200, QualityGrade: marketDomain.GradeA,
			PricePerKg: 300, Status: marketDomain.ListingAvailable,
		},
	}

	negotiations := &negotiationmock.Repo{
		CreateFn: func(_ context.Context, n *domain.Negotiation) error {
			n.ID = uint64(len(negStore) + 1)
			negStore[n.NegotiationID] = n
			return nil
		},
		GetByNegotiationIDFn: func(_ context.Context, id string) (*domain.Negotiation, error) {
			if n, ok := negStore[id]; ok {
				return n, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		GetByNegotiationIDForUpdateFn: func(_ context.Context, id string) (*domain.Negotiation, error) {
			if n, ok := negStore[id]; ok {
				return n, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		FindOpenByBuyerAndListingFn: func(_ context.Context, bID, lID string) (*domain.Negotiation, error) {
			for _, n := range negStore {
				if n.BuyerID == bID && n.ListingID == lID && !n.Status.Terminal() {
					return n, nil
				}
			}
			return nil, gorm.ErrRecordNotFound
		},
	}

	listings := &listingmock.Repo{
		GetByListingIDFn: func(_ context.Context, id string) (*marketDomain.Listing, error) {
			if l, ok := listStore[id]; ok {
				return l, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		GetByListingIDForUpdateFn: func(_ context.Context, id string) (*marketDomain.Listing, error) {
			if l, ok := listStore[id]; ok {
				return l, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}

	users := usermock.Fixed(
		&userDomain.User{UserID: farmerID, FullName: "Amina Yusuf", Role: userDomain.RoleFarmer},
		&userDomain.User{UserID: buyerID, FullName: "Tunde Traders", Role: userDomain.RoleBuyer},
	)

	unit := uowmock.Passthrough(uow.Repos{
		Negotiations: negotiations, Listings: listings, Users: users,
	})

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return &harness{
		uc:           NewUsecase(negotiations, listings, users, unit, log),
		negotiations: negStore,
		listings:     listStore,
	}
}

func start(t *testing.T, h *harness) *NegotiationDTO {
	t.Helper()
	dto, err := h.uc.Start(context.Background(), StartInput{ListingID: listingID, BuyerID: buyerID})
	if err != nil {
		t.Fatalf("Start err: %v", err)
	}
	return dto
}

func TestStart_SeedsOfferAndLocksListing(t *testing.T) {
	h := newHarness(t)
	dto := start(t, h)

	if dto.Status != string(domain.StatusPendingFarmer) {
		t.Fatalf("status = %s, want PENDING_FARMER", dto.Status)
	}
	if dto.CurrentOfferPricePerKg == nil || *dto.CurrentOfferPricePerKg != 300 {
		t.Fatalf("seeded price = %v", dto.CurrentOfferPricePerKg)
	}
	if dto.CurrentOfferQuantityKg == nil || *dto.CurrentOfferQuantityKg != 200 {
		t.Fatalf("seeded quantity = %v", dto.CurrentOfferQuantityKg)
	}
	if h.listings[listingID].Status != marketDomain.ListingNegotiating {
		t.Fatalf("listing status = %s, want NEGOTIATING", h.listings[listingID].Status)
	}
	if len(dto.Messages) != 1 || !dto.Messages[0].IsSystem {
		t.Fatalf("expected one system message, got %+v", dto.Messages)
	}
	if dto.Messages[0].SenderID != domain.SystemSenderID || dto.Messages[0].SenderRole != domain.SystemSenderRole {
		t.Fatalf("system sender = %s/%s", dto.Messages[0].SenderID, dto.Messages[0].SenderRole)
	}
}

func TestStart_IdempotentOpen(t *testing.T) {
	h := newHarness(t)
	first := start(t, h)
	second := start(t, h)
	if first.NegotiationID != second.NegotiationID {
		t.Fatalf("second start created a new negotiation")
	}
	if len(h.negotiations) != 1 {
		t.Fatalf("negotiations stored = %d, want 1", len(h.negotiations))
	}
}

func TestStart_FarmerCannotBuyOwnListing(t *testing.T) {
	h := newHarness(t)
	_, err := h.uc.Start(context.Background(), StartInput{ListingID: listingID, BuyerID: farmerID})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestNegotiation_EndToEnd(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	dto := start(t, h)
	negID := dto.NegotiationID

	// farmer counters: 150kg at 280
	dto, err := h.uc.MakeOffer(ctx, OfferInput{NegotiationID: negID, ActorID: farmerID, PricePerKg: 280, QuantityKg: 150})
	if err != nil {
		t.Fatalf("MakeOffer err: %v", err)
	}
	if dto.Status != string(domain.StatusPendingBuyer) {
		t.Fatalf("status after farmer counter = %s, want PENDING_BUYER", dto.Status)
	}

	// buyer accepts
	dto, err = h.uc.Accept(ctx, negID, buyerID)
	if err != nil {
		t.Fatalf("Accept err: %v", err)
	}
	if dto.Status != string(domain.StatusAgreed) {
		t.Fatalf("status after accept = %s, want AGREED", dto.Status)
	}

	// buyer places the order: 150 * 280 = 42000
	dto, err = h.uc.PlaceOrder(ctx, negID, buyerID)
	if err != nil {
		t.Fatalf("PlaceOrder err: %v", err)
	}
	if dto.Status != string(domain.StatusOrderPlaced) {
		t.Fatalf("status after order = %s, want ORDER_PLACED", dto.Status)
	}
	if h.listings[listingID].Status != marketDomain.ListingSold {
		t.Fatalf("listing status = %s, want SOLD", h.listings[listingID].Status)
	}

	last := dto.Messages[len(dto.Messages)-1]
	if !last.IsSystem || !strings.Contains(last.Text, "42000") {
		t.Fatalf("order message missing total: %q", last.Text)
	}
}

func TestAccept_Guards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	dto := start(t, h)
	negID := dto.NegotiationID

	// wrong turn: the farmer is pending, not the buyer
	if _, err := h.uc.Accept(ctx, negID, buyerID); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("out-of-turn accept err = %v, want ErrInvalidState", err)
	}

	// farmer declines, clearing the offer; accepting with no live offer fails
	if _, err := h.uc.Decline(ctx, negID, farmerID); err != nil {
		t.Fatalf("Decline err: %v", err)
	}
	if _, err := h.uc.Accept(ctx, negID, farmerID); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("accept-without-offer err = %v, want ErrInvalidState", err)
	}

	// outsider is not a party
	if _, err := h.uc.Accept(ctx, negID, "9999999999999999999999999999beef"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("outsider accept err = %v, want ErrValidation", err)
	}
}

func TestDecline_FlipsPendingToDecliner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	dto := start(t, h)
	negID := dto.NegotiationID

	dto, err := h.uc.Decline(ctx, negID, farmerID)
	if err != nil {
		t.Fatalf("Decline err: %v", err)
	}
	if dto.Status != string(domain.StatusPendingFarmer) {
		t.Fatalf("status after farmer decline = %s, want PENDING_FARMER (decliner owes next offer)", dto.Status)
	}
	if dto.CurrentOfferPricePerKg != nil || dto.CurrentOfferQuantityKg != nil {
		t.Fatalf("offer terms not cleared")
	}
}

func TestPlaceOrder_Guards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	dto := start(t, h)
	negID := dto.NegotiationID

	// not AGREED yet
	if _, err := h.uc.PlaceOrder(ctx, negID, buyerID); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("pre-agreement order err = %v, want ErrInvalidState", err)
	}

	if _, err := h.uc.Accept(ctx, negID, farmerID); err != nil {
		t.Fatalf("Accept err: %v", err)
	}

	// farmer cannot place the order
	if _, err := h.uc.PlaceOrder(ctx, negID, farmerID); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("farmer order err = %v, want ErrInvalidState", err)
	}
}

func TestCancel_RevertsListing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	dto := start(t, h)

	got, err := h.uc.Cancel(ctx, dto.NegotiationID, buyerID)
	if err != nil {
		t.Fatalf("Cancel err: %v", err)
	}
	if got.Status != string(domain.StatusCancelledByBuyer) {
		t.Fatalf("status = %s, want CANCELLED_BY_BUYER", got.Status)
	}
	if h.listings[listingID].Status != marketDomain.ListingAvailable {
		t.Fatalf("listing status = %s, want AVAILABLE", h.listings[listingID].Status)
	}

	// terminal: no further actions
	if _, err := h.uc.Cancel(ctx, dto.NegotiationID, farmerID); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("double cancel err = %v, want ErrInvalidState", err)
	}
}

func TestPostMessage_Rules(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	dto := start(t, h)
	negID := dto.NegotiationID

	got, err := h.uc.PostMessage(ctx, negID, farmerID, "can you pick up on Friday?")
	if err != nil {
		t.Fatalf("PostMessage err: %v", err)
	}
	last := got.Messages[len(got.Messages)-1]
	if last.IsSystem || last.SenderID != farmerID || last.SenderRole != string(userDomain.RoleFarmer) {
		t.Fatalf("unexpected message attribution: %+v", last)
	}

	if _, err := h.uc.Accept(ctx, negID, farmerID); err != nil {
		t.Fatalf("Accept err: %v", err)
	}

	// post-agreement window: buyer may message, farmer may not
	if _, err := h.uc.PostMessage(ctx, negID, buyerID, "placing the order shortly"); err != nil {
		t.Fatalf("buyer message after agreement err: %v", err)
	}
	if _, err := h.uc.PostMessage(ctx, negID, farmerID, "ok"); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("farmer message after agreement err = %v, want ErrInvalidState", err)
	}

	if _, err := h.uc.PlaceOrder(ctx, negID, buyerID); err != nil {
		t.Fatalf("PlaceOrder err: %v", err)
	}
	if _, err := h.uc.PostMessage(ctx, negID, buyerID, "thanks"); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("message after terminal err = %v, want ErrInvalidState", err)
	}
}
