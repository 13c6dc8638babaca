package negotiation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"agriloan-backend/internal/domain/apperr"
	marketDomain "agriloan-backend/internal/domain/marketplace"
	domain "agriloan-backend/internal/domain/negotiation"
	"agriloan-backend/internal/domain/uow"
	userDomain "agriloan-backend/internal/domain/user"
	"agriloan-backend/internal/metrics"
	"agriloan-backend/pkg/id"
)

// Usecase runs the offer/counter-offer state machine between one buyer and
// one farmer over one listing. Status names the party expected to act next.
type Usecase struct {
	negotiations domain.Repository
	listings     marketDomain.Repository
	users        userDomain.Repository
	uow          uow.UnitOfWork
	log          *logrus.Logger
}

func NewUsecase(negotiations domain.Repository, listings marketDomain.Repository, users userDomain.Repository, tx uow.UnitOfWork, log *logrus.Logger) *Usecase {
	return &Usecase{negotiations: negotiations, listings: listings, users: users, uow: tx, log: log}
}

func naira(v float64) string { return fmt.Sprintf("₦%.0f", v) }

// actorName resolves a party id to its snapshotted display name.
func actorName(n *domain.Negotiation, actorID string) string {
	if n.IsBuyer(actorID) {
		return n.BuyerName
	}
	return n.FarmerName
}

func actorRole(n *domain.Negotiation, actorID string) string {
	if n.IsBuyer(actorID) {
		return string(userDomain.RoleBuyer)
	}
	return string(userDomain.RoleFarmer)
}

func systemMessage(n *domain.Negotiation, text string, at time.Time) *domain.Message {
	return &domain.Message{
		MessageID:     id.NewID32(),
		NegotiationID: n.ID,
		SenderID:      domain.SystemSenderID,
		SenderRole:    domain.SystemSenderRole,
		Text:          text,
		IsSystem:      true,
		SentAt:        at,
	}
}

func requireParty(n *domain.Negotiation, actorID string) error {
	if !n.IsParty(actorID) {
		return apperr.Validationf("user %s is not a party to negotiation %s", actorID, n.NegotiationID)
	}
	return nil
}

// Start opens a negotiation on a listing. Idempotent open: an existing
// non-terminal negotiation for the same buyer+listing is returned unchanged.
// A new negotiation seeds the offer from the listing's terms; the buyer
// initiates, so the farmer owes the first response (PENDING_FARMER). The
// listing moves AVAILABLE -> NEGOTIATING.
func (u *Usecase) Start(ctx context.Context, in StartInput) (*NegotiationDTO, error) {
	if in.ListingID == "" || in.BuyerID == "" {
		return nil, apperr.Validationf("listing_id and buyer_id are required")
	}

	var dto *NegotiationDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		existing, err := r.Negotiations.FindOpenByBuyerAndListing(ctx, in.BuyerID, in.ListingID)
		switch {
		case err == nil:
			dto = toDTO(existing)
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		listing, err := r.Listings.GetByListingIDForUpdate(ctx, in.ListingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("listing %s", in.ListingID)
			}
			return err
		}
		if listing.Status != marketDomain.ListingAvailable && listing.Status != marketDomain.ListingNegotiating {
			return apperr.InvalidStatef("listing %s is %s, not open for negotiation", listing.ListingID, listing.Status)
		}

		buyer, err := r.Users.GetByUserID(ctx, in.BuyerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("user %s", in.BuyerID)
			}
			return err
		}
		if buyer.Role != userDomain.RoleBuyer {
			return apperr.Validationf("user %s is not a buyer", in.BuyerID)
		}
		if buyer.UserID == listing.FarmerID {
			return apperr.Validationf("cannot negotiate on own listing")
		}

		now := time.Now().UTC()
		price := listing.PricePerKg
		qty := listing.QuantityKg
		n := &domain.Negotiation{
			NegotiationID:          id.NewID32(),
			ListingID:              listing.ListingID,
			BuyerID:                buyer.UserID,
			BuyerName:              buyer.FullName,
			FarmerID:               listing.FarmerID,
			FarmerName:             listing.FarmerName,
			CropType:               listing.CropType,
			Status:                 domain.StatusPendingFarmer,
			CurrentOfferPricePerKg: &price,
			CurrentOfferQuantityKg: &qty,
			LastUpdate:             now,
		}
		if err := r.Negotiations.Create(ctx, n); err != nil {
			return err
		}

		msg := systemMessage(n, fmt.Sprintf("%s opened negotiation on %s: %.0fkg at %s/kg.",
			buyer.FullName, listing.CropType, qty, naira(price)), now)
		if err := r.Negotiations.AddMessage(ctx, msg); err != nil {
			return err
		}
		n.Messages = append(n.Messages, *msg)

		if listing.Status == marketDomain.ListingAvailable {
			listing.Status = marketDomain.ListingNegotiating
			if err := r.Listings.Save(ctx, listing); err != nil {
				return err
			}
		}

		metrics.NegotiationEvents.WithLabelValues("start").Inc()
		dto = toDTO(n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// MakeOffer sets the live offer terms and flips the pending side to the
// other party. Permitted to either party while the negotiation is neither
// terminal nor AGREED.
func (u *Usecase) MakeOffer(ctx context.Context, in OfferInput) (*NegotiationDTO, error) {
	if in.PricePerKg <= 0 || in.QuantityKg <= 0 {
		return nil, apperr.Validationf("offer price and quantity must be positive")
	}

	var dto *NegotiationDTO
	err := u.uow.WithinNegotiationTx(ctx, in.NegotiationID, func(r uow.Repos, n *domain.Negotiation) error {
		if err := requireParty(n, in.ActorID); err != nil {
			return err
		}
		if n.Status.Terminal() || n.Status == domain.StatusAgreed {
			return apperr.InvalidStatef("negotiation %s is %s, no further offers allowed", n.NegotiationID, n.Status)
		}

		now := time.Now().UTC()
		price, qty := in.PricePerKg, in.QuantityKg
		n.CurrentOfferPricePerKg = &price
		n.CurrentOfferQuantityKg = &qty
		if n.IsBuyer(in.ActorID) {
			n.Status = domain.StatusPendingFarmer
		} else {
			n.Status = domain.StatusPendingBuyer
		}
		n.LastUpdate = now

		msg := systemMessage(n, fmt.Sprintf("%s made an offer: %s/kg for %.0fkg.",
			actorName(n, in.ActorID), naira(price), qty), now)
		if err := r.Negotiations.AddMessage(ctx, msg); err != nil {
			return err
		}
		n.Messages = append(n.Messages, *msg)

		if err := r.Negotiations.Save(ctx, n); err != nil {
			return err
		}
		metrics.NegotiationEvents.WithLabelValues("offer").Inc()
		dto = toDTO(n)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("negotiation %s", in.NegotiationID)
		}
		return nil, err
	}
	return dto, nil
}

// Accept takes the live offer: only the pending party may accept, and only
// while an offer exists. Transitions to AGREED.
func (u *Usecase) Accept(ctx context.Context, negotiationID, actorID string) (*NegotiationDTO, error) {
	var dto *NegotiationDTO
	err := u.uow.WithinNegotiationTx(ctx, negotiationID, func(r uow.Repos, n *domain.Negotiation) error {
		if err := requireParty(n, actorID); err != nil {
			return err
		}
		if n.Status.Terminal() || n.Status == domain.StatusAgreed {
			return apperr.InvalidStatef("negotiation %s is %s, nothing to accept", n.NegotiationID, n.Status)
		}
		if !n.HasOffer() {
			return apperr.InvalidStatef("negotiation %s has no active offer to accept", n.NegotiationID)
		}
		if n.PendingParty() != actorID {
			return apperr.InvalidStatef("it is not this party's turn to respond")
		}

		now := time.Now().UTC()
		n.Status = domain.StatusAgreed
		n.LastUpdate = now

		msg := systemMessage(n, fmt.Sprintf("%s accepted the offer of %s/kg for %.0fkg.",
			actorName(n, actorID), naira(*n.CurrentOfferPricePerKg), *n.CurrentOfferQuantityKg), now)
		if err := r.Negotiations.AddMessage(ctx, msg); err != nil {
			return err
		}
		n.Messages = append(n.Messages, *msg)

		if err := r.Negotiations.Save(ctx, n); err != nil {
			return err
		}
		metrics.NegotiationEvents.WithLabelValues("accept").Inc()
		dto = toDTO(n)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("negotiation %s", negotiationID)
		}
		return nil, err
	}
	return dto, nil
}

// Decline clears the live offer. The pending side flips back to the
// decliner: having turned the terms down, they owe the follow-up offer.
func (u *Usecase) Decline(ctx context.Context, negotiationID, actorID string) (*NegotiationDTO, error) {
	var dto *NegotiationDTO
	err := u.uow.WithinNegotiationTx(ctx, negotiationID, func(r uow.Repos, n *domain.Negotiation) error {
		if err := requireParty(n, actorID); err != nil {
			return err
		}
		if n.Status != domain.StatusPendingBuyer && n.Status != domain.StatusPendingFarmer {
			return apperr.InvalidStatef("negotiation %s is %s, nothing to decline", n.NegotiationID, n.Status)
		}
		if !n.HasOffer() {
			return apperr.InvalidStatef("negotiation %s has no active offer to decline", n.NegotiationID)
		}
		if n.PendingParty() != actorID {
			return apperr.InvalidStatef("it is not this party's turn to respond")
		}

		now := time.Now().UTC()
		n.CurrentOfferPricePerKg = nil
		n.CurrentOfferQuantityKg = nil
		if n.IsBuyer(actorID) {
			n.Status = domain.StatusPendingBuyer
		} else {
			n.Status = domain.StatusPendingFarmer
		}
		n.LastUpdate = now

		msg := systemMessage(n, fmt.Sprintf("%s declined the current offer.", actorName(n, actorID)), now)
		if err := r.Negotiations.AddMessage(ctx, msg); err != nil {
			return err
		}
		n.Messages = append(n.Messages, *msg)

		if err := r.Negotiations.Save(ctx, n); err != nil {
			return err
		}
		metrics.NegotiationEvents.WithLabelValues("decline").Inc()
		dto = toDTO(n)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("negotiation %s", negotiationID)
		}
		return nil, err
	}
	return dto, nil
}

// PlaceOrder finalizes an agreed negotiation: buyer only, AGREED only.
// Terminal; the listing is marked SOLD.
func (u *Usecase) PlaceOrder(ctx context.Context, negotiationID, actorID string) (*NegotiationDTO, error) {
	var dto *NegotiationDTO
	err := u.uow.WithinNegotiationTx(ctx, negotiationID, func(r uow.Repos, n *domain.Negotiation) error {
		if err := requireParty(n, actorID); err != nil {
			return err
		}
		if !n.IsBuyer(actorID) {
			return apperr.InvalidStatef("only the buyer can place the order")
		}
		if n.Status != domain.StatusAgreed {
			return apperr.InvalidStatef("negotiation %s is %s, order requires %s",
				n.NegotiationID, n.Status, domain.StatusAgreed)
		}

		now := time.Now().UTC()
		qty := *n.CurrentOfferQuantityKg
		price := *n.CurrentOfferPricePerKg
		n.Status = domain.StatusOrderPlaced
		n.LastUpdate = now

		msg := systemMessage(n, fmt.Sprintf("Order placed by %s for %.0fkg at %s/kg. Total: %s.",
			n.BuyerName, qty, naira(price), naira(qty*price)), now)
		if err := r.Negotiations.AddMessage(ctx, msg); err != nil {
			return err
		}
		n.Messages = append(n.Messages, *msg)

		if err := r.Negotiations.Save(ctx, n); err != nil {
			return err
		}

		listing, err := r.Listings.GetByListingIDForUpdate(ctx, n.ListingID)
		if err != nil {
			return err
		}
		if listing.Status == marketDomain.ListingNegotiating || listing.Status == marketDomain.ListingAvailable {
			listing.Status = marketDomain.ListingSold
			if err := r.Listings.Save(ctx, listing); err != nil {
				return err
			}
		}

		metrics.NegotiationEvents.WithLabelValues("order").Inc()
		dto = toDTO(n)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("negotiation %s", negotiationID)
		}
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"negotiation_id": negotiationID}).Info("order placed")
	return dto, nil
}

// Cancel ends a non-terminal negotiation on behalf of either party. A
// listing still held in NEGOTIATING by this exchange reverts to AVAILABLE.
func (u *Usecase) Cancel(ctx context.Context, negotiationID, actorID string) (*NegotiationDTO, error) {
	var dto *NegotiationDTO
	err := u.uow.WithinNegotiationTx(ctx, negotiationID, func(r uow.Repos, n *domain.Negotiation) error {
		if err := requireParty(n, actorID); err != nil {
			return err
		}
		if n.Status.Terminal() {
			return apperr.InvalidStatef("negotiation %s is already %s", n.NegotiationID, n.Status)
		}

		now := time.Now().UTC()
		if n.IsBuyer(actorID) {
			n.Status = domain.StatusCancelledByBuyer
		} else {
			n.Status = domain.StatusCancelledByFarmer
		}
		n.LastUpdate = now

		msg := systemMessage(n, fmt.Sprintf("%s cancelled the negotiation.", actorName(n, actorID)), now)
		if err := r.Negotiations.AddMessage(ctx, msg); err != nil {
			return err
		}
		n.Messages = append(n.Messages, *msg)

		if err := r.Negotiations.Save(ctx, n); err != nil {
			return err
		}

		listing, err := r.Listings.GetByListingIDForUpdate(ctx, n.ListingID)
		if err != nil {
			return err
		}
		if listing.Status == marketDomain.ListingNegotiating {
			listing.Status = marketDomain.ListingAvailable
			if err := r.Listings.Save(ctx, listing); err != nil {
				return err
			}
		}

		metrics.NegotiationEvents.WithLabelValues("cancel").Inc()
		dto = toDTO(n)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("negotiation %s", negotiationID)
		}
		return nil, err
	}
	return dto, nil
}

// PostMessage appends a user message to the transcript without touching
// status. Rejected once terminal; after AGREED only the buyer may message
// while the order is pending.
func (u *Usecase) PostMessage(ctx context.Context, negotiationID, senderID, text string) (*NegotiationDTO, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validationf("message text is required")
	}

	var dto *NegotiationDTO
	err := u.uow.WithinNegotiationTx(ctx, negotiationID, func(r uow.Repos, n *domain.Negotiation) error {
		if err := requireParty(n, senderID); err != nil {
			return err
		}
		if n.Status.Terminal() {
			return apperr.InvalidStatef("negotiation %s is %s, messaging closed", n.NegotiationID, n.Status)
		}
		if n.Status == domain.StatusAgreed && n.IsFarmer(senderID) {
			return apperr.InvalidStatef("only the buyer may message once agreed, pending order placement")
		}

		now := time.Now().UTC()
		msg := &domain.Message{
			MessageID:     id.NewID32(),
			NegotiationID: n.ID,
			SenderID:      senderID,
			SenderRole:    actorRole(n, senderID),
			Text:          text,
			SentAt:        now,
		}
		if err := r.Negotiations.AddMessage(ctx, msg); err != nil {
			return err
		}
		n.Messages = append(n.Messages, *msg)

		n.LastUpdate = now
		if err := r.Negotiations.Save(ctx, n); err != nil {
			return err
		}
		metrics.NegotiationEvents.WithLabelValues("message").Inc()
		dto = toDTO(n)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("negotiation %s", negotiationID)
		}
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, negotiationID string) (*NegotiationDTO, error) {
	n, err := u.negotiations.GetByNegotiationID(ctx, negotiationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("negotiation %s", negotiationID)
		}
		return nil, err
	}
	return toDTO(n), nil
}

func (u *Usecase) ListByBuyer(ctx context.Context, buyerID string) ([]NegotiationDTO, error) {
	ns, err := u.negotiations.ListByBuyerID(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	out := make([]NegotiationDTO, 0, len(ns))
	for i := range ns {
		out = append(out, *toDTO(&ns[i]))
	}
	return out, nil
}

func (u *Usecase) ListByFarmer(ctx context.Context, farmerID string) ([]NegotiationDTO, error) {
	ns, err := u.negotiations.ListByFarmerID(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	out := make([]NegotiationDTO, 0, len(ns))
	for i := range ns {
		out = append(out, *toDTO(&ns[i]))
	}
	return out, nil
}
