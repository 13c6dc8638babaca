package negotiationmock

import (
	"context"

	"gorm.io/gorm"

	domain "agriloan-backend/internal/domain/negotiation"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                      func(ctx context.Context, n *domain.Negotiation) error
	GetByNegotiationIDFn          func(ctx context.Context, negotiationID string) (*domain.Negotiation, error)
	GetByNegotiationIDForUpdateFn func(ctx context.Context, negotiationID string) (*domain.Negotiation, error)
	FindOpenByBuyerAndListingFn   func(ctx context.Context, buyerID, listingID string) (*domain.Negotiation, error)
	ListByBuyerIDFn               func(ctx context.Context, buyerID string) ([]domain.Negotiation, error)
	ListByFarmerIDFn              func(ctx context.Context, farmerID string) ([]domain.Negotiation, error)
	SaveFn                        func(ctx context.Context, n *domain.Negotiation) error
	AddMessageFn                  func(ctx context.Context, m *domain.Message) error
}

func (m *Repo) Create(ctx context.Context, n *domain.Negotiation) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}
	return nil
}

func (m *Repo) GetByNegotiationID(ctx context.Context, negotiationID string) (*domain.Negotiation, error) {
	if m.GetByNegotiationIDFn != nil {
		return m.GetByNegotiationIDFn(ctx, negotiationID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByNegotiationIDForUpdate(ctx context.Context, negotiationID string) (*domain.Negotiation, error) {
	if m.GetByNegotiationIDForUpdateFn != nil {
		return m.GetByNegotiationIDForUpdateFn(ctx, negotiationID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) FindOpenByBuyerAndListing(ctx context.Context, buyerID, listingID string) (*domain.Negotiation, error) {
	if m.FindOpenByBuyerAndListingFn != nil {
		return m.FindOpenByBuyerAndListingFn(ctx, buyerID, listingID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListByBuyerID(ctx context.Context, buyerID string) ([]domain.Negotiation, error) {
	if m.ListByBuyerIDFn != nil {
		return m.ListByBuyerIDFn(ctx, buyerID)
	}
	return nil, nil
}

func (m *Repo) ListByFarmerID(ctx context.Context, farmerID string) ([]domain.Negotiation, error) {
	if m.ListByFarmerIDFn != nil {
		return m.ListByFarmerIDFn(ctx, farmerID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, n *domain.Negotiation) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, n)
	}
	return nil
}

func (m *Repo) AddMessage(ctx context.Context, msg *domain.Message) error {
	if m.AddMessageFn != nil {
		return m.AddMessageFn(ctx, msg)
	}
	return nil
}
