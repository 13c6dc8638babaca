package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	negDomain "agriloan-backend/internal/domain/negotiation"
)

type NegotiationRepository struct{ db *gorm.DB }

func NewNegotiationRepository(db *gorm.DB) *NegotiationRepository {
	return &NegotiationRepository{db: db}
}

// Messages preload always orders by numeric PK: the transcript order is
// insertion order.
func withMessages(db *gorm.DB) *gorm.DB {
	return db.Order("negotiation_messages.id ASC")
}

func (r *NegotiationRepository) Create(ctx context.Context, n *negDomain.Negotiation) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NegotiationRepository) Save(ctx context.Context, n *negDomain.Negotiation) error {
	return r.db.WithContext(ctx).Omit("Messages").Save(n).Error
}

func (r *NegotiationRepository) GetByNegotiationID(ctx context.Context, negotiationID string) (*negDomain.Negotiation, error) {
	var out negDomain.Negotiation
	res := r.db.WithContext(ctx).
		Preload("Messages", withMessages).
		Where("negotiation_id = ?", negotiationID).
		First(&out)
	return &out, res.Error
}

func (r *NegotiationRepository) GetByNegotiationIDForUpdate(ctx context.Context, negotiationID string) (*negDomain.Negotiation, error) {
	var out negDomain.Negotiation
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Messages", withMessages).
		Where("negotiation_id = ?", negotiationID).
		First(&out)
	return &out, res.Error
}

func (r *NegotiationRepository) FindOpenByBuyerAndListing(ctx context.Context, buyerID, listingID string) (*negDomain.Negotiation, error) {
	var out negDomain.Negotiation
	res := r.db.WithContext(ctx).
		Preload("Messages", withMessages).
		Where("buyer_id = ? AND listing_id = ? AND status NOT IN ?", buyerID, listingID, []negDomain.Status{
			negDomain.StatusOrderPlaced,
			negDomain.StatusCancelledByFarmer,
			negDomain.StatusCancelledByBuyer,
		}).
		Order("id DESC").
		First(&out)
	return &out, res.Error
}

func (r *NegotiationRepository) ListByBuyerID(ctx context.Context, buyerID string) ([]negDomain.Negotiation, error) {
	var out []negDomain.Negotiation
	res := r.db.WithContext(ctx).
		Preload("Messages", withMessages).
		Where("buyer_id = ?", buyerID).
		Order("last_update DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *NegotiationRepository) ListByFarmerID(ctx context.Context, farmerID string) ([]negDomain.Negotiation, error) {
	var out []negDomain.Negotiation
	res := r.db.WithContext(ctx).
		Preload("Messages", withMessages).
		Where("farmer_id = ?", farmerID).
		Order("last_update DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *NegotiationRepository) AddMessage(ctx context.Context, m *negDomain.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}
