package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	marketDomain "agriloan-backend/internal/domain/marketplace"
)

type ListingRepository struct{ db *gorm.DB }

func NewListingRepository(db *gorm.DB) *ListingRepository { return &ListingRepository{db: db} }

func (r *ListingRepository) Create(ctx context.Context, l *marketDomain.Listing) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *ListingRepository) Save(ctx context.Context, l *marketDomain.Listing) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *ListingRepository) GetByListingID(ctx context.Context, listingID string) (*marketDomain.Listing, error) {
	var out marketDomain.Listing
	res := r.db.WithContext(ctx).Where("listing_id = ?", listingID).First(&out)
	return &out, res.Error
}

func (r *ListingRepository) GetByListingIDForUpdate(ctx context.Context, listingID string) (*marketDomain.Listing, error) {
	var out marketDomain.Listing
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("listing_id = ?", listingID).
		First(&out)
	return &out, res.Error
}

func (r *ListingRepository) ListAvailable(ctx context.Context) ([]marketDomain.Listing, error) {
	var out []marketDomain.Listing
	res := r.db.WithContext(ctx).
		Where("status = ?", marketDomain.ListingAvailable).
		Order("listing_date DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *ListingRepository) ListByFarmerID(ctx context.Context, farmerID string) ([]marketDomain.Listing, error) {
	var out []marketDomain.Listing
	res := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("listing_date DESC, id DESC").
		Find(&out)
	return out, res.Error
}
