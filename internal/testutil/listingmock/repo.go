package listingmock

import (
	"context"

	"gorm.io/gorm"

	domain "agriloan-backend/internal/domain/marketplace"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, l *domain.Listing) error
	GetByListingIDFn          func(ctx context.Context, listingID string) (*domain.Listing, error)
	GetByListingIDForUpdateFn func(ctx context.Context, listingID string) (*domain.Listing, error)
	ListAvailableFn           func(ctx context.Context) ([]domain.Listing, error)
	ListByFarmerIDFn          func(ctx context.Context, farmerID string) ([]domain.Listing, error)
	SaveFn                    func(ctx context.Context, l *domain.Listing) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Listing) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByListingID(ctx context.Context, listingID string) (*domain.Listing, error) {
	if m.GetByListingIDFn != nil {
		return m.GetByListingIDFn(ctx, listingID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByListingIDForUpdate(ctx context.Context, listingID string) (*domain.Listing, error) {
	if m.GetByListingIDForUpdateFn != nil {
		return m.GetByListingIDForUpdateFn(ctx, listingID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListAvailable(ctx context.Context) ([]domain.Listing, error) {
	if m.ListAvailableFn != nil {
		return m.ListAvailableFn(ctx)
	}
	return nil, nil
}

func (m *Repo) ListByFarmerID(ctx context.Context, farmerID string) ([]domain.Listing, error) {
	if m.ListByFarmerIDFn != nil {
		return m.ListByFarmerIDFn(ctx, farmerID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Listing) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
