package marketplace

import "context"

type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByListingID(ctx context.Context, listingID string) (*Listing, error)
	GetByListingIDForUpdate(ctx context.Context, listingID string) (*Listing, error)
	ListAvailable(ctx context.Context) ([]Listing, error)
	ListByFarmerID(ctx context.Context, farmerID string) ([]Listing, error)
	Save(ctx context.Context, l *Listing) error
}
