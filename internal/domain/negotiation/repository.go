package negotiation

import "context"

type Repository interface {
	Create(ctx context.Context, n *Negotiation) error
	GetByNegotiationID(ctx context.Context, negotiationID string) (*Negotiation, error)
	// GetByNegotiationIDForUpdate locks the negotiation row for the
	// enclosing transaction.
	GetByNegotiationIDForUpdate(ctx context.Context, negotiationID string) (*Negotiation, error)
	// FindOpenByBuyerAndListing returns the non-terminal negotiation for a
	// buyer+listing pair, if one exists.
	FindOpenByBuyerAndListing(ctx context.Context, buyerID, listingID string) (*Negotiation, error)
	ListByBuyerID(ctx context.Context, buyerID string) ([]Negotiation, error)
	ListByFarmerID(ctx context.Context, farmerID string) ([]Negotiation, error)
	Save(ctx context.Context, n *Negotiation) error
	AddMessage(ctx context.Context, m *Message) error
}
