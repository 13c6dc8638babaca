package fieldlog

import "context"

type Repository interface {
	Create(ctx context.Context, f *FieldLog) error
	GetByLogID(ctx context.Context, logID string) (*FieldLog, error)
	// ListByFarmerID returns logs newest first.
	ListByFarmerID(ctx context.Context, farmerID string) ([]FieldLog, error)
}
