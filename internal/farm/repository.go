package farm

import "context"

// Repository defines farm and crop persistence.
type Repository interface {
	// Create inserts a new farm.
	Create(ctx context.Context, f *Farm) error

	// ListByUser returns the farms owned by userUID ordered by name.
	ListByUser(ctx context.Context, userUID string) ([]Summary, error)

	// ListCrops returns the crops of farmID ordered by name.
	ListCrops(ctx context.Context, farmID string) ([]Crop, error)
}

