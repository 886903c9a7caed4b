package shop

import (
	"context"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/domain"
)

// Repository defines the data access contract for shop records.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single record. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, shopDomain string) (*domain.ShopRecord, error)

	// List returns every record. The dashboard dataset is one row per shop
	// an operator has ever uploaded, so it fits in memory by construction.
	List(ctx context.Context) ([]domain.ShopRecord, error)

	// Upsert writes a record under its domain key in a single atomic
	// statement. Returns true when the record did not exist before.
	Upsert(ctx context.Context, rec *domain.ShopRecord) (created bool, err error)

	// Count returns the number of known shops.
	Count(ctx context.Context) (int, error)
}
