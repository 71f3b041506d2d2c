package domain

import (
	"context"
	"time"
)

// ProductSource defines the interface a marketplace adapter implements.
// A source failure degrades the pipeline, it never aborts it: adapters
// absorb network and parse errors and return an empty list.
type ProductSource interface {
	Search(ctx context.Context, query string, budget Budget) []Product
	Name() string
}

// PriceResolver resolves a catalog identifier to its authoritative price.
// Resolution failure for one identifier must never abort the pipeline, so
// implementations convert every failure into a zero-price resolution
// carrying the identifier unchanged.
type PriceResolver interface {
	Resolve(ctx context.Context, asin string) PriceResolution
	// ProductURL builds the canonical deep link for an identifier, so a
	// resolution that lands on a parent listing can rewrite the
	// product's URL consistently with its new identifier.
	ProductURL(asin string) string
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
