package application

import (
	"context"

	cartdom "shopit/internal/cart/domain"
	catalogdom "shopit/internal/catalog/domain"
)

// Store persists one cart per session. Implementations must return an
// empty cart, not an error, for sessions that have never saved one.
type Store interface {
	Load(ctx context.Context, sessionID string) (cartdom.Cart, error)
	Save(ctx context.Context, sessionID string, c cartdom.Cart) error
	Clear(ctx context.Context, sessionID string) error
}

type ProductCatalog interface {
	Product(ctx context.Context, id int64) (catalogdom.Product, error)
}
