package application

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"shopit/internal/cart/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotInCart       = errors.New("product not in cart")
)

// Summary is what the storefront needs to refresh its cart badge after
// a mutation.
type Summary struct {
	CartCount       int
	ProductSubtotal decimal.Decimal
	OverallSubtotal decimal.Decimal
}

type Service struct {
	store   Store
	catalog ProductCatalog
}

func NewService(store Store, catalog ProductCatalog) *Service {
	return &Service{store: store, catalog: catalog}
}

// Add sets the product's cart entry to the given quantity, taking a
// fresh price and stock snapshot. Quantity is not bounded by current
// stock; the snapshot lets the storefront warn.
func (s *Service) Add(ctx context.Context, sessionID string, productID int64, quantity int) (Summary, error) {
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return Summary{}, ErrProductNotFound
	}

	entry, err := domain.NewEntry(product.ID, product.Name, product.Price, quantity, product.Stock)
	if err != nil {
		return Summary{}, err
	}

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	c.Set(entry)
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return Summary{}, err
	}

	return Summary{
		CartCount:       c.Count(),
		ProductSubtotal: entry.Subtotal.Round(2),
		OverallSubtotal: c.Subtotal(),
	}, nil
}

func (s *Service) Remove(ctx context.Context, sessionID string, productID int64) (Summary, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	if !c.Remove(productID) {
		return Summary{}, ErrNotInCart
	}
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return Summary{}, err
	}

	return Summary{
		CartCount:       c.Count(),
		OverallSubtotal: c.Subtotal(),
	}, nil
}

func (s *Service) View(ctx context.Context, sessionID string) (domain.Cart, error) {
	return s.store.Load(ctx, sessionID)
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}
