package application

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	cartapp "shopit/internal/cart/application"
)

var ErrEmptyCart = errors.New("cart is empty")

const currency = "usd"

var centsPerUnit = decimal.NewFromInt(100)

type Service struct {
	carts     *cartapp.Service
	processor ProcessorClient

	successURL string
	cancelURL  string
}

func NewService(carts *cartapp.Service, processor ProcessorClient, successURL, cancelURL string) *Service {
	return &Service{
		carts:      carts,
		processor:  processor,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// Create turns the session's cart into a processor checkout session.
// No order is written here; the webhook consumer creates it once the
// processor confirms payment.
func (s *Service) Create(ctx context.Context, sessionID string, userID int64) (CheckoutSession, error) {
	c, err := s.carts.View(ctx, sessionID)
	if err != nil {
		return CheckoutSession{}, err
	}
	if c.IsEmpty() {
		return CheckoutSession{}, ErrEmptyCart
	}

	items := make([]LineItemParams, 0, len(c.Entries))
	for _, e := range c.Entries {
		items = append(items, LineItemParams{
			ProductID:  e.ProductID,
			Name:       e.Name,
			Currency:   currency,
			UnitAmount: e.UnitPrice.Mul(centsPerUnit).Round(0).IntPart(),
			Quantity:   e.Quantity,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	return s.processor.CreateSession(ctx, SessionParams{
		LineItems:       items,
		SuccessURL:      s.successURL,
		CancelURL:       s.cancelURL,
		ClientReference: strconv.FormatInt(userID, 10),
	})
}

// Success handles the browser redirect after a completed payment. The
// cart is cleared; the order itself arrives through the webhook.
func (s *Service) Success(ctx context.Context, sessionID string) error {
	return s.carts.Clear(ctx, sessionID)
}
