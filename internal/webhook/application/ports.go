package application

import (
	"context"

	orderdom "shopit/internal/order/domain"
)

// OrderLedger writes the order, its items, the stock decrements, the
// dedupe record and the outbox event in one transaction. It returns
// false when the event ID was already recorded.
type OrderLedger interface {
	CreatePaid(ctx context.Context, o orderdom.Order, checkoutSessionID, eventID string, payload []byte, traceparent string) (bool, error)
}

// Deduper is the fast-path duplicate check in front of the ledger's
// durable one. Seen must be read-only; Mark is called only after the
// ledger write succeeds.
type Deduper interface {
	Key(source, eventID string) string
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}
