package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPaid      Status = "Paid"
	StatusCancelled Status = "Cancelled"
	StatusDelivered Status = "Delivered"
	StatusCompleted Status = "Completed"
	StatusRefunded  Status = "Refunded"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

// transitions holds the allowed moves. Cancel is the only way out of
// Pending/Paid besides delivery; refunds require a completed order.
var transitions = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusCancelled, StatusDelivered},
	StatusDelivered: {StatusCompleted},
	StatusCompleted: {StatusRefunded},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID        string
	UserID    *int64
	Total     decimal.Decimal
	Status    Status
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item snapshots a purchased line. ProductID is nil when the catalog
// product was deleted before the purchase settled; the price never
// changes after creation.
type Item struct {
	ID        int64
	ProductID *int64
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Transition validates and applies a status change in memory. Callers
// persist the result; the repository re-validates under the row lock.
func (o *Order) Transition(to Status) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	return nil
}
