package application

import (
	"context"

	"shopit/internal/order/domain"
)

type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	GetForUser(ctx context.Context, id string, userID int64) (domain.Order, error)
	// UpdateStatus re-validates the transition under a row lock and
	// writes the outbox event in the same transaction. It fails with
	// domain.ErrInvalidTransition when a concurrent update got there
	// first.
	UpdateStatus(ctx context.Context, id string, userID int64, to domain.Status, eventType string, payload []byte, traceparent string) error
}
