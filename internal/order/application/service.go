package application

import (
	"context"
	"encoding/json"
	"errors"

	"shopit/internal/order/domain"
	"shopit/pkg/tracing"
)

var ErrNotFound = errors.New("order not found")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Cancel moves the order to Cancelled. Only Pending and Paid orders can
// be cancelled.
func (s *Service) Cancel(ctx context.Context, orderID string, userID int64) error {
	event := domain.OrderCancelled{OrderID: orderID, UserID: userID}
	return s.transition(ctx, orderID, userID, domain.StatusCancelled, "OrderCancelled", event)
}

// Refund moves the order to Refunded. Only Completed orders qualify.
func (s *Service) Refund(ctx context.Context, orderID string, userID int64) error {
	event := domain.OrderRefunded{OrderID: orderID, UserID: userID}
	return s.transition(ctx, orderID, userID, domain.StatusRefunded, "OrderRefunded", event)
}

func (s *Service) transition(ctx context.Context, orderID string, userID int64, to domain.Status, eventType string, event any) error {
	order, err := s.repo.GetForUser(ctx, orderID, userID)
	if err != nil {
		return err
	}
	if err := order.Transition(to); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, orderID, userID, to, eventType, payload, tracing.Traceparent(ctx))
}
