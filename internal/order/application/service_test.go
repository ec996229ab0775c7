package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopit/internal/order/domain"
)

type memRepo struct {
	orders map[string]domain.Order
	events []string
}

func (m *memRepo) ListByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range m.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memRepo) GetForUser(_ context.Context, id string, userID int64) (domain.Order, error) {
	o, ok := m.orders[id]
	if !ok || o.UserID == nil || *o.UserID != userID {
		return domain.Order{}, ErrNotFound
	}
	return o, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id string, userID int64, to domain.Status, eventType string, _ []byte, _ string) error {
	o, ok := m.orders[id]
	if !ok || o.UserID == nil || *o.UserID != userID {
		return ErrNotFound
	}
	if err := o.Transition(to); err != nil {
		return err
	}
	m.orders[id] = o
	m.events = append(m.events, eventType)
	return nil
}

func orderFixture(status domain.Status) (*Service, *memRepo) {
	uid := int64(1)
	repo := &memRepo{orders: map[string]domain.Order{
		"o1": {ID: "o1", UserID: &uid, Status: status},
	}}
	return NewService(repo), repo
}

func TestCancelFromPendingAndPaid(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusPending, domain.StatusPaid} {
		svc, repo := orderFixture(status)

		require.NoError(t, svc.Cancel(context.Background(), "o1", 1))
		assert.Equal(t, domain.StatusCancelled, repo.orders["o1"].Status)
		assert.Equal(t, []string{"OrderCancelled"}, repo.events)
	}
}

func TestCancelCompletedRejected(t *testing.T) {
	svc, repo := orderFixture(domain.StatusCompleted)

	err := svc.Cancel(context.Background(), "o1", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.StatusCompleted, repo.orders["o1"].Status)
	assert.Empty(t, repo.events, "no event on rejected transition")
}

func TestRefundRequiresCompleted(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusPending, domain.StatusPaid, domain.StatusDelivered, domain.StatusCancelled} {
		svc, repo := orderFixture(status)

		err := svc.Refund(context.Background(), "o1", 1)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "from %s", status)
		assert.Equal(t, status, repo.orders["o1"].Status)
	}

	svc, repo := orderFixture(domain.StatusCompleted)
	require.NoError(t, svc.Refund(context.Background(), "o1", 1))
	assert.Equal(t, domain.StatusRefunded, repo.orders["o1"].Status)
	assert.Equal(t, []string{"OrderRefunded"}, repo.events)
}

func TestCancelForeignOrder(t *testing.T) {
	svc, _ := orderFixture(domain.StatusPaid)

	err := svc.Cancel(context.Background(), "o1", 2)
	assert.ErrorIs(t, err, ErrNotFound)
}
