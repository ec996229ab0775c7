package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkoutapp "shopit/internal/checkout/application"
	orderdom "shopit/internal/order/domain"
	webhookdom "shopit/internal/webhook/domain"
)

type fakeProcessor struct {
	items map[string][]checkoutapp.LineItem
	err   error
}

func (f *fakeProcessor) CreateSession(_ context.Context, _ checkoutapp.SessionParams) (checkoutapp.CheckoutSession, error) {
	return checkoutapp.CheckoutSession{}, errors.New("not used")
}

func (f *fakeProcessor) ListLineItems(_ context.Context, sessionID string) ([]checkoutapp.LineItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[sessionID], nil
}

type fakeLedger struct {
	orders   []orderdom.Order
	eventIDs map[string]bool
}

func (f *fakeLedger) CreatePaid(_ context.Context, o orderdom.Order, _, eventID string, _ []byte, _ string) (bool, error) {
	if f.eventIDs[eventID] {
		return false, nil
	}
	f.eventIDs[eventID] = true
	f.orders = append(f.orders, o)
	return true, nil
}

type fakeDeduper struct {
	seen map[string]bool
	err  error
}

func (f *fakeDeduper) Key(source, eventID string) string { return source + ":" + eventID }

func (f *fakeDeduper) Seen(_ context.Context, key string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.seen[key], nil
}

func (f *fakeDeduper) Mark(_ context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	f.seen[key] = true
	return nil
}

func webhookFixture() (*Service, *fakeProcessor, *fakeLedger) {
	processor := &fakeProcessor{items: map[string][]checkoutapp.LineItem{
		"cs_1": {
			{ProductID: 1, Name: "mug", Quantity: 2, UnitAmount: 1000},
			{ProductID: 0, Name: "mystery", Quantity: 1, UnitAmount: 500},
		},
	}}
	ledger := &fakeLedger{eventIDs: map[string]bool{}}
	svc := NewService(slog.Default(), processor, ledger, &fakeDeduper{seen: map[string]bool{}})
	return svc, processor, ledger
}

func completedEvent() webhookdom.Event {
	return webhookdom.Event{
		ID:   "evt_1",
		Type: webhookdom.EventCheckoutCompleted,
		Session: webhookdom.CompletedSession{
			ID:                "cs_1",
			ClientReferenceID: "42",
			AmountTotal:       2500,
			Currency:          "usd",
		},
	}
}

func TestHandleEventCreatesPaidOrder(t *testing.T) {
	svc, _, ledger := webhookFixture()

	require.NoError(t, svc.HandleEvent(context.Background(), completedEvent()))

	require.Len(t, ledger.orders, 1)
	o := ledger.orders[0]
	assert.Equal(t, orderdom.StatusPaid, o.Status)
	require.NotNil(t, o.UserID)
	assert.Equal(t, int64(42), *o.UserID)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("25.00")), "total from processor amount")

	require.Len(t, o.Items, 2)
	require.NotNil(t, o.Items[0].ProductID)
	assert.Equal(t, int64(1), *o.Items[0].ProductID)
	assert.True(t, o.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
	assert.Nil(t, o.Items[1].ProductID, "item without metadata keeps a nil product reference")
}

func TestHandleEventRedelivery(t *testing.T) {
	svc, _, ledger := webhookFixture()
	ctx := context.Background()

	require.NoError(t, svc.HandleEvent(ctx, completedEvent()))
	require.NoError(t, svc.HandleEvent(ctx, completedEvent()))

	assert.Len(t, ledger.orders, 1, "redelivered event creates no second order")
}

func TestHandleEventRedeliveryWithDedupeDown(t *testing.T) {
	processor := &fakeProcessor{items: map[string][]checkoutapp.LineItem{
		"cs_1": {{ProductID: 1, Name: "mug", Quantity: 1, UnitAmount: 1000}},
	}}
	ledger := &fakeLedger{eventIDs: map[string]bool{}}
	svc := NewService(slog.Default(), processor, ledger, &fakeDeduper{err: errors.New("redis down")})
	ctx := context.Background()

	require.NoError(t, svc.HandleEvent(ctx, completedEvent()))
	require.NoError(t, svc.HandleEvent(ctx, completedEvent()))

	assert.Len(t, ledger.orders, 1, "ledger constraint still dedupes")
}

func TestHandleEventIgnoresOtherTypes(t *testing.T) {
	svc, _, ledger := webhookFixture()

	ev := completedEvent()
	ev.Type = "payment_intent.created"
	require.NoError(t, svc.HandleEvent(context.Background(), ev))
	assert.Empty(t, ledger.orders)
}

func TestHandleEventNoClientReference(t *testing.T) {
	svc, _, ledger := webhookFixture()

	ev := completedEvent()
	ev.Session.ClientReferenceID = ""
	require.NoError(t, svc.HandleEvent(context.Background(), ev))

	require.Len(t, ledger.orders, 1)
	assert.Nil(t, ledger.orders[0].UserID, "order without associated user")
}

func TestHandleEventProcessorUnreachable(t *testing.T) {
	svc, processor, ledger := webhookFixture()
	processor.err = errors.New("connection refused")

	err := svc.HandleEvent(context.Background(), completedEvent())
	assert.Error(t, err)
	assert.Empty(t, ledger.orders, "no partial state persisted")
}
