package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartapp "shopit/internal/cart/application"
	cartdom "shopit/internal/cart/domain"
	catalogdom "shopit/internal/catalog/domain"
)

type memCartStore struct {
	carts map[string]cartdom.Cart
}

func (m *memCartStore) Load(_ context.Context, sessionID string) (cartdom.Cart, error) {
	if c, ok := m.carts[sessionID]; ok {
		return c, nil
	}
	return cartdom.New(), nil
}

func (m *memCartStore) Save(_ context.Context, sessionID string, c cartdom.Cart) error {
	m.carts[sessionID] = c
	return nil
}

func (m *memCartStore) Clear(_ context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

type memCatalog struct {
	products map[int64]catalogdom.Product
}

func (m *memCatalog) Product(_ context.Context, id int64) (catalogdom.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return catalogdom.Product{}, errors.New("not found")
	}
	return p, nil
}

type fakeProcessor struct {
	created []SessionParams
	err     error
}

func (f *fakeProcessor) CreateSession(_ context.Context, params SessionParams) (CheckoutSession, error) {
	if f.err != nil {
		return CheckoutSession{}, f.err
	}
	f.created = append(f.created, params)
	return CheckoutSession{ID: "cs_test_1", URL: "https://pay.example.com/cs_test_1"}, nil
}

func (f *fakeProcessor) ListLineItems(_ context.Context, _ string) ([]LineItem, error) {
	return nil, nil
}

func checkoutFixture() (*Service, *cartapp.Service, *fakeProcessor) {
	store := &memCartStore{carts: map[string]cartdom.Cart{}}
	catalog := &memCatalog{products: map[int64]catalogdom.Product{
		1: {ID: 1, Name: "mug", Price: decimal.RequireFromString("10.00"), Stock: 5},
		2: {ID: 2, Name: "tee", Price: decimal.RequireFromString("19.99"), Stock: 3},
	}}
	carts := cartapp.NewService(store, catalog)
	processor := &fakeProcessor{}
	svc := NewService(carts, processor, "https://shop.example.com/checkout/success", "https://shop.example.com/checkout/cancelled")
	return svc, carts, processor
}

func TestCreateEmptyCart(t *testing.T) {
	svc, _, processor := checkoutFixture()

	_, err := svc.Create(context.Background(), "s1", 42)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, processor.created, "no processor session for an empty cart")
}

func TestCreateBuildsLineItems(t *testing.T) {
	svc, carts, processor := checkoutFixture()
	ctx := context.Background()

	_, err := carts.Add(ctx, "s1", 1, 2)
	require.NoError(t, err)
	_, err = carts.Add(ctx, "s1", 2, 1)
	require.NoError(t, err)

	session, err := svc.Create(ctx, "s1", 42)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)

	require.Len(t, processor.created, 1)
	params := processor.created[0]
	assert.Equal(t, "42", params.ClientReference)
	require.Len(t, params.LineItems, 2)

	mug := params.LineItems[0]
	assert.Equal(t, int64(1), mug.ProductID)
	assert.Equal(t, "usd", mug.Currency)
	assert.Equal(t, int64(1000), mug.UnitAmount, "10.00 in minor units")
	assert.Equal(t, 2, mug.Quantity)

	tee := params.LineItems[1]
	assert.Equal(t, int64(1999), tee.UnitAmount, "19.99 rounds to 1999 cents")
	assert.Equal(t, 1, tee.Quantity)
}

func TestCreateProcessorUnreachable(t *testing.T) {
	svc, carts, processor := checkoutFixture()
	ctx := context.Background()
	processor.err = errors.New("connection refused")

	_, err := carts.Add(ctx, "s1", 1, 1)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "s1", 42)
	assert.Error(t, err)

	c, err := carts.View(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Count(), "cart untouched on processor failure")
}

func TestSuccessClearsCart(t *testing.T) {
	svc, carts, _ := checkoutFixture()
	ctx := context.Background()

	_, err := carts.Add(ctx, "s1", 1, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Success(ctx, "s1"))

	c, err := carts.View(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}
