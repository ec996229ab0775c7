package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "shopit/internal/cart/domain"
	catalogdom "shopit/internal/catalog/domain"
)

type memStore struct {
	carts map[string]cartdom.Cart
}

func newMemStore() *memStore {
	return &memStore{carts: map[string]cartdom.Cart{}}
}

func (m *memStore) Load(_ context.Context, sessionID string) (cartdom.Cart, error) {
	if c, ok := m.carts[sessionID]; ok {
		return c, nil
	}
	return cartdom.New(), nil
}

func (m *memStore) Save(_ context.Context, sessionID string, c cartdom.Cart) error {
	m.carts[sessionID] = c
	return nil
}

func (m *memStore) Clear(_ context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

type memCatalog struct {
	products map[int64]catalogdom.Product
}

func (m *memCatalog) Product(_ context.Context, id int64) (catalogdom.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return catalogdom.Product{}, ErrProductNotFound
	}
	return p, nil
}

func fixture() (*Service, *memStore) {
	store := newMemStore()
	catalog := &memCatalog{products: map[int64]catalogdom.Product{
		1: {ID: 1, Name: "mug", Price: decimal.RequireFromString("10.00"), Stock: 5},
		2: {ID: 2, Name: "tee", Price: decimal.RequireFromString("19.99"), Stock: 3},
	}}
	return NewService(store, catalog), store
}

func TestAddToEmptyCart(t *testing.T) {
	svc, _ := fixture()

	sum, err := svc.Add(context.Background(), "s1", 1, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.CartCount)
	assert.True(t, sum.ProductSubtotal.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, sum.OverallSubtotal.Equal(decimal.RequireFromString("20.00")))
}

func TestReAddReplacesQuantity(t *testing.T) {
	svc, _ := fixture()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", 1, 2)
	require.NoError(t, err)
	sum, err := svc.Add(ctx, "s1", 1, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.CartCount, "quantity replaced, not accumulated")
	assert.True(t, sum.ProductSubtotal.Equal(decimal.RequireFromString("30.00")))
	assert.True(t, sum.OverallSubtotal.Equal(decimal.RequireFromString("30.00")))
}

func TestAddUnknownProduct(t *testing.T) {
	svc, store := fixture()

	_, err := svc.Add(context.Background(), "s1", 99, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, store.carts, "no entry persisted")
}

func TestAddInvalidQuantity(t *testing.T) {
	svc, store := fixture()

	_, err := svc.Add(context.Background(), "s1", 1, 0)
	assert.ErrorIs(t, err, cartdom.ErrInvalidQuantity)
	assert.Empty(t, store.carts)
}

func TestRemoveAbsentProduct(t *testing.T) {
	svc, _ := fixture()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", 1, 2)
	require.NoError(t, err)

	_, err = svc.Remove(ctx, "s1", 99)
	assert.ErrorIs(t, err, ErrNotInCart)

	c, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Count(), "cart unchanged after failed remove")
}

func TestRemoveRecomputesAggregates(t *testing.T) {
	svc, _ := fixture()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", 1, 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s1", 2, 1)
	require.NoError(t, err)

	sum, err := svc.Remove(ctx, "s1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.CartCount)
	assert.True(t, sum.OverallSubtotal.Equal(decimal.RequireFromString("19.99")))
}

func TestCartsAreSessionScoped(t *testing.T) {
	svc, _ := fixture()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", 1, 2)
	require.NoError(t, err)

	c, err := svc.View(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestStockSnapshotTaken(t *testing.T) {
	svc, store := fixture()

	_, err := svc.Add(context.Background(), "s1", 2, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, store.carts["s1"].Entries[2].Stock)
}
