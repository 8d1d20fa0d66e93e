package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentneo/sureshment001/cart"
	"github.com/mentneo/sureshment001/models"
)

// Mock OrderStore
type mockOrderStore struct {
	calls   int
	created *models.Order
	err     error
}

func (m *mockOrderStore) CreateOrder(ctx context.Context, order *models.Order) (uuid.UUID, error) {
	m.calls++
	if m.err != nil {
		return uuid.Nil, m.err
	}
	m.created = order
	return uuid.New(), nil
}

func newTestCart(ctx context.Context, t *testing.T) *cart.Container {
	t.Helper()
	c := cart.New(ctx, cart.NewMemoryStore())
	c.AddItem(ctx, cart.Product{ID: "A", Name: "Honey Bear", Price: 10}, 2)
	c.AddItem(ctx, cart.Product{ID: "B", Name: "Panda", Price: 5}, 1)
	return c
}

func TestSubmitEmptyCartFailsWithoutPersistenceCall(t *testing.T) {
	ctx := context.Background()
	store := &mockOrderStore{}
	svc := NewCheckoutService(store)
	c := cart.New(ctx, cart.NewMemoryStore())

	_, err := svc.Submit(ctx, c, uuid.New(), "user@example.com", models.ShippingInfo{})

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, store.calls, "no order creation may be attempted for an empty cart")
}

func TestSubmitSuccessClearsCartAndReturnsOrderID(t *testing.T) {
	ctx := context.Background()
	store := &mockOrderStore{}
	svc := NewCheckoutService(store)
	c := newTestCart(ctx, t)
	userID := uuid.New()

	orderID, err := svc.Submit(ctx, c, userID, "user@example.com", models.ShippingInfo{
		FullName: "Suresh", Address: "1 Bear St", City: "Hyderabad",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, orderID)
	assert.Equal(t, 0, c.Totals().TotalItems, "cart is cleared on confirmed success")

	require.NotNil(t, store.created)
	assert.Equal(t, userID, store.created.UserID)
	assert.Equal(t, models.OrderStatusPending, store.created.Status)
	assert.Equal(t, 25.0, store.created.TotalAmount)
	require.Len(t, store.created.Items, 2)
	assert.Equal(t, "A", store.created.Items[0].ProductID)
	assert.Equal(t, 2, store.created.Items[0].Quantity)
}

func TestSubmitPersistenceFailureLeavesCartUntouched(t *testing.T) {
	ctx := context.Background()
	store := &mockOrderStore{err: errors.New("backend down")}
	svc := NewCheckoutService(store)
	c := newTestCart(ctx, t)
	before := c.Totals()

	_, err := svc.Submit(ctx, c, uuid.New(), "user@example.com", models.ShippingInfo{})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, before, c.Totals(), "no partial clear on failure")

	// The user retries once the backend is back
	store.err = nil
	_, err = svc.Submit(ctx, c, uuid.New(), "user@example.com", models.ShippingInfo{})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Totals().TotalItems)
}
