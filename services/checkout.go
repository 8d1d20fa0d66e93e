package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mentneo/sureshment001/cart"
	"github.com/mentneo/sureshment001/models"
)

// ErrEmptyCart is returned when checkout is submitted with no items in the
// cart. Checked before any persistence call is made.
var ErrEmptyCart = errors.New("cart is empty")

// OrderStore persists a new order with its items in one atomic operation.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) (uuid.UUID, error)
}

// CheckoutService turns the current cart plus shipping details into an order
// and clears the cart only on confirmed success. On any failure the cart is
// left untouched so the user can retry without re-adding items.
type CheckoutService struct {
	orders OrderStore
}

func NewCheckoutService(orders OrderStore) *CheckoutService {
	return &CheckoutService{orders: orders}
}

func (s *CheckoutService) Submit(ctx context.Context, c *cart.Container, userID uuid.UUID, userEmail string, shipping models.ShippingInfo) (uuid.UUID, error) {
	items := c.Items()
	if len(items) == 0 {
		return uuid.Nil, ErrEmptyCart
	}

	totals := c.Totals()
	order := &models.Order{
		UserID:       userID,
		UserEmail:    userEmail,
		Status:       models.OrderStatusPending,
		TotalAmount:  totals.TotalPrice,
		ShippingInfo: shipping,
	}
	for _, it := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			ImageURL:  it.ImageURL,
		})
	}

	orderID, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create order: %w", err)
	}

	c.Clear(ctx)
	return orderID, nil
}
