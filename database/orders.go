package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/mentneo/sureshment001/models"
)

// CreateOrder inserts the order and its items in one transaction. The item
// list is immutable after this call; only the status changes later.
func (db *DB) CreateOrder(ctx context.Context, order *models.Order) (uuid.UUID, error) {
	shippingJSON, err := json.Marshal(order.ShippingInfo)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode shipping info: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderID := uuid.New()
	status := order.Status
	if status == "" {
		status = models.OrderStatusPending
	}

	insertOrder := `INSERT INTO orders (id, user_id, user_email, status, total_amount, shipping_info)
	                VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, insertOrder, orderID, order.UserID, order.UserEmail,
		status, order.TotalAmount, shippingJSON); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert order: %w", err)
	}

	insertItem := `INSERT INTO order_items (id, order_id, product_id, name, unit_price, quantity, image_url)
	               VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, insertItem, uuid.New(), orderID,
			item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.ImageURL); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return orderID, nil
}

// GetOrder loads one order with its items. Returns sql.ErrNoRows when the
// order does not exist.
func (db *DB) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	var shippingJSON []byte

	query := `SELECT id, user_id, user_email, status, total_amount, shipping_info, created_at, updated_at
	          FROM orders WHERE id = $1`
	err := db.QueryRowContext(ctx, query, orderID).Scan(
		&order.ID, &order.UserID, &order.UserEmail, &order.Status,
		&order.TotalAmount, &shippingJSON, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(shippingJSON, &order.ShippingInfo); err != nil {
		// Legacy rows may carry a divergent shipping shape; show what we can
		order.ShippingInfo = models.ShippingInfo{}
	}

	items, err := db.getOrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

// ListOrders returns orders newest-first. A zero userID lists every order
// (admin view); otherwise only the user's own.
func (db *DB) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	query := `SELECT id, user_id, user_email, status, total_amount, shipping_info, created_at, updated_at
	          FROM orders`
	args := []interface{}{}
	if userID != uuid.Nil {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		var shippingJSON []byte
		if err := rows.Scan(&order.ID, &order.UserID, &order.UserEmail, &order.Status,
			&order.TotalAmount, &shippingJSON, &order.CreatedAt, &order.UpdatedAt); err != nil {
			continue
		}
		if err := json.Unmarshal(shippingJSON, &order.ShippingInfo); err != nil {
			order.ShippingInfo = models.ShippingInfo{}
		}
		orders = append(orders, order)
	}

	for i := range orders {
		items, err := db.getOrderItems(ctx, orders[i].ID)
		if err != nil {
			continue
		}
		orders[i].Items = items
	}

	return orders, rows.Err()
}

// UpdateOrderStatus changes the one mutable field of a persisted order.
func (db *DB) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`, status, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (db *DB) getOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, order_id, product_id, name, unit_price, quantity, COALESCE(image_url, '')
		 FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.UnitPrice, &item.Quantity, &item.ImageURL); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
