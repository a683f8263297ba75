package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/techhaven/storefront/internal/models"
	"github.com/techhaven/storefront/internal/repository"
)

// OrderRepository implements repository.OrderRepository on MySQL.
// Order items live in a child table written in the same transaction as the
// order row.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a MySQL-backed order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, session_id, email, name, phone, street, city, state, zip_code,
			delivery_notes, amount_total, currency, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.SessionID, order.Email, order.Name, order.Phone,
		order.Address.Street, order.Address.City, order.Address.State, order.Address.ZipCode,
		order.DeliveryNotes, order.AmountTotal, order.Currency, order.Status,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, unit_price, quantity)
			VALUES (?, ?, ?, ?, ?)`,
			order.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *OrderRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var o models.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, session_id, email, name, phone, street, city, state, zip_code,
			delivery_notes, amount_total, currency, status, created_at, updated_at
		FROM orders WHERE session_id = ?`, sessionID,
	).Scan(&o.ID, &o.SessionID, &o.Email, &o.Name, &o.Phone,
		&o.Address.Street, &o.Address.City, &o.Address.State, &o.Address.ZipCode,
		&o.DeliveryNotes, &o.AmountTotal, &o.Currency, &o.Status, &o.CreatedAt, &o.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *OrderRepository) MarkPaid(ctx context.Context, sessionID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = ?, updated_at = ?
		WHERE session_id = ? AND status = ?`,
		models.OrderStatusPaid, time.Now(), sessionID, models.OrderStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		return true, nil
	}

	// No transition happened: either the order is already paid or it was
	// never recorded. Callers treat these differently.
	var status string
	err = r.db.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE session_id = ?`, sessionID,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return false, repository.ErrOrderNotFound
	}
	if err != nil {
		return false, fmt.Errorf("query order status: %w", err)
	}

	return false, nil
}

func (r *OrderRepository) FindRecent(ctx context.Context, limit int) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, email, name, phone, street, city, state, zip_code,
			delivery_notes, amount_total, currency, status, created_at, updated_at
		FROM orders ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.SessionID, &o.Email, &o.Name, &o.Phone,
			&o.Address.Street, &o.Address.City, &o.Address.State, &o.Address.ZipCode,
			&o.DeliveryNotes, &o.AmountTotal, &o.Currency, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, unit_price, quantity
		FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}
