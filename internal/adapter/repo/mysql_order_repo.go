package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

// Create writes the order row and its item snapshots in one transaction so
// a half-written order never becomes visible.
func (r *MySQLOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO orders (id,user_id,customer_name,customer_phone,delivery_address,payment_method,total_cents,status,rejection_reason,created_at)
VALUES (?,?,?,?,?,?,?,?,'',?)
`, o.ID, nullIfEmpty(o.UserID), o.CustomerName, o.CustomerPhone, o.DeliveryAddress,
		o.PaymentMethod, o.TotalCents, o.Status, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.ExecContext(ctx, `
INSERT INTO order_items (order_id,product_id,product_name,product_image,unit_price_cents,quantity)
VALUES (?,?,?,?,?,?)
`, o.ID, it.ProductID, it.ProductName, it.ProductImage, it.UnitPriceCents, it.Quantity)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return tx.Commit()
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,COALESCE(user_id,''),customer_name,customer_phone,delivery_address,payment_method,total_cents,status,rejection_reason,created_at
FROM orders WHERE id=?`, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if o.Items, err = r.OrderItems(ctx, id); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *MySQLOrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `
SELECT id,COALESCE(user_id,''),customer_name,customer_phone,delivery_address,payment_method,total_cents,status,rejection_reason,created_at
FROM orders ORDER BY created_at DESC`)
}

func (r *MySQLOrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.list(ctx, `
SELECT id,COALESCE(user_id,''),customer_name,customer_phone,delivery_address,payment_method,total_cents,status,rejection_reason,created_at
FROM orders WHERE user_id=? ORDER BY created_at DESC`, userID)
}

func (r *MySQLOrderRepo) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Items, err = r.OrderItems(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *MySQLOrderRepo) OrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT product_id,product_name,COALESCE(product_image,''),unit_price_cents,quantity
FROM order_items WHERE order_id=?`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.ProductImage,
			&it.UnitPriceCents, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *MySQLOrderRepo) UpdateStatusIf(ctx context.Context, id string, from, to domain.Status, reason string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE orders
SET status = ?, rejection_reason = ?, updated_at = NOW()
WHERE id = ? AND status = ?`,
		to, reason, id, from,
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	// rows == 0 -> nothing matched (either not found or status mismatch)
	return rows > 0, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.UserID, &o.CustomerName, &o.CustomerPhone,
		&o.DeliveryAddress, &o.PaymentMethod, &o.TotalCents, &o.Status,
		&o.RejectionReason, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
