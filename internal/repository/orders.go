package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// Ensure PostgresOrderRepository implements OrderRepository.
var _ OrderRepository = (*PostgresOrderRepository)(nil)

// PostgresOrderRepository implements OrderRepository using PostgreSQL.
type PostgresOrderRepository struct {
	db         *sql.DB
	maxRetries int
	logger     *logging.Logger
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository.
// maxRetries bounds the transparent retries on serialization conflicts.
func NewPostgresOrderRepository(db *sql.DB, maxRetries int, logger *logging.Logger) *PostgresOrderRepository {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &PostgresOrderRepository{
		db:         db,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// CommitOrder drains the user's cart into a new order in one
// serializable transaction. Conflicts aborted by Postgres are retried
// here; any other failure rolls back and surfaces ErrCommitFailed with
// the cart untouched. ErrEmptyCart is returned before any write.
func (r *PostgresOrderRepository) CommitOrder(ctx context.Context, userID int64, shipping models.ShippingDetails) (*models.Order, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		order, err := r.commitOnce(ctx, userID, shipping)
		if err == nil {
			return order, nil
		}
		if errors.Is(err, ErrEmptyCart) {
			return nil, err
		}
		if isSerializationFailure(err) {
			r.logger.Warn("Commit conflict, retrying", logging.Fields{
				"user_id": userID,
				"attempt": attempt + 1,
			})
			lastErr = err
			continue
		}
		r.logger.Error("Order commit failed", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	return nil, fmt.Errorf("%w: retries exhausted: %v", ErrCommitFailed, lastErr)
}

func (r *PostgresOrderRepository) commitOnce(ctx context.Context, userID int64, shipping models.ShippingDetails) (*models.Order, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	// Rollback is a no-op once Commit succeeds; it also covers
	// cancellation, which aborts the transaction mid-flight.
	defer tx.Rollback()

	// Single snapshot read. Every write below derives from it; the
	// cart is never re-read mid-commit. FOR UPDATE pins the lines
	// against concurrent absolute-set and delete.
	rows, err := tx.QueryContext(ctx, cartSnapshotQuery+" FOR UPDATE OF c", userID)
	if err != nil {
		return nil, fmt.Errorf("snapshot cart: %w", err)
	}
	items, err := scanCartItems(rows)
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("scan cart: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot cart: %w", err)
	}

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	total := items.Total()

	order := &models.Order{
		UserID:   userID,
		Status:   models.OrderStatusPending,
		Total:    total,
		Shipping: shipping,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, status, total_amount,
		                    shipping_name, shipping_address, shipping_city, shipping_zip)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		userID, order.Status, total,
		shipping.Name, shipping.Address, shipping.City, shipping.Zip,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	order.Items = make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)`,
			order.ID, item.ProductID, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order line: %w", err)
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ImageURL:    item.ImageURL,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	r.logger.Info("Order committed", logging.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    total.String(),
		"lines":    len(order.Items),
	})
	return order, nil
}

// GetByID returns the order with its lines, scoped to the owner. A
// different user's order comes back as ErrNotFound.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	var order models.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, status, total_amount,
		       shipping_name, shipping_address, shipping_city, shipping_zip,
		       created_at
		FROM orders
		WHERE id = $1 AND user_id = $2`,
		orderID, userID,
	).Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.Total,
		&order.Shipping.Name,
		&order.Shipping.Address,
		&order.Shipping.City,
		&order.Shipping.Zip,
		&order.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch order", logging.Fields{
			"order_id": orderID,
			"error":    err.Error(),
		})
		return nil, err
	}

	// Name and image join against the live catalog for display; the
	// price comes from the frozen order line, never from products.
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.product_id, p.name, p.image_url, l.quantity, l.unit_price
		FROM order_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.order_id = $1
		ORDER BY l.id`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(
			&item.ProductID,
			&item.ProductName,
			&item.ImageURL,
			&item.Quantity,
			&item.UnitPrice,
		); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}

// ListByUser returns the user's order history, newest first.
func (r *PostgresOrderRepository) ListByUser(ctx context.Context, userID int64) ([]models.OrderSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.status, o.total_amount,
		       (SELECT COUNT(*) FROM order_lines WHERE order_id = o.id) AS item_count,
		       o.created_at
		FROM orders o
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC`,
		userID,
	)
	if err != nil {
		r.logger.Error("Failed to list orders", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.OrderSummary, 0)
	for rows.Next() {
		var s models.OrderSummary
		if err := rows.Scan(&s.ID, &s.Status, &s.Total, &s.ItemCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
