package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// Ensure PostgresCartRepository implements CartRepository.
var _ CartRepository = (*PostgresCartRepository)(nil)

// PostgresCartRepository implements CartRepository using PostgreSQL.
type PostgresCartRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresCartRepository creates a new PostgreSQL cart repository.
func NewPostgresCartRepository(db *sql.DB, logger *logging.Logger) *PostgresCartRepository {
	return &PostgresCartRepository{
		db:     db,
		logger: logger,
	}
}

// AddItem merge-adds quantity onto the (user, product) line. The
// upsert is one statement, so two concurrent adds for the same line
// cannot lose an update.
func (r *PostgresCartRepository) AddItem(ctx context.Context, userID, productID int64, quantity int) error {
	query := `
		INSERT INTO cart_lines (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
	`

	if _, err := r.db.ExecContext(ctx, query, userID, productID, quantity); err != nil {
		r.logger.Error("Failed to add cart item", logging.Fields{
			"user_id":    userID,
			"product_id": productID,
			"error":      err.Error(),
		})
		return err
	}

	r.logger.Debug("Cart item added", logging.Fields{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})
	return nil
}

// SetItemQuantity replaces the stored quantity of a line. The user_id
// predicate doubles as the ownership check: someone else's line is
// indistinguishable from a missing one.
func (r *PostgresCartRepository) SetItemQuantity(ctx context.Context, userID, itemID int64, quantity int) error {
	query := `
		UPDATE cart_lines
		SET quantity = $3
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, itemID, userID, quantity)
	if err != nil {
		r.logger.Error("Failed to update cart item", logging.Fields{
			"user_id": userID,
			"item_id": itemID,
			"error":   err.Error(),
		})
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveItem deletes a line the user owns.
func (r *PostgresCartRepository) RemoveItem(ctx context.Context, userID, itemID int64) error {
	query := `DELETE FROM cart_lines WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, itemID, userID)
	if err != nil {
		r.logger.Error("Failed to remove cart item", logging.Fields{
			"user_id": userID,
			"item_id": itemID,
			"error":   err.Error(),
		})
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	r.logger.Debug("Cart item removed", logging.Fields{
		"user_id": userID,
		"item_id": itemID,
	})
	return nil
}

// GetCart returns the user's cart lines joined with the catalog
// snapshot, in insertion order.
func (r *PostgresCartRepository) GetCart(ctx context.Context, userID int64) (models.CartItems, error) {
	rows, err := r.db.QueryContext(ctx, cartSnapshotQuery, userID)
	if err != nil {
		r.logger.Error("Failed to fetch cart", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}
	defer rows.Close()

	items, err := scanCartItems(rows)
	if err != nil {
		return nil, err
	}
	return items, rows.Err()
}

const cartSnapshotQuery = `
	SELECT c.id, c.product_id, p.name, p.price, p.image_url, c.quantity
	FROM cart_lines c
	JOIN products p ON p.id = c.product_id
	WHERE c.user_id = $1
	ORDER BY c.id
`

func scanCartItems(rows *sql.Rows) (models.CartItems, error) {
	items := make(models.CartItems, 0)
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.ProductName,
			&item.UnitPrice,
			&item.ImageURL,
			&item.Quantity,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// isSerializationFailure reports whether err is a conflict Postgres
// asks the client to retry: serialization_failure or deadlock_detected.
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
