package repository

import (
	"context"
	"database/sql"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// Ensure PostgresCatalogReader implements CatalogReader.
var _ CatalogReader = (*PostgresCatalogReader)(nil)

// PostgresCatalogReader reads product snapshots from the shared
// catalog tables. Read-only: the catalog service owns the data.
type PostgresCatalogReader struct {
	db *sql.DB
}

// NewPostgresCatalogReader creates a new catalog reader.
func NewPostgresCatalogReader(db *sql.DB) *PostgresCatalogReader {
	return &PostgresCatalogReader{db: db}
}

// GetProduct returns the product snapshot or ErrNotFound.
func (r *PostgresCatalogReader) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	var p models.Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, image_url, category
		FROM products
		WHERE id = $1`,
		productID,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Category)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
