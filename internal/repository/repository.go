package repository

import (
	"context"
	"errors"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

var (
	// ErrNotFound reports a missing row, including rows that exist but
	// belong to another user. Callers must not be able to tell the two
	// apart.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart reports a commit attempted against an empty cart.
	// No writes have occurred when it is returned.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrCommitFailed reports a transient storage failure during order
	// commit. The transaction rolled back: the cart is untouched and
	// the checkout is safe to resubmit.
	ErrCommitFailed = errors.New("order commit failed")
)

// CartRepository owns the per-user cart lines.
type CartRepository interface {
	// AddItem merge-adds quantity onto the (user, product) line,
	// creating it if absent. The increment is a single atomic upsert.
	AddItem(ctx context.Context, userID, productID int64, quantity int) error

	// SetItemQuantity replaces the stored quantity of a line the user
	// owns. A line owned by someone else is ErrNotFound.
	SetItemQuantity(ctx context.Context, userID, itemID int64, quantity int) error

	// RemoveItem deletes a line the user owns.
	RemoveItem(ctx context.Context, userID, itemID int64) error

	// GetCart returns the user's cart lines joined with the current
	// catalog snapshot, in insertion order.
	GetCart(ctx context.Context, userID int64) (models.CartItems, error)
}

// OrderRepository persists committed orders.
type OrderRepository interface {
	// CommitOrder atomically drains the user's cart into a new order:
	// snapshot read, total, order row, order lines at snapshot prices,
	// cart deletion, all in one transaction.
	CommitOrder(ctx context.Context, userID int64, shipping models.ShippingDetails) (*models.Order, error)

	// GetByID returns the order with its lines, scoped to the owner.
	GetByID(ctx context.Context, userID, orderID int64) (*models.Order, error)

	// ListByUser returns the user's order history, newest first.
	ListByUser(ctx context.Context, userID int64) ([]models.OrderSummary, error)
}

// CatalogReader provides read-only product lookups.
type CatalogReader interface {
	// GetProduct returns the product snapshot or ErrNotFound.
	GetProduct(ctx context.Context, productID int64) (*models.Product, error)
}

// OrderCache caches committed orders.
type OrderCache interface {
	Get(ctx context.Context, orderID int64) (*models.Order, error)
	Set(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, orderID int64) error
}

// CheckoutGuard reserves a user's checkout slot so a duplicate
// submission cannot commit a second order from the same cart.
type CheckoutGuard interface {
	// Acquire returns false if a checkout reservation for the user
	// already exists.
	Acquire(ctx context.Context, userID int64) (bool, error)

	// Release frees the reservation so a failed checkout can be
	// retried immediately.
	Release(ctx context.Context, userID int64) error
}
