package service

import (
	"context"
	"errors"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

var (
	// ErrInvalidQuantity reports a non-positive quantity on AddItem.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrProductNotFound reports an unknown product id.
	ErrProductNotFound = errors.New("product not found")
)

// CartService handles cart business logic.
type CartService struct {
	cartRepo repository.CartRepository
	catalog  repository.CatalogReader
	guard    *userGuard
	logger   *logging.Logger
}

// NewCartService creates a new cart service. The guard must be the
// same instance the order service uses, so commits exclude cart
// mutations for the same user.
func NewCartService(
	cartRepo repository.CartRepository,
	catalog repository.CatalogReader,
	guard *userGuard,
) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		catalog:  catalog,
		guard:    guard,
		logger:   logging.New("cart-service"),
	}
}

// AddItem merge-adds quantity onto the user's line for the product,
// creating the line if absent. Quantity must be positive and the
// product must exist in the catalog; nothing is written otherwise.
func (s *CartService) AddItem(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	s.guard.RLock(userID)
	defer s.guard.RUnlock(userID)

	if err := s.cartRepo.AddItem(ctx, userID, productID, quantity); err != nil {
		metrics.CartOperations.WithLabelValues("add", "error").Inc()
		return err
	}

	metrics.CartOperations.WithLabelValues("add", "ok").Inc()
	s.logger.Info("Item added to cart", logging.Fields{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})
	return nil
}

// UpdateItem sets the absolute quantity of a cart line the user owns.
// Zero or below removes the line rather than storing it.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) error {
	s.guard.RLock(userID)
	defer s.guard.RUnlock(userID)

	var err error
	if quantity <= 0 {
		err = s.cartRepo.RemoveItem(ctx, userID, itemID)
	} else {
		err = s.cartRepo.SetItemQuantity(ctx, userID, itemID, quantity)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		metrics.CartOperations.WithLabelValues("update", "error").Inc()
		return err
	}

	metrics.CartOperations.WithLabelValues("update", "ok").Inc()
	return nil
}

// GetCart returns the user's cart joined with the current catalog
// snapshot, plus the total computed from that same snapshot.
func (s *CartService) GetCart(ctx context.Context, userID int64) (*models.CartResponse, error) {
	items, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.CartResponse{
		Items: items,
		Total: items.Total(),
	}, nil
}
