package service

import (
	"context"
	"errors"
	"time"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

// ErrCheckoutInProgress reports a duplicate checkout submission while
// a reservation for the same user is still held.
var ErrCheckoutInProgress = errors.New("checkout already in progress")

// OrderEventPublisher publishes order lifecycle events.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *models.Order) error
}

// OrderService handles checkout and order retrieval.
type OrderService struct {
	orderRepo      repository.OrderRepository
	orderCache     repository.OrderCache
	checkoutGuard  repository.CheckoutGuard
	eventPublisher OrderEventPublisher
	guard          *userGuard
	config         *config.Config
	logger         *logging.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	orderCache repository.OrderCache,
	checkoutGuard repository.CheckoutGuard,
	eventPublisher OrderEventPublisher,
	guard *userGuard,
	cfg *config.Config,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		orderCache:     orderCache,
		checkoutGuard:  checkoutGuard,
		eventPublisher: eventPublisher,
		guard:          guard,
		config:         cfg,
		logger:         logging.New("order-service"),
	}
}

// PlaceOrder converts the user's cart into an order exactly once.
// The per-user write lock excludes cart mutations for the duration;
// the checkout reservation rejects duplicate submissions; the
// repository runs the snapshot-order-lines-clear sequence as one
// transaction. On ErrCommitFailed the cart is untouched and the
// reservation is released, so the client may simply resubmit.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64, req *models.PlaceOrderRequest) (*models.Order, error) {
	s.guard.Lock(userID)
	defer s.guard.Unlock(userID)

	acquired, err := s.checkoutGuard.Acquire(ctx, userID)
	if err != nil {
		s.logger.Error("Checkout reservation failed", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}
	if !acquired {
		metrics.CheckoutFailures.WithLabelValues("duplicate").Inc()
		return nil, ErrCheckoutInProgress
	}

	start := time.Now()
	order, err := s.orderRepo.CommitOrder(ctx, userID, req.ShippingDetails())
	if err != nil {
		// Free the reservation so the retry the caller is entitled to
		// is not rejected as a duplicate.
		if relErr := s.checkoutGuard.Release(ctx, userID); relErr != nil {
			s.logger.Error("Failed to release checkout reservation", logging.Fields{
				"user_id": userID,
				"error":   relErr.Error(),
			})
		}
		if errors.Is(err, repository.ErrEmptyCart) {
			metrics.CheckoutFailures.WithLabelValues("empty_cart").Inc()
		} else {
			metrics.CheckoutFailures.WithLabelValues("commit").Inc()
		}
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	metrics.CheckoutDuration.Observe(time.Since(start).Seconds())

	if s.config.Features.EnableOrderCaching {
		if err := s.orderCache.Set(ctx, order); err != nil {
			// Cache trouble never fails a committed order.
			s.logger.Error("Failed to cache order", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	if s.config.Features.EnableOrderEvents {
		if err := s.eventPublisher.PublishOrderPlaced(ctx, order); err != nil {
			s.logger.Error("Failed to publish order placed event", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	s.logger.Info("Order placed", logging.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.Total.String(),
	})
	return order, nil
}

// GetOrder retrieves an order scoped to its owner. Another user's
// order is ErrNotFound, cache hit or not.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	if s.config.Features.EnableOrderCaching {
		if order, err := s.orderCache.Get(ctx, orderID); err == nil && order != nil {
			if order.UserID != userID {
				return nil, repository.ErrNotFound
			}
			return order, nil
		}
	}

	order, err := s.orderRepo.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if s.config.Features.EnableOrderCaching {
		if err := s.orderCache.Set(ctx, order); err != nil {
			s.logger.Debug("Failed to cache order", logging.Fields{
				"order_id": orderID,
				"error":    err.Error(),
			})
		}
	}
	return order, nil
}

// ListOrders returns the user's order history, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]models.OrderSummary, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}
