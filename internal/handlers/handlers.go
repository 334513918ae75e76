package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/service"
)

// Handlers holds all HTTP handlers for the storefront service.
type Handlers struct {
	cartService  *service.CartService
	orderService *service.OrderService
	config       *config.Config
	logger       *logging.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	cartService *service.CartService,
	orderService *service.OrderService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		cartService:  cartService,
		orderService: orderService,
		config:       cfg,
		logger:       logging.New("handlers"),
	}
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "not found"})
	case errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "quantity must be a positive integer"})
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "product not found"})
	case errors.Is(err, repository.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "cart is empty"})
	case errors.Is(err, service.ErrCheckoutInProgress):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "checkout already in progress"})
	case errors.Is(err, repository.ErrCommitFailed):
		// Transient and retry-safe: the cart was left untouched.
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "could not place order, please try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
	}
}
