package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

// In-memory doubles for the storage interfaces. Mutations hold a
// mutex so the doubles give the same atomicity the real store does.

type memCatalog struct {
	mu       sync.Mutex
	products map[int64]models.Product
}

func newMemCatalog() *memCatalog {
	return &memCatalog{products: make(map[int64]models.Product)}
}

func (c *memCatalog) put(p models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

func (c *memCatalog) setPrice(productID int64, price string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.products[productID]
	p.Price = decimal.RequireFromString(price)
	c.products[productID] = p
}

func (c *memCatalog) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[productID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

type memCartLine struct {
	id        int64
	productID int64
	quantity  int
}

type memCartRepo struct {
	mu      sync.Mutex
	catalog *memCatalog
	nextID  int64
	lines   map[int64][]*memCartLine
}

func newMemCartRepo(catalog *memCatalog) *memCartRepo {
	return &memCartRepo{
		catalog: catalog,
		lines:   make(map[int64][]*memCartLine),
	}
}

func (r *memCartRepo) AddItem(ctx context.Context, userID, productID int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range r.lines[userID] {
		if line.productID == productID {
			line.quantity += quantity
			return nil
		}
	}
	r.nextID++
	r.lines[userID] = append(r.lines[userID], &memCartLine{
		id:        r.nextID,
		productID: productID,
		quantity:  quantity,
	})
	return nil
}

func (r *memCartRepo) SetItemQuantity(ctx context.Context, userID, itemID int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range r.lines[userID] {
		if line.id == itemID {
			line.quantity = quantity
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memCartRepo) RemoveItem(ctx context.Context, userID, itemID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := r.lines[userID]
	for i, line := range lines {
		if line.id == itemID {
			r.lines[userID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memCartRepo) GetCart(ctx context.Context, userID int64) (models.CartItems, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(ctx, userID)
}

func (r *memCartRepo) snapshotLocked(ctx context.Context, userID int64) (models.CartItems, error) {
	items := make(models.CartItems, 0, len(r.lines[userID]))
	for _, line := range r.lines[userID] {
		p, err := r.catalog.GetProduct(ctx, line.productID)
		if err != nil {
			return nil, err
		}
		items = append(items, models.CartItem{
			ID:          line.id,
			ProductID:   line.productID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			ImageURL:    p.ImageURL,
			Quantity:    line.quantity,
		})
	}
	return items, nil
}

type memOrderRepo struct {
	mu        sync.Mutex
	cart      *memCartRepo
	nextID    int64
	orders    map[int64]*models.Order
	commitErr error
}

func newMemOrderRepo(cart *memCartRepo) *memOrderRepo {
	return &memOrderRepo{
		cart:   cart,
		orders: make(map[int64]*models.Order),
	}
}

// CommitOrder mirrors the real repository contract: all-or-nothing.
// When commitErr is set the commit fails as if rolled back, leaving
// the cart and order set untouched.
func (r *memOrderRepo) CommitOrder(ctx context.Context, userID int64, shipping models.ShippingDetails) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.cart.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, repository.ErrEmptyCart
	}
	if r.commitErr != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrCommitFailed, r.commitErr)
	}

	r.nextID++
	order := &models.Order{
		ID:        r.nextID,
		UserID:    userID,
		Status:    models.OrderStatusPending,
		Total:     items.Total(),
		Shipping:  shipping,
		CreatedAt: time.Now(),
	}
	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	r.orders[order.ID] = order

	r.cart.mu.Lock()
	delete(r.cart.lines, userID)
	r.cart.mu.Unlock()

	return order, nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return order, nil
}

func (r *memOrderRepo) ListByUser(ctx context.Context, userID int64) ([]models.OrderSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summaries := make([]models.OrderSummary, 0)
	for _, order := range r.orders {
		if order.UserID != userID {
			continue
		}
		summaries = append(summaries, models.OrderSummary{
			ID:        order.ID,
			Status:    order.Status,
			Total:     order.Total,
			ItemCount: len(order.Items),
			CreatedAt: order.CreatedAt,
		})
	}
	return summaries, nil
}

func (r *memOrderRepo) orderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

type memOrderCache struct {
	mu     sync.Mutex
	orders map[int64]*models.Order
}

func newMemOrderCache() *memOrderCache {
	return &memOrderCache{orders: make(map[int64]*models.Order)}
}

func (c *memOrderCache) Get(ctx context.Context, orderID int64) (*models.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orders[orderID], nil
}

func (c *memOrderCache) Set(ctx context.Context, order *models.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders[order.ID] = order
	return nil
}

func (c *memOrderCache) Delete(ctx context.Context, orderID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.orders, orderID)
	return nil
}

type memCheckoutGuard struct {
	mu   sync.Mutex
	held map[int64]bool
}

func newMemCheckoutGuard() *memCheckoutGuard {
	return &memCheckoutGuard{held: make(map[int64]bool)}
}

func (g *memCheckoutGuard) Acquire(ctx context.Context, userID int64) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held[userID] {
		return false, nil
	}
	g.held[userID] = true
	return true, nil
}

func (g *memCheckoutGuard) Release(ctx context.Context, userID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, userID)
	return nil
}

func (g *memCheckoutGuard) isHeld(userID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held[userID]
}

type memPublisher struct {
	mu     sync.Mutex
	placed []*models.Order
	err    error
}

func (p *memPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.placed = append(p.placed, order)
	return nil
}

func (p *memPublisher) publishedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.placed)
}
