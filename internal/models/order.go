package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is the immutable record of a completed checkout. Only status
// may change after creation, and nothing in this service changes it.
type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Status    OrderStatus     `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Shipping  ShippingDetails `json:"shipping"`
	Items     []OrderItem     `json:"items,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderItem is one order line. UnitPrice is the catalog price at
// commit time and never tracks later catalog changes.
type OrderItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// LineTotal returns the frozen unit price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderSummary is one row of the order history listing.
type OrderSummary struct {
	ID        int64           `json:"id"`
	Status    OrderStatus     `json:"status"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	CreatedAt time.Time       `json:"created_at"`
}

// ShippingDetails is the shipping block captured at checkout.
type ShippingDetails struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
}

// PlaceOrderRequest is the body of POST /api/orders. The card fields
// are accepted from the checkout form and discarded: this service
// never validates, charges, or stores them.
type PlaceOrderRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Zip        string `json:"zip"`
	CardNumber string `json:"card_number"`
	ExpDate    string `json:"exp_date"`
	CVV        string `json:"cvv"`
}

// ShippingDetails extracts the persisted subset of the request.
func (r PlaceOrderRequest) ShippingDetails() ShippingDetails {
	return ShippingDetails{
		Name:    r.Name,
		Address: r.Address,
		City:    r.City,
		Zip:     r.Zip,
	}
}
