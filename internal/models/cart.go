package models

import "github.com/shopspring/decimal"

// CartItem is one cart line joined with the current catalog snapshot
// of its product (name, price, image) for display and checkout.
type CartItem struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ImageURL    string          `json:"image_url"`
	Quantity    int             `json:"quantity"`
}

// LineTotal returns unit price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartItems is a cart snapshot in insertion order.
type CartItems []CartItem

// Total computes the cart total: sum of line totals, rounded to two
// decimal places, half-up. Pure function of the snapshot; GetCart and
// the order commit must call it over the same read so the displayed
// and the frozen totals cannot disagree.
func (items CartItems) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total.Round(2)
}

// AddToCartRequest is the body of POST /api/cart/items.
type AddToCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// UpdateCartItemRequest is the body of PATCH /api/cart/items/:id.
// Quantity zero or below removes the line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the payload of GET /api/cart.
type CartResponse struct {
	Items CartItems       `json:"items"`
	Total decimal.Decimal `json:"total"`
}
