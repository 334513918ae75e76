package models

import "github.com/shopspring/decimal"

// Product is a read-only catalog snapshot. The catalog owns this data;
// the storefront never writes it.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category"`
}
