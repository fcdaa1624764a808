package domain

import "github.com/shopspring/decimal"

// Product is a menu entry. The storefront only ever holds read-only
// snapshots of it; the cart service owns the authoritative record.
type Product struct {
	ID          string          `json:"_id"`
	ProductName string          `json:"productName"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stocks      int             `json:"stocks"`
	Image       string          `json:"image,omitempty"`
}
