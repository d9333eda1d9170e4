package model

import "time"

// Product represents an item in the shop catalogue.
// A nil Price marks a priceless product: shown in the catalogue but not orderable.
type Product struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Category    string    `json:"category" db:"category"`
	Description string    `json:"description" db:"description"`
	Image       string    `json:"image" db:"image"`
	Price       *float64  `json:"price" db:"price"`
	CreatedAt   time.Time `json:"-" db:"created_at"`
}

// Priceless reports whether the product has no purchasable price.
func (p Product) Priceless() bool {
	return p.Price == nil
}

// Amount returns the product price, or zero for a priceless product.
func (p Product) Amount() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

// PriceOf is a helper for building products with a price literal.
func PriceOf(v float64) *float64 {
	return &v
}

// CatalogResponse is the payload of the catalogue listing endpoint.
type CatalogResponse struct {
	Total int       `json:"total"`
	Items []Product `json:"items"`
}
