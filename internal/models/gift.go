package models

import "time"

// Gift is an entry of the gift registry catalog
type Gift struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       Money     `json:"price"`
	Image       string    `json:"image"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"-"`
}

// CartItem is a catalog item plus a quantity. Quantity is always at least 1 inside a cart.
type CartItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    Money  `json:"price"`
	Quantity int    `json:"quantity"`
}

// Subtotal returns price times quantity
func (c CartItem) Subtotal() Money {
	return c.Price.Times(c.Quantity)
}
