// Package cart holds the gift shopping cart. The cart lives in the browser: it
// is rebuilt from the request on every page load and written back after every
// mutation, so nothing here is shared between requests.
package cart

import (
	"encoding/json"
	"fmt"

	"casamento/internal/models"
)

// Cart is an ordered set of items keyed by gift id. Every item has quantity >= 1.
type Cart struct {
	items []models.CartItem
}

// New returns an empty cart
func New() *Cart {
	return &Cart{}
}

func (c *Cart) index(id int64) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Add puts one unit of gift into the cart, bumping the quantity if it is already there.
func (c *Cart) Add(gift models.Gift) {
	if i := c.index(gift.ID); i >= 0 {
		c.items[i].Quantity++
		return
	}
	c.items = append(c.items, models.CartItem{
		ID:       gift.ID,
		Name:     gift.Name,
		Price:    gift.Price,
		Quantity: 1,
	})
}

// Remove deletes the entry for id. Unknown ids are ignored.
func (c *Cart) Remove(id int64) {
	if i := c.index(id); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// SetQuantity overwrites the quantity of id; n <= 0 removes the entry.
// It reports whether id was in the cart.
func (c *Cart) SetQuantity(id int64, n int) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	if n <= 0 {
		c.Remove(id)
		return true
	}
	c.items[i].Quantity = n
	return true
}

// Increment adds one unit of an item already in the cart
func (c *Cart) Increment(id int64) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.items[i].Quantity++
	return true
}

// Decrement takes one unit away; going below 1 removes the item.
func (c *Cart) Decrement(id int64) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	return c.SetQuantity(id, c.items[i].Quantity-1)
}

// Contains reports whether id is in the cart
func (c *Cart) Contains(id int64) bool {
	return c.index(id) >= 0
}

// Quantity returns the quantity of id, 0 when absent
func (c *Cart) Quantity(id int64) int {
	if i := c.index(id); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

// Items returns a copy of the entries in insertion order
func (c *Cart) Items() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len is the number of distinct items
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// TotalPrice is the sum of price x quantity
func (c *Cart) TotalPrice() models.Money {
	var total models.Money
	for _, it := range c.items {
		total += it.Subtotal()
	}
	return total
}

// TotalItems is the sum of quantities
func (c *Cart) TotalItems() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Reprice replaces each line's name and price with the catalog's and drops lines
// whose gift is no longer listed. It reports whether anything changed.
func (c *Cart) Reprice(gifts []models.Gift) bool {
	byID := make(map[int64]models.Gift, len(gifts))
	for _, g := range gifts {
		byID[g.ID] = g
	}

	changed := false
	kept := c.items[:0]
	for _, it := range c.items {
		g, ok := byID[it.ID]
		if !ok {
			changed = true
			continue
		}
		if it.Name != g.Name || it.Price != g.Price {
			it.Name, it.Price = g.Name, g.Price
			changed = true
		}
		kept = append(kept, it)
	}
	c.items = kept
	return changed
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.items = nil
}

// Encode serializes the cart as a JSON array of {id,name,price,quantity}
func (c *Cart) Encode() ([]byte, error) {
	items := c.items
	if items == nil {
		items = []models.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart: %w", err)
	}
	return data, nil
}

// Decode rebuilds a cart from Encode's output. Entries with quantity < 1 are
// dropped and repeated ids are merged, so whatever the browser hands back the
// cart invariants hold.
func Decode(data []byte) (*Cart, error) {
	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}

	c := New()
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if i := c.index(it.ID); i >= 0 {
			c.items[i].Quantity += it.Quantity
			continue
		}
		c.items = append(c.items, it)
	}
	return c, nil
}
