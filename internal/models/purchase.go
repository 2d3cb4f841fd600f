package models

import (
	"strconv"
	"time"
)

// PurchaseItem is one line of a purchase as sent to the payment provider
type PurchaseItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice Money  `json:"unit_price"`
}

// PurchaseRequest is the body of POST /purchases
type PurchaseRequest struct {
	Items []PurchaseItem `json:"items"`
}

// PurchaseResponse carries the preference id used to initialise the payment widget
type PurchaseResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Purchase is a persisted purchase
type Purchase struct {
	ID           int64
	PreferenceID string
	Items        []PurchaseItem
	Total        Money
	CreatedAt    time.Time
}

// PurchaseItemsFromCart converts cart lines to purchase lines
func PurchaseItemsFromCart(items []CartItem) []PurchaseItem {
	out := make([]PurchaseItem, 0, len(items))
	for _, it := range items {
		out = append(out, PurchaseItem{
			ID:        strconv.FormatInt(it.ID, 10),
			Title:     it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		})
	}
	return out
}

// PurchaseTotal sums unit price times quantity over all lines
func PurchaseTotal(items []PurchaseItem) Money {
	var total Money
	for _, it := range items {
		total += it.UnitPrice.Times(it.Quantity)
	}
	return total
}
