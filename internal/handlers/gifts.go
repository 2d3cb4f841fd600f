package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"casamento/internal/cart"
)

var sortLabels = []struct{ value, label string }{
	{SortPrice, "Preço"},
	{SortAlpha, "Ordem alfabética"},
	{SortPopularity, "Popularidade"},
}

// Gifts renders the catalog with search, price ceiling and sorting
func (s *Site) Gifts(w http.ResponseWriter, r *http.Request) {
	filter := ParseCatalogFilter(r.URL.Query())
	c := s.carts.Load(r)

	data := GiftsViewData{
		PageData: s.page(r, "Lista de Presentes", "gifts"),
		Filter:   filter,
		Total:    c.TotalPrice(),
	}
	for _, o := range sortLabels {
		data.Sorts = append(data.Sorts, SortOption{Value: o.value, Label: o.label, Selected: o.value == filter.Sort})
	}

	gifts, err := s.catalog.ListGifts(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Error loading gift catalog")
		data.Error = ErrGiftCatalogLoadFailed
	}

	for _, g := range filter.Apply(gifts) {
		data.Gifts = append(data.Gifts, GiftCard{Gift: g, InCart: c.Contains(g.ID), Quantity: c.Quantity(g.ID)})
	}
	data.Results = len(data.Gifts)

	s.tmpl.Render(w, http.StatusOK, "gifts", data)
}

// ShowCart renders the cart page
func (s *Site) ShowCart(w http.ResponseWriter, r *http.Request) {
	c := s.carts.Load(r)
	data := CartViewData{
		PageData:   s.page(r, "Carrinho", "cart"),
		Items:      c.Items(),
		Total:      c.TotalPrice(),
		TotalItems: c.TotalItems(),
	}
	s.tmpl.Render(w, http.StatusOK, "cart", data)
}

// AddToCart adds one unit of a catalog gift. The gift is looked up in the catalog
// so name and price always come from the backend.
func (s *Site) AddToCart(w http.ResponseWriter, r *http.Request) {
	id, ok := formGiftID(r)
	if !ok {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	gifts, err := s.catalog.ListGifts(r.Context())
	if err != nil {
		respondWithError(w, http.StatusBadGateway, ErrGiftCatalogLoadFailed, "Error loading gift catalog", err)
		return
	}
	gift, ok := findGift(gifts, id)
	if !ok {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	s.updateCart(w, r, func(c *cart.Cart) { c.Add(gift) })
}

// IncrementCart adds one to a line already in the cart
func (s *Site) IncrementCart(w http.ResponseWriter, r *http.Request) {
	s.mutateLine(w, r, func(c *cart.Cart, id int64) { c.Increment(id) })
}

// DecrementCart removes one from a line; a line reaching zero is dropped
func (s *Site) DecrementCart(w http.ResponseWriter, r *http.Request) {
	s.mutateLine(w, r, func(c *cart.Cart, id int64) { c.Decrement(id) })
}

// RemoveFromCart drops a line
func (s *Site) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	s.mutateLine(w, r, func(c *cart.Cart, id int64) { c.Remove(id) })
}

// SetCartQuantity sets a line's quantity; zero or less removes it
func (s *Site) SetCartQuantity(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}
	s.mutateLine(w, r, func(c *cart.Cart, id int64) { c.SetQuantity(id, n) })
}

func (s *Site) mutateLine(w http.ResponseWriter, r *http.Request, fn func(*cart.Cart, int64)) {
	id, ok := formGiftID(r)
	if !ok {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}
	s.updateCart(w, r, func(c *cart.Cart) { fn(c, id) })
}

// pricedCart loads the cart and refreshes names and prices from the catalog, so the
// amounts charged never come from the browser. Repriced carts are written back.
func (s *Site) pricedCart(w http.ResponseWriter, r *http.Request) (*cart.Cart, error) {
	c := s.carts.Load(r)
	if c.IsEmpty() {
		return c, nil
	}
	gifts, err := s.catalog.ListGifts(r.Context())
	if err != nil {
		return nil, err
	}
	if c.Reprice(gifts) {
		if err := s.carts.Save(w, r, c); err != nil {
			s.log.Warn().Err(err).Msg("Error saving repriced cart")
		}
	}
	return c, nil
}

// updateCart loads the cart, applies fn, persists and redirects back
func (s *Site) updateCart(w http.ResponseWriter, r *http.Request, fn func(*cart.Cart)) {
	c := s.carts.Load(r)
	fn(c)
	if err := s.carts.Save(w, r, c); err != nil {
		if errors.Is(err, cart.ErrTooLarge) {
			s.log.Warn().Err(err).Msg("Cart mutation dropped")
			http.Error(w, ErrCartFull, http.StatusRequestEntityTooLarge)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error saving cart", err)
		return
	}
	http.Redirect(w, r, returnPath(r, "/cart"), http.StatusSeeOther)
}

func formGiftID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("id")), 10, 64)
	return id, err == nil && id > 0
}

// returnPath reads a local redirect target from the form, falling back otherwise
func returnPath(r *http.Request, fallback string) string {
	p := r.FormValue("return")
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return fallback
	}
	return p
}
