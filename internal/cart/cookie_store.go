package cart

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"casamento/internal/security"
)

// CookieName is the browser storage key holding the serialized cart
const CookieName = "wishlist-cart"

// MaxCookieValue is the largest encoded cart written back. Browsers drop cookies
// past about 4 KB without telling anyone.
const MaxCookieValue = 4000

// ErrTooLarge is returned by Save when the cart no longer fits in the cookie
var ErrTooLarge = errors.New("cart too large for cookie")

// cookieLifetime keeps the cart around between visits
const cookieLifetime = 30 * 24 * time.Hour

// CookieStore persists the cart in a browser cookie, the server-rendered stand-in
// for local storage. Each save overwrites the previous value (last write wins).
type CookieStore struct {
	Name string
}

// NewCookieStore creates a store using CookieName
func NewCookieStore() *CookieStore {
	return &CookieStore{Name: CookieName}
}

// Load rehydrates the cart from the request. A missing or corrupt cookie yields an empty cart.
func (s *CookieStore) Load(r *http.Request) *Cart {
	cookie, err := r.Cookie(s.Name)
	if err != nil || cookie.Value == "" {
		return New()
	}

	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return New()
	}

	c, err := Decode(data)
	if err != nil {
		return New()
	}
	return c
}

// Save writes the cart back; an empty cart deletes the cookie. A cart whose encoding
// passes MaxCookieValue is not written and ErrTooLarge is returned, leaving the
// previous cookie in place.
func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, c *Cart) error {
	if c.IsEmpty() {
		http.SetCookie(w, security.CreateDeleteCookie(r, s.Name))
		return nil
	}

	data, err := c.Encode()
	if err != nil {
		return err
	}

	value := base64.RawURLEncoding.EncodeToString(data)
	if len(value) > MaxCookieValue {
		return fmt.Errorf("%d items, %d bytes: %w", c.Len(), len(value), ErrTooLarge)
	}
	http.SetCookie(w, security.CreateSessionCookie(r, s.Name, value, time.Now().Add(cookieLifetime)))
	return nil
}
