package cart

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"casamento/internal/models"
)

var (
	cafeteira = models.Gift{ID: 3, Name: "Cafeteira", Price: models.MoneyFromFloat(20.00)}
	ferro     = models.Gift{ID: 5, Name: "Ferro de passar", Price: models.MoneyFromFloat(9.99)}
)

func TestCartTotals(t *testing.T) {
	c := New()
	c.Add(cafeteira)
	c.Add(cafeteira)
	c.Add(ferro)

	if got := c.TotalPrice(); got != 4999 {
		t.Errorf("TotalPrice() = %d, want 4999", got)
	}
	if got := c.TotalPrice().BRL(); got != "R$ 49,99" {
		t.Errorf("TotalPrice().BRL() = %q", got)
	}
	if got := c.TotalItems(); got != 3 {
		t.Errorf("TotalItems() = %d, want 3", got)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCartMutations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Cart)
		want   map[int64]int
	}{
		{
			name:   "decrement to zero removes",
			mutate: func(c *Cart) { c.Decrement(3) },
			want:   map[int64]int{5: 1},
		},
		{
			name:   "set quantity",
			mutate: func(c *Cart) { c.SetQuantity(5, 4) },
			want:   map[int64]int{3: 1, 5: 4},
		},
		{
			name:   "set negative quantity removes",
			mutate: func(c *Cart) { c.SetQuantity(5, -2) },
			want:   map[int64]int{3: 1},
		},
		{
			name:   "increment",
			mutate: func(c *Cart) { c.Increment(3) },
			want:   map[int64]int{3: 2, 5: 1},
		},
		{
			name:   "remove",
			mutate: func(c *Cart) { c.Remove(3) },
			want:   map[int64]int{5: 1},
		},
		{
			name:   "unknown id is ignored",
			mutate: func(c *Cart) { c.Remove(99); c.Increment(99); c.Decrement(99) },
			want:   map[int64]int{3: 1, 5: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.Add(cafeteira)
			c.Add(ferro)

			tt.mutate(c)

			if c.Len() != len(tt.want) {
				t.Fatalf("Len() = %d, want %d (%+v)", c.Len(), len(tt.want), c.Items())
			}
			for id, qty := range tt.want {
				if got := c.Quantity(id); got != qty {
					t.Errorf("Quantity(%d) = %d, want %d", id, got, qty)
				}
			}
		})
	}
}

func TestDecrementRemovesItem(t *testing.T) {
	c := New()
	c.Add(cafeteira)

	c.Decrement(3)

	if c.Contains(3) {
		t.Error("cart still contains id 3 after decrementing from 1")
	}
	if !c.IsEmpty() {
		t.Errorf("cart not empty: %+v", c.Items())
	}
}

func TestItemsKeepInsertionOrder(t *testing.T) {
	c := New()
	c.Add(ferro)
	c.Add(cafeteira)
	c.Add(ferro)

	items := c.Items()
	if items[0].ID != 5 || items[1].ID != 3 {
		t.Errorf("Items() order = %d,%d, want 5,3", items[0].ID, items[1].ID)
	}

	items[0].Quantity = 100
	if c.Quantity(5) != 2 {
		t.Error("Items() exposed internal storage")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := New()
	c.Add(cafeteira)
	c.Add(cafeteira)
	c.Add(ferro)

	data, err := c.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	for _, it := range c.Items() {
		if got.Quantity(it.ID) != it.Quantity {
			t.Errorf("id %d quantity = %d, want %d", it.ID, got.Quantity(it.ID), it.Quantity)
		}
	}
	if got.Len() != c.Len() || got.TotalPrice() != c.TotalPrice() {
		t.Errorf("round trip changed cart: %+v", got.Items())
	}
}

func TestDecodeRepairsInvariants(t *testing.T) {
	data := []byte(`[
		{"id":3,"name":"Cafeteira","price":20,"quantity":1},
		{"id":5,"name":"Ferro","price":9.99,"quantity":0},
		{"id":3,"name":"Cafeteira","price":20,"quantity":2}
	]`)

	c, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if c.Contains(5) {
		t.Error("zero-quantity entry kept")
	}
	if c.Quantity(3) != 3 {
		t.Errorf("Quantity(3) = %d, want merged 3", c.Quantity(3))
	}
}

func TestEncodeEmpty(t *testing.T) {
	data, err := New().Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Encode() = %s, want []", data)
	}
}

func TestCookieStore(t *testing.T) {
	store := NewCookieStore()

	c := New()
	c.Add(cafeteira)
	c.Add(ferro)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/cart/add", nil)
	if err := store.Save(w, r, c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("cookies = %+v, want one %s cookie", cookies, CookieName)
	}

	next := httptest.NewRequest(http.MethodGet, "/cart", nil)
	next.AddCookie(cookies[0])

	loaded := store.Load(next)
	if loaded.TotalItems() != 2 || loaded.TotalPrice() != 2999 {
		t.Errorf("Load() = %+v", loaded.Items())
	}
}

func TestCookieStoreCorruptCookie(t *testing.T) {
	store := NewCookieStore()

	for _, value := range []string{"not base64!", "bm90IGpzb24"} {
		r := httptest.NewRequest(http.MethodGet, "/cart", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: value})

		if c := store.Load(r); !c.IsEmpty() {
			t.Errorf("Load(%q) = %+v, want empty cart", value, c.Items())
		}
	}
}

func TestCookieStoreEmptyCartDeletesCookie(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/cart/remove", nil)

	if err := NewCookieStore().Save(w, r, New()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected a deletion cookie, got %+v", cookies)
	}
}

func TestReprice(t *testing.T) {
	c := New()
	c.Add(cafeteira)
	c.Add(cafeteira)
	c.Add(ferro)

	if c.Reprice([]models.Gift{cafeteira, ferro}) {
		t.Errorf("Reprice() reported a change for an up to date cart")
	}

	cheaper := cafeteira
	cheaper.Price = models.MoneyFromFloat(15.00)
	cheaper.Name = "Cafeteira Italiana"
	if !c.Reprice([]models.Gift{cheaper}) {
		t.Fatal("Reprice() reported no change")
	}

	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("items = %+v, want only the listed gift", items)
	}
	if items[0].Name != "Cafeteira Italiana" || items[0].Price != cheaper.Price || items[0].Quantity != 2 {
		t.Errorf("item = %+v", items[0])
	}
	if c.TotalPrice() != models.MoneyFromFloat(30.00) {
		t.Errorf("TotalPrice() = %v, want 30.00", c.TotalPrice())
	}
}

func TestCookieStoreTooLarge(t *testing.T) {
	c := New()
	for i := 1; i <= 100; i++ {
		c.Add(models.Gift{ID: int64(i), Name: fmt.Sprintf("Presente com um nome bem comprido %03d", i), Price: 1000})
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/cart/add", nil)

	err := NewCookieStore().Save(w, r, c)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Save() error = %v, want ErrTooLarge", err)
	}
	if cookies := w.Result().Cookies(); len(cookies) != 0 {
		t.Errorf("oversized cart wrote cookies %+v", cookies)
	}
}
