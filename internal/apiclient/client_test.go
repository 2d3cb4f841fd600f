package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"casamento/internal/models"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", srv.Client(), zerolog.Nop())
}

func TestGetGuest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/guests/me" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if code := r.URL.Query().Get("invitation_code"); code != "ABC123" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Maria","email":"maria@example.com","phone":"","invitationCode":"ABC123","rsvpStatusFirst":"confirmed","rsvpStatusSecond":"pending"}`))
	})

	guest, err := c.GetGuest(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("GetGuest() error = %v", err)
	}
	if guest.Name != "Maria" || guest.Status(models.EventFirst) != models.RSVPConfirmed {
		t.Errorf("GetGuest() = %+v", guest)
	}

	_, err = c.GetGuest(context.Background(), "ZZZ999")
	if !errors.Is(err, ErrGuestNotFound) {
		t.Errorf("GetGuest(unknown) error = %v, want ErrGuestNotFound", err)
	}
}

func TestUpdateGuestSendsOnlyTouchedField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/guests" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"invitationCode":"ABC123","phone":"11999990000"}` {
			t.Errorf("body = %s", body)
		}
		w.Write([]byte(`{"name":"Maria","phone":"11999990000","invitationCode":"ABC123"}`))
	})

	guest, err := c.UpdateGuest(context.Background(), models.FieldUpdate("ABC123", models.FieldPhone, "11999990000"))
	if err != nil {
		t.Fatalf("UpdateGuest() error = %v", err)
	}
	if guest.Phone != "11999990000" {
		t.Errorf("Phone = %q", guest.Phone)
	}
}

func TestListGifts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":3,"name":"Cafeteira","price":20,"image":"/static/gifts/cafeteira.jpg"},{"id":5,"name":"Ferro","price":"9.99","image":""}]`))
	})

	gifts, err := c.ListGifts(context.Background())
	if err != nil {
		t.Fatalf("ListGifts() error = %v", err)
	}
	if len(gifts) != 2 || gifts[0].Price != 2000 || gifts[1].Price != 999 {
		t.Errorf("ListGifts() = %+v", gifts)
	}
}

func TestCreatePurchase(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req models.PurchaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(req.Items) != 1 || req.Items[0].UnitPrice != 999 || req.Items[0].ID != "5" {
			t.Errorf("items = %+v", req.Items)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"pref-123"}}`))
	})

	id, err := c.CreatePurchase(context.Background(), []models.PurchaseItem{{ID: "5", Title: "Ferro", Quantity: 1, UnitPrice: 999}})
	if err != nil {
		t.Fatalf("CreatePurchase() error = %v", err)
	}
	if id != "pref-123" {
		t.Errorf("CreatePurchase() = %q", id)
	}
}

func TestServerErrorIsStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.ListGifts(context.Background())
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError || se.Body != "boom" {
		t.Errorf("ListGifts() error = %v, want StatusError 500", err)
	}
}

func TestContextCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.GetGuest(ctx, "ABC123"); !errors.Is(err, context.Canceled) {
		t.Errorf("GetGuest() error = %v, want context.Canceled", err)
	}
}
