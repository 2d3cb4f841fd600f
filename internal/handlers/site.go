// Package handlers serves the wedding website: countdown, gallery, content pages,
// gift catalog with cart and checkout, and the RSVP flow.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"casamento/internal/cart"
	"casamento/internal/models"
	"casamento/internal/rsvp"
)

// CatalogAPI is the part of the backend the gift pages use
type CatalogAPI interface {
	ListGifts(ctx context.Context) ([]models.Gift, error)
	CreatePurchase(ctx context.Context, items []models.PurchaseItem) (string, error)
}

// SiteConfig holds the settings the pages render with
type SiteConfig struct {
	WeddingDate time.Time
	StaticPath  string

	PIXKey             string
	PIXMerchantName    string
	PIXMerchantCity    string
	PIXDiscountPercent int
	PIXPaymentWindow   time.Duration

	MercadoPagoPublicKey string
}

// Site wires the page handlers together
type Site struct {
	cfg      SiteConfig
	tmpl     *Renderer
	mw       *Middleware
	catalog  CatalogAPI
	carts    *cart.CookieStore
	sessions *rsvp.Sessions
	startup  *Startup
	log      zerolog.Logger
	now      func() time.Time
}

// NewSite creates the site handlers
func NewSite(cfg SiteConfig, tmpl *Renderer, mw *Middleware, catalog CatalogAPI, sessions *rsvp.Sessions,
	startup *Startup, log zerolog.Logger) *Site {
	return &Site{
		cfg:      cfg,
		tmpl:     tmpl,
		mw:       mw,
		catalog:  catalog,
		carts:    cart.NewCookieStore(),
		sessions: sessions,
		startup:  startup,
		log:      log,
		now:      time.Now,
	}
}

// Routes registers every page on a new mux
func (s *Site) Routes() *http.ServeMux {
	mw := s.mw
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticPath))))
	mux.HandleFunc("GET /health", s.startup.Health)

	mux.HandleFunc("GET /{$}", mw.WithSession(s.Home))
	mux.HandleFunc("GET /countdown/stream", s.CountdownStream)
	mux.HandleFunc("GET /pictures", mw.WithSession(s.Pictures))
	mux.HandleFunc("GET /historia", mw.WithSession(s.ContentPage("historia")))
	mux.HandleFunc("GET /vestimenta", mw.WithSession(s.ContentPage("vestimenta")))

	// Gifts and cart
	mux.HandleFunc("GET /gifts", mw.WithSession(s.Gifts))
	mux.HandleFunc("GET /presentes", redirectTo("/gifts"))
	mux.HandleFunc("GET /cart", mw.WithSession(s.ShowCart))
	mux.HandleFunc("POST /cart/add", mw.CSRFProtect(s.AddToCart))
	mux.HandleFunc("POST /cart/increment", mw.CSRFProtect(s.IncrementCart))
	mux.HandleFunc("POST /cart/decrement", mw.CSRFProtect(s.DecrementCart))
	mux.HandleFunc("POST /cart/remove", mw.CSRFProtect(s.RemoveFromCart))
	mux.HandleFunc("POST /cart/quantity", mw.CSRFProtect(s.SetCartQuantity))

	// Checkout
	mux.HandleFunc("GET /checkout", mw.WithSession(s.Checkout))
	mux.HandleFunc("GET /checkout/pix", mw.WithSession(s.PIXPayment))
	mux.HandleFunc("GET /checkout/pix/qr.png", mw.WithSession(s.PIXQRCode))
	mux.HandleFunc("POST /checkout/pix/paid", mw.CSRFProtect(s.PIXPaid))
	mux.HandleFunc("GET /checkout/other", mw.WithSession(s.OtherPayment))
	mux.HandleFunc("GET /success", mw.WithSession(s.Success))
	mux.HandleFunc("GET /failure", mw.WithSession(s.Failure))

	// RSVP
	mux.HandleFunc("GET /rsvp", mw.WithSession(s.ShowRSVP))
	mux.HandleFunc("GET /token", redirectTo("/rsvp"))
	mux.HandleFunc("POST /rsvp/token", mw.RateLimit(mw.CSRFProtect(s.SubmitToken)))
	mux.HandleFunc("POST /rsvp/retry", mw.CSRFProtect(s.RetryToken))
	mux.HandleFunc("POST /rsvp/reset", mw.CSRFProtect(s.ResetRSVP))
	mux.HandleFunc("POST /rsvp/field", mw.CSRFProtect(s.SaveField))
	mux.HandleFunc("POST /rsvp/respond", mw.CSRFProtect(s.Respond))

	mux.HandleFunc("/", mw.WithSession(s.NotFound))

	return mux
}

func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	}
}

// page fills the shared view fields
func (s *Site) page(r *http.Request, title, active string) PageData {
	return PageData{
		Title:     title,
		Active:    active,
		CSRFToken: s.mw.CSRFToken(r),
		CartCount: s.carts.Load(r).TotalItems(),
	}
}

// NotFound renders the generic not-found page
func (s *Site) NotFound(w http.ResponseWriter, r *http.Request) {
	s.tmpl.Render(w, http.StatusNotFound, "notfound", struct{ PageData }{s.page(r, "Página não encontrada", "")})
}
