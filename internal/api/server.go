// Package api serves the guest, gift and purchase endpoints the wedding site consumes,
// plus a token-protected admin surface for managing invitations.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"casamento/internal/service"
	"casamento/internal/validation"
)

// Server holds the API dependencies
type Server struct {
	guests    *service.GuestService
	gifts     *service.GiftService
	purchases *service.PurchaseService
	auth      *service.AuthService
	backup    *service.BackupService
	log       zerolog.Logger
}

// NewServer creates the API server
func NewServer(guests *service.GuestService, gifts *service.GiftService, purchases *service.PurchaseService,
	auth *service.AuthService, backup *service.BackupService, log zerolog.Logger) *Server {
	return &Server{
		guests:    guests,
		gifts:     gifts,
		purchases: purchases,
		auth:      auth,
		backup:    backup,
		log:       log,
	}
}

// Routes registers every endpoint on a new mux
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.Health)

	// Consumed by the site
	mux.HandleFunc("GET /guests/me", s.GetGuest)
	mux.HandleFunc("PUT /guests", s.UpdateGuest)
	mux.HandleFunc("GET /gifts", s.ListGifts)
	mux.HandleFunc("POST /purchases", s.CreatePurchase)

	// Admin
	mux.HandleFunc("POST /admin/login", s.Login)
	mux.HandleFunc("GET /admin/guests", s.RequireAdmin(s.ListGuests))
	mux.HandleFunc("POST /admin/guests", s.RequireAdmin(s.InviteGuest))
	mux.HandleFunc("GET /admin/summary", s.RequireAdmin(s.Summary))
	mux.HandleFunc("POST /admin/gifts", s.RequireAdmin(s.CreateGift))
	mux.HandleFunc("DELETE /admin/gifts/{id}", s.RequireAdmin(s.DeleteGift))
	mux.HandleFunc("GET /admin/purchases", s.RequireAdmin(s.ListPurchases))
	mux.HandleFunc("GET /admin/export", s.RequireAdmin(s.Export))

	return mux
}

// Health reports liveness
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondWithError writes a JSON error and logs err when present
func (s *Server) respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		s.log.Error().Err(err).Int("status", status).Msg(logMsg)
	}
	writeJSON(w, status, errorBody{Error: userMsg})
}

// respondWithServiceError maps service sentinels and validation failures to statuses
func (s *Server) respondWithServiceError(w http.ResponseWriter, logMsg string, err error) {
	var ve validation.ValidationError
	switch {
	case errors.As(err, &ve):
		s.respondWithError(w, http.StatusBadRequest, ve.Error(), "", nil)
	case errors.Is(err, service.ErrGuestNotFound):
		s.respondWithError(w, http.StatusNotFound, ErrGuestNotFound, "", nil)
	case errors.Is(err, service.ErrGiftNotFound):
		s.respondWithError(w, http.StatusNotFound, ErrGiftNotFound, "", nil)
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrEmptyUpdate),
		errors.Is(err, service.ErrInvalidPurchase):
		s.respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	default:
		s.respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}

const (
	ErrGuestNotFound       = "guest not found"
	ErrGiftNotFound        = "gift not found"
	ErrInvalidBody         = "invalid request body"
	ErrUnauthorized        = "unauthorized"
	ErrInternalServerError = "internal server error"
)
