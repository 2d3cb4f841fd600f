package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"casamento/internal/service"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges the admin password for a bearer token
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, ErrInvalidBody, "", nil)
		return
	}

	token, err := s.auth.Login(req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		s.log.Warn().Str("ip", r.RemoteAddr).Msg("failed admin login")
		s.respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	case errors.Is(err, service.ErrAdminDisabled):
		s.respondWithError(w, http.StatusForbidden, "admin access not configured", "", nil)
		return
	case err != nil:
		s.respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error signing token", err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// RequireAdmin rejects requests without a valid bearer token
func (s *Server) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			s.respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}
		if err := s.auth.ValidateToken(raw); err != nil {
			s.log.Debug().Err(err).Msg("rejected admin token")
			s.respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}
		next(w, r)
	}
}
