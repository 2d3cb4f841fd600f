package api

import (
	"encoding/json"
	"net/http"

	"casamento/internal/models"
)

// GetGuest handles GET /guests/me?invitation_code=<code>
func (s *Server) GetGuest(w http.ResponseWriter, r *http.Request) {
	guest, err := s.guests.GetByCode(r.Context(), r.URL.Query().Get("invitation_code"))
	if err != nil {
		s.respondWithServiceError(w, "Error loading guest", err)
		return
	}
	writeJSON(w, http.StatusOK, guest)
}

// UpdateGuest handles PUT /guests with a partial body keyed by invitationCode
func (s *Server) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	var u models.GuestUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		s.respondWithError(w, http.StatusBadRequest, ErrInvalidBody, "", nil)
		return
	}

	guest, err := s.guests.Update(r.Context(), u)
	if err != nil {
		s.respondWithServiceError(w, "Error updating guest", err)
		return
	}
	writeJSON(w, http.StatusOK, guest)
}

type inviteRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// InviteGuest creates a guest with a generated invitation code
func (s *Server) InviteGuest(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, ErrInvalidBody, "", nil)
		return
	}

	guest, err := s.guests.Invite(r.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		s.respondWithServiceError(w, "Error inviting guest", err)
		return
	}
	writeJSON(w, http.StatusCreated, guest)
}

// ListGuests returns every guest
func (s *Server) ListGuests(w http.ResponseWriter, r *http.Request) {
	guests, err := s.guests.List(r.Context())
	if err != nil {
		s.respondWithServiceError(w, "Error listing guests", err)
		return
	}
	if guests == nil {
		guests = []models.Guest{}
	}
	writeJSON(w, http.StatusOK, guests)
}

type summaryResponse struct {
	Event     models.Event `json:"event"`
	Label     string       `json:"label"`
	Pending   int          `json:"pending"`
	Confirmed int          `json:"confirmed"`
	Declined  int          `json:"declined"`
}

// Summary tallies RSVP answers per event
func (s *Server) Summary(w http.ResponseWriter, r *http.Request) {
	counts, err := s.guests.Summary(r.Context())
	if err != nil {
		s.respondWithServiceError(w, "Error building summary", err)
		return
	}

	out := make([]summaryResponse, 0, len(models.Events))
	for _, e := range models.Events {
		c := counts[e]
		out = append(out, summaryResponse{
			Event:     e,
			Label:     e.Label(),
			Pending:   c[models.RSVPPending] + c[""],
			Confirmed: c[models.RSVPConfirmed],
			Declined:  c[models.RSVPDeclined],
		})
	}
	writeJSON(w, http.StatusOK, out)
}
