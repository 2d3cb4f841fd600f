package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"casamento/internal/models"
)

// ListGifts handles GET /gifts
func (s *Server) ListGifts(w http.ResponseWriter, r *http.Request) {
	gifts, err := s.gifts.List(r.Context())
	if err != nil {
		s.respondWithServiceError(w, "Error listing gifts", err)
		return
	}
	writeJSON(w, http.StatusOK, gifts)
}

// CreateGift adds a catalog entry
func (s *Server) CreateGift(w http.ResponseWriter, r *http.Request) {
	var g models.Gift
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		s.respondWithError(w, http.StatusBadRequest, ErrInvalidBody, "", nil)
		return
	}
	g.ID = 0

	if err := s.gifts.Create(r.Context(), &g); err != nil {
		s.respondWithServiceError(w, "Error creating gift", err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// DeleteGift removes a catalog entry
func (s *Server) DeleteGift(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "invalid gift id", "", nil)
		return
	}
	if err := s.gifts.Delete(r.Context(), id); err != nil {
		s.respondWithServiceError(w, "Error deleting gift", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreatePurchase handles POST /purchases and answers with the preference id
func (s *Server) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req models.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, ErrInvalidBody, "", nil)
		return
	}

	p, err := s.purchases.Create(r.Context(), req)
	if err != nil {
		s.respondWithServiceError(w, "Error creating purchase", err)
		return
	}

	var resp models.PurchaseResponse
	resp.Data.ID = p.PreferenceID
	writeJSON(w, http.StatusCreated, resp)
}

type purchaseView struct {
	PreferenceID string                `json:"preferenceId"`
	Items        []models.PurchaseItem `json:"items"`
	Total        models.Money          `json:"total"`
	CreatedAt    time.Time             `json:"createdAt"`
}

// ListPurchases returns every recorded purchase, newest first
func (s *Server) ListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := s.purchases.List(r.Context())
	if err != nil {
		s.respondWithServiceError(w, "Error listing purchases", err)
		return
	}

	out := make([]purchaseView, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, purchaseView{
			PreferenceID: p.PreferenceID,
			Items:        p.Items,
			Total:        p.Total,
			CreatedAt:    p.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Export streams a JSON backup of the database
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("casamento_backup_%s.json", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := s.backup.ExportToWriter(r.Context(), w); err != nil {
		s.log.Error().Err(err).Msg("Error exporting database")
	}
}
