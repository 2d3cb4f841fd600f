package handlers

import (
	"errors"
	"net/http"

	"casamento/internal/models"
	"casamento/internal/rsvp"
)

// notices are short messages passed back to the RSVP page through the redirect
var notices = map[string]string{
	"token":  "O código do convite deve ter 6 caracteres.",
	"name":   "Atualize seu nome completo antes de confirmar.",
	"answer": "Não foi possível registrar sua resposta. Tente novamente.",
	"save":   "Não foi possível salvar seus dados. Tente novamente.",
}

// ShowRSVP renders the RSVP page for the visitor's session
func (s *Site) ShowRSVP(w http.ResponseWriter, r *http.Request) {
	view := s.sessions.View(r.Context(), GetSessionID(r.Context()), s.now())
	data := RSVPViewData{
		PageData:    s.page(r, "Confirmar Presença", "rsvp"),
		View:        view,
		TokenLength: rsvp.TokenLength,
		Notice:      notices[r.URL.Query().Get("aviso")],
	}
	s.tmpl.Render(w, http.StatusOK, "rsvp", data)
}

// SubmitToken looks up the guest for the entered invitation code
func (s *Site) SubmitToken(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	err := s.withFlow(r, func(f *rsvp.Flow) error {
		return f.Submit(r.Context(), token)
	})
	switch {
	case errors.Is(err, rsvp.ErrInvalidToken):
		s.backToRSVP(w, r, "token")
		return
	case err != nil:
		// Lookup failures leave the flow in Error with its own message
		s.log.Info().Err(err).Msg("Invitation code lookup failed")
	}
	s.backToRSVP(w, r, "")
}

// RetryToken leaves the Error state
func (s *Site) RetryToken(w http.ResponseWriter, r *http.Request) {
	if err := s.withFlow(r, func(f *rsvp.Flow) error { return f.Retry() }); err != nil {
		s.log.Debug().Err(err).Msg("RSVP retry ignored")
	}
	s.backToRSVP(w, r, "")
}

// ResetRSVP starts over with another invitation code
func (s *Site) ResetRSVP(w http.ResponseWriter, r *http.Request) {
	if err := s.withFlow(r, func(f *rsvp.Flow) error {
		f.Reset()
		return nil
	}); err != nil {
		s.log.Error().Err(err).Msg("Error resetting RSVP session")
	}
	s.backToRSVP(w, r, "")
}

// SaveField stages and saves one contact field
func (s *Site) SaveField(w http.ResponseWriter, r *http.Request) {
	field := models.Field(r.FormValue("field"))
	value := r.FormValue("value")
	if !field.Valid() {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	err := s.withFlow(r, func(f *rsvp.Flow) error {
		if err := f.Stage(field, value); err != nil {
			return err
		}
		return f.Save(r.Context(), field)
	})
	switch {
	case err == nil, errors.Is(err, rsvp.ErrNothingToSave), errors.Is(err, rsvp.ErrWrongState):
		s.backToRSVP(w, r, "")
	default:
		s.log.Error().Err(err).Str("field", string(field)).Msg("Error saving guest field")
		s.backToRSVP(w, r, "save")
	}
}

// Respond records a confirmation or decline for one event
func (s *Site) Respond(w http.ResponseWriter, r *http.Request) {
	event := models.Event(r.FormValue("event"))
	status := models.RSVPStatus(r.FormValue("status"))

	err := s.withFlow(r, func(f *rsvp.Flow) error {
		return f.Respond(r.Context(), event, status)
	})
	switch {
	case err == nil, errors.Is(err, rsvp.ErrNotPending), errors.Is(err, rsvp.ErrWrongState):
		s.backToRSVP(w, r, "")
	case errors.Is(err, rsvp.ErrInvalidAnswer):
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
	case errors.Is(err, rsvp.ErrNameUnchanged):
		s.backToRSVP(w, r, "name")
	default:
		s.log.Error().Err(err).Str("event", string(event)).Msg("Error answering RSVP")
		s.backToRSVP(w, r, "answer")
	}
}

func (s *Site) withFlow(r *http.Request, fn func(*rsvp.Flow) error) error {
	return s.sessions.With(r.Context(), GetSessionID(r.Context()), func(f *rsvp.Flow) error {
		f.SetClock(s.now)
		return fn(f)
	})
}

func (s *Site) backToRSVP(w http.ResponseWriter, r *http.Request, notice string) {
	target := "/rsvp"
	if notice != "" {
		target += "?aviso=" + notice
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
