package rsvp

import (
	"time"

	"casamento/internal/models"

	"github.com/rs/zerolog"
)

// Snapshot is the serializable form of a Flow, kept in a SessionStore between requests
type Snapshot struct {
	State        State                      `json:"state"`
	Token        string                     `json:"token,omitempty"`
	Guest        *models.Guest              `json:"guest,omitempty"`
	OriginalName string                     `json:"originalName,omitempty"`
	Staged       map[models.Field]string    `json:"staged,omitempty"`
	Error        string                     `json:"error,omitempty"`
	DataAckUntil time.Time                  `json:"dataAckUntil,omitempty"`
	RSVPAckUntil map[models.Event]time.Time `json:"rsvpAckUntil,omitempty"`
}

// Snapshot copies the flow's state
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := Snapshot{
		State:        f.state,
		Token:        f.token,
		OriginalName: f.originalName,
		Error:        f.errMsg,
		DataAckUntil: f.dataAckUntil,
	}
	if f.guest != nil {
		g := *f.guest
		s.Guest = &g
	}
	if len(f.staged) > 0 {
		s.Staged = make(map[models.Field]string, len(f.staged))
		for k, v := range f.staged {
			s.Staged[k] = v
		}
	}
	if len(f.rsvpAckUntil) > 0 {
		s.RSVPAckUntil = make(map[models.Event]time.Time, len(f.rsvpAckUntil))
		for k, v := range f.rsvpAckUntil {
			s.RSVPAckUntil[k] = v
		}
	}
	return s
}

// Restore rebuilds a flow from a snapshot. A snapshot caught mid-lookup, or one
// claiming Loaded without a guest, comes back Idle.
func Restore(api GuestAPI, log zerolog.Logger, s Snapshot) *Flow {
	f := NewFlow(api, log)

	switch s.State {
	case StateLoaded:
		if s.Guest == nil {
			return f
		}
	case StateError:
	default:
		return f
	}

	f.state = s.State
	f.token = s.Token
	f.originalName = s.OriginalName
	f.errMsg = s.Error
	f.dataAckUntil = s.DataAckUntil
	if s.Guest != nil {
		g := *s.Guest
		f.guest = &g
	}
	for k, v := range s.Staged {
		f.staged[k] = v
	}
	for k, v := range s.RSVPAckUntil {
		f.rsvpAckUntil[k] = v
	}
	return f
}
