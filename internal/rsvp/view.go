package rsvp

import (
	"errors"
	"time"

	"casamento/internal/models"
)

var fieldLabels = map[models.Field]string{
	models.FieldName:  "Nome",
	models.FieldEmail: "E-mail",
	models.FieldPhone: "Telefone",
}

// FieldView is one editable contact input. Value is the staged text when there is
// one; Confirmed is what the backend holds.
type FieldView struct {
	Field     models.Field
	Label     string
	Value     string
	Confirmed string
	CanSave   bool
}

// EventView is the RSVP card of one event
type EventView struct {
	Event        models.Event
	Label        string
	Status       models.RSVPStatus
	StatusLabel  string
	Pending      bool
	CanConfirm   bool
	CanDecline   bool
	NeedsName    bool
	Acknowledged bool
}

// View is a consistent copy of everything the RSVP page renders
type View struct {
	State       State
	Token       string
	Error       string
	Guest       models.Guest
	Fields      []FieldView
	Events      []EventView
	Saved       bool
	NameChanged bool
}

// Loaded is a template helper
func (v View) Loaded() bool { return v.State == StateLoaded }

// View captures the flow at instant at for rendering
func (f *Flow) View(at time.Time) View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{
		State: f.state,
		Token: f.token,
		Error: f.errMsg,
	}
	if f.state != StateLoaded {
		return v
	}

	v.Guest = *f.guest
	v.Saved = at.Before(f.dataAckUntil)
	v.NameChanged = f.nameChanged()

	for _, field := range models.Fields {
		v.Fields = append(v.Fields, FieldView{
			Field:     field,
			Label:     fieldLabels[field],
			Value:     f.value(field),
			Confirmed: f.guest.Field(field),
			CanSave:   f.canSave(field),
		})
	}

	for _, event := range models.Events {
		status := f.guest.Status(event)
		v.Events = append(v.Events, EventView{
			Event:        event,
			Label:        event.Label(),
			Status:       status,
			StatusLabel:  status.Label(),
			Pending:      status == models.RSVPPending,
			CanConfirm:   f.checkRespond(event, models.RSVPConfirmed) == nil,
			CanDecline:   f.checkRespond(event, models.RSVPDeclined) == nil,
			NeedsName:    errors.Is(f.checkRespond(event, models.RSVPConfirmed), ErrNameUnchanged),
			Acknowledged: at.Before(f.rsvpAckUntil[event]),
		})
	}
	return v
}
