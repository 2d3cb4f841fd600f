package models

import "time"

// RSVPStatus represents the attendance confirmation status for one event
type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPConfirmed RSVPStatus = "confirmed"
	RSVPDeclined  RSVPStatus = "declined"
)

// Valid reports whether s is one of the known statuses
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPPending, RSVPConfirmed, RSVPDeclined:
		return true
	}
	return false
}

// Label returns the status as shown to guests
func (s RSVPStatus) Label() string {
	switch s {
	case RSVPPending:
		return "Pendente"
	case RSVPConfirmed:
		return "Confirmado"
	case RSVPDeclined:
		return "Recusado"
	default:
		return "Unknown"
	}
}

// Event identifies one of the two celebrations a guest can answer for
type Event string

const (
	EventFirst  Event = "first"
	EventSecond Event = "second"
)

// Events lists the events in display order
var Events = []Event{EventFirst, EventSecond}

// Valid reports whether e is a known event
func (e Event) Valid() bool {
	return e == EventFirst || e == EventSecond
}

// Label returns the event heading shown on the RSVP page
func (e Event) Label() string {
	if e == EventSecond {
		return "Segunda Confirmação"
	}
	return "Primeira Confirmação"
}

// Guest represents a wedding guest as exposed by the guest API
type Guest struct {
	ID               int64      `json:"-"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	InvitationCode   string     `json:"invitationCode"`
	RSVPStatusFirst  RSVPStatus `json:"rsvpStatusFirst,omitempty"`
	RSVPStatusSecond RSVPStatus `json:"rsvpStatusSecond,omitempty"`
	CreatedAt        time.Time  `json:"-"`
	UpdatedAt        time.Time  `json:"-"`
}

// Status returns the guest's answer for an event. A missing status reads as pending.
func (g *Guest) Status(e Event) RSVPStatus {
	s := g.RSVPStatusFirst
	if e == EventSecond {
		s = g.RSVPStatusSecond
	}
	if s == "" {
		return RSVPPending
	}
	return s
}

// SetStatus records the guest's answer for an event
func (g *Guest) SetStatus(e Event, s RSVPStatus) {
	if e == EventSecond {
		g.RSVPStatusSecond = s
		return
	}
	g.RSVPStatusFirst = s
}

// Field returns the value of an editable contact field
func (g *Guest) Field(f Field) string {
	switch f {
	case FieldName:
		return g.Name
	case FieldEmail:
		return g.Email
	case FieldPhone:
		return g.Phone
	}
	return ""
}

// Field names an editable contact field of a guest
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
)

// Fields lists the editable fields in display order
var Fields = []Field{FieldName, FieldEmail, FieldPhone}

// Valid reports whether f is an editable field
func (f Field) Valid() bool {
	return f == FieldName || f == FieldEmail || f == FieldPhone
}

// GuestUpdate is the partial update body of PUT /guests. Nil fields are left untouched.
type GuestUpdate struct {
	InvitationCode   string      `json:"invitationCode"`
	Name             *string     `json:"name,omitempty"`
	Email            *string     `json:"email,omitempty"`
	Phone            *string     `json:"phone,omitempty"`
	RSVPStatusFirst  *RSVPStatus `json:"rsvpStatusFirst,omitempty"`
	RSVPStatusSecond *RSVPStatus `json:"rsvpStatusSecond,omitempty"`
}

// FieldUpdate builds an update touching a single contact field
func FieldUpdate(code string, f Field, value string) GuestUpdate {
	u := GuestUpdate{InvitationCode: code}
	switch f {
	case FieldName:
		u.Name = &value
	case FieldEmail:
		u.Email = &value
	case FieldPhone:
		u.Phone = &value
	}
	return u
}

// StatusUpdate builds an update touching a single event status
func StatusUpdate(code string, e Event, s RSVPStatus) GuestUpdate {
	u := GuestUpdate{InvitationCode: code}
	if e == EventSecond {
		u.RSVPStatusSecond = &s
	} else {
		u.RSVPStatusFirst = &s
	}
	return u
}

// Apply copies the non-nil fields of u onto g
func (u GuestUpdate) Apply(g *Guest) {
	if u.Name != nil {
		g.Name = *u.Name
	}
	if u.Email != nil {
		g.Email = *u.Email
	}
	if u.Phone != nil {
		g.Phone = *u.Phone
	}
	if u.RSVPStatusFirst != nil {
		g.RSVPStatusFirst = *u.RSVPStatusFirst
	}
	if u.RSVPStatusSecond != nil {
		g.RSVPStatusSecond = *u.RSVPStatusSecond
	}
}

// IsEmpty reports whether the update changes nothing
func (u GuestUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil &&
		u.RSVPStatusFirst == nil && u.RSVPStatusSecond == nil
}
