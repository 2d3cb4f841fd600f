package rsvp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"casamento/internal/models"
)

// Stage records a local edit of a contact field. Nothing is sent until Save.
func (f *Flow) Stage(field models.Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateLoaded {
		return fmt.Errorf("stage %s from %s: %w", field, f.state, ErrWrongState)
	}
	if !field.Valid() {
		return ErrInvalidField
	}
	f.staged[field] = value
	return nil
}

// Value returns what the field input shows: the staged edit, or the confirmed value
func (f *Flow) Value(field models.Field) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value(field)
}

func (f *Flow) value(field models.Field) string {
	if v, ok := f.staged[field]; ok {
		return v
	}
	if f.guest == nil {
		return ""
	}
	return f.guest.Field(field)
}

// CanSave reports whether the save control for field should be offered: the
// staged value is non-empty and differs from the confirmed one.
func (f *Flow) CanSave(field models.Field) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canSave(field)
}

func (f *Flow) canSave(field models.Field) bool {
	if f.state != StateLoaded || !field.Valid() {
		return false
	}
	v, ok := f.staged[field]
	if !ok || strings.TrimSpace(v) == "" {
		return false
	}
	return v != f.guest.Field(field)
}

// Save sends the staged value of field. On success the confirmed record is
// replaced and refetched and the data acknowledgment is raised. On failure the
// staged value stays for another attempt.
func (f *Flow) Save(ctx context.Context, field models.Field) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateLoaded {
		return fmt.Errorf("save %s from %s: %w", field, f.state, ErrWrongState)
	}
	if !field.Valid() {
		return ErrInvalidField
	}
	if !f.canSave(field) {
		return ErrNothingToSave
	}

	update := models.FieldUpdate(f.token, field, f.staged[field])
	updated, err := f.api.UpdateGuest(ctx, update)
	if err != nil {
		f.log.Error().Err(err).Str("field", string(field)).Msg("Failed to update guest")
		return fmt.Errorf("failed to save %s: %w", field, err)
	}

	f.confirm(ctx, update, updated)
	f.dataAckUntil = f.now().Add(DataAckDuration)
	return nil
}

// NameChanged reports whether the confirmed name differs from the one loaded
// when the session started.
func (f *Flow) NameChanged() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nameChanged()
}

func (f *Flow) nameChanged() bool {
	if f.guest == nil || strings.TrimSpace(f.guest.Name) == "" {
		return false
	}
	return f.guest.Name != f.originalName
}

// CanRespond reports whether the guest may answer status for event now
func (f *Flow) CanRespond(event models.Event, status models.RSVPStatus) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checkRespond(event, status) == nil
}

func (f *Flow) checkRespond(event models.Event, status models.RSVPStatus) error {
	if f.state != StateLoaded {
		return fmt.Errorf("respond from %s: %w", f.state, ErrWrongState)
	}
	if !event.Valid() || (status != models.RSVPConfirmed && status != models.RSVPDeclined) {
		return ErrInvalidAnswer
	}
	if f.guest.Status(event) != models.RSVPPending {
		return ErrNotPending
	}
	if event == models.EventSecond && status == models.RSVPConfirmed && !f.nameChanged() {
		return ErrNameUnchanged
	}
	return nil
}

// Respond answers an event. The record is refetched rather than patched locally,
// and a celebration acknowledgment is raised for that event.
func (f *Flow) Respond(ctx context.Context, event models.Event, status models.RSVPStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkRespond(event, status); err != nil {
		return err
	}

	update := models.StatusUpdate(f.token, event, status)
	updated, err := f.api.UpdateGuest(ctx, update)
	if err != nil {
		f.log.Error().Err(err).Str("event", string(event)).Str("status", string(status)).Msg("Failed to update RSVP")
		return fmt.Errorf("failed to answer %s event: %w", event, err)
	}

	f.confirm(ctx, update, updated)
	f.rsvpAckUntil[event] = f.now().Add(RSVPAckDuration)
	return nil
}

// confirm installs the server's view of the guest after a successful update.
// The refetched record wins; if the refetch fails the update response is used,
// and without one the acknowledged update is applied to the last confirmed record.
func (f *Flow) confirm(ctx context.Context, update models.GuestUpdate, updated *models.Guest) {
	fresh, err := f.api.GetGuest(ctx, f.token)
	switch {
	case err == nil && fresh != nil:
		f.guest = fresh
	case updated != nil:
		f.log.Warn().Err(err).Msg("Guest refetch failed, using update response")
		f.guest = updated
	default:
		f.log.Warn().Err(err).Msg("Guest refetch failed")
		g := *f.guest
		update.Apply(&g)
		f.guest = &g
	}
}

// DataAcknowledged reports whether the "saved" acknowledgment is up at instant at
func (f *Flow) DataAcknowledged(at time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return at.Before(f.dataAckUntil)
}

// RSVPAcknowledged reports whether event's celebration is up at instant at
func (f *Flow) RSVPAcknowledged(event models.Event, at time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return at.Before(f.rsvpAckUntil[event])
}
