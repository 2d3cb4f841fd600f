// Package rsvp holds the per-session state of the invitation lookup and RSVP page.
package rsvp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"casamento/internal/models"

	"github.com/rs/zerolog"
)

// TokenLength is the number of characters of an invitation code
const TokenLength = 6

const (
	// DataAckDuration is how long the "saved" acknowledgment stays up
	DataAckDuration = 1500 * time.Millisecond
	// RSVPAckDuration is how long the celebration after an answer stays up
	RSVPAckDuration = 2 * time.Second
)

// MsgTokenNotFound is shown in the Error state
const MsgTokenNotFound = "Token inválido ou não encontrado"

var (
	ErrInvalidToken  = errors.New("invitation code must have 6 characters")
	ErrWrongState    = errors.New("operation not allowed in current state")
	ErrInvalidField  = errors.New("unknown guest field")
	ErrNothingToSave = errors.New("nothing to save")
	ErrInvalidAnswer = errors.New("invalid rsvp answer")
	ErrNotPending    = errors.New("event already answered")
	ErrNameUnchanged = errors.New("name must be updated before confirming the second event")
)

// State is the top-level state of a Flow
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
)

// GuestAPI is the subset of the wedding API the flow talks to
type GuestAPI interface {
	GetGuest(ctx context.Context, code string) (*models.Guest, error)
	UpdateGuest(ctx context.Context, u models.GuestUpdate) (*models.Guest, error)
}

// Flow is the invitation lookup and RSVP state machine of one browser session:
//
//	Idle -> Loading -> Loaded
//	           \-> Error -> (Retry) -> Idle
//
// While Loaded, field saves and RSVP answers never change the top-level state.
// The guest held here only ever reflects what the API confirmed.
type Flow struct {
	mu  sync.Mutex
	api GuestAPI
	log zerolog.Logger
	now func() time.Time

	state        State
	token        string
	guest        *models.Guest
	originalName string
	staged       map[models.Field]string
	errMsg       string
	dataAckUntil time.Time
	rsvpAckUntil map[models.Event]time.Time
}

// NewFlow creates a flow in the Idle state
func NewFlow(api GuestAPI, log zerolog.Logger) *Flow {
	return &Flow{
		api:          api,
		log:          log.With().Str("component", "RSVP").Logger(),
		now:          time.Now,
		state:        StateIdle,
		staged:       make(map[models.Field]string),
		rsvpAckUntil: make(map[models.Event]time.Time),
	}
}

// SetClock replaces the time source used for acknowledgments
func (f *Flow) SetClock(now func() time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// NormalizeToken trims the entered code and checks its length
func NormalizeToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if utf8.RuneCountInString(token) != TokenLength {
		return "", ErrInvalidToken
	}
	return token, nil
}

// State returns the current top-level state
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Token returns the invitation code of the session, empty while Idle
func (f *Flow) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

// Guest returns a copy of the confirmed guest record
func (f *Flow) Guest() (models.Guest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.guest == nil {
		return models.Guest{}, false
	}
	return *f.guest, true
}

// Begin moves Idle -> Loading for a well-formed token.
// A malformed token returns ErrInvalidToken and leaves the state alone.
func (f *Flow) Begin(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.begin(token)
}

func (f *Flow) begin(token string) error {
	if f.state != StateIdle {
		return fmt.Errorf("begin from %s: %w", f.state, ErrWrongState)
	}
	token, err := NormalizeToken(token)
	if err != nil {
		return err
	}
	f.token = token
	f.state = StateLoading
	return nil
}

// Complete resolves a Loading flow with the outcome of the guest lookup
func (f *Flow) Complete(guest *models.Guest, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.complete(guest, err)
}

func (f *Flow) complete(guest *models.Guest, err error) {
	if f.state != StateLoading {
		return
	}
	if err == nil && guest == nil {
		err = errors.New("empty guest response")
	}
	if err != nil {
		f.log.Warn().Err(err).Str("token", f.token).Msg("Guest lookup failed")
		f.state = StateError
		f.errMsg = MsgTokenNotFound
		return
	}

	f.guest = guest
	if f.originalName == "" {
		f.originalName = guest.Name
	}
	f.staged = make(map[models.Field]string)
	f.state = StateLoaded
}

// Submit runs the whole lookup: Begin, fetch the guest, Complete.
// It returns ErrInvalidToken or ErrWrongState when nothing was fetched, and the
// lookup error when the flow ended in Error.
func (f *Flow) Submit(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.begin(token); err != nil {
		return err
	}
	guest, err := f.api.GetGuest(ctx, f.token)
	f.complete(guest, err)
	return err
}

// Retry goes back from Error to Idle, clearing the token and any guest data
func (f *Flow) Retry() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateError {
		return fmt.Errorf("retry from %s: %w", f.state, ErrWrongState)
	}
	f.reset()
	return nil
}

// Reset drops everything and returns to Idle from any state
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

func (f *Flow) reset() {
	f.state = StateIdle
	f.token = ""
	f.guest = nil
	f.originalName = ""
	f.errMsg = ""
	f.staged = make(map[models.Field]string)
	f.dataAckUntil = time.Time{}
	f.rsvpAckUntil = make(map[models.Event]time.Time)
}

// ErrorMessage is the text shown in the Error state
func (f *Flow) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}
