package rsvp

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrSessionNotFound is returned by stores for unknown or expired sessions
var ErrSessionNotFound = errors.New("rsvp session not found")

// SessionStore keeps flow snapshots between requests, keyed by session id
type SessionStore interface {
	Load(ctx context.Context, id string) (Snapshot, error)
	Save(ctx context.Context, id string, s Snapshot, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	snapshot  Snapshot
	expiresAt time.Time
}

// MemoryStore is an in-process SessionStore
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (m *MemoryStore) Load(ctx context.Context, id string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok || !m.now().Before(e.expiresAt) {
		return Snapshot{}, ErrSessionNotFound
	}
	return e.snapshot, nil
}

func (m *MemoryStore) Save(ctx context.Context, id string, s Snapshot, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = memoryEntry{snapshot: s, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// CleanupExpired drops expired sessions and returns how many were removed
func (m *MemoryStore) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, e := range m.sessions {
		if !now.Before(e.expiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len is the number of stored sessions, expired ones included
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sessions hands out flows for session ids. Requests for the same session are
// serialized in-process, so each session behaves as a single-threaded flow.
type Sessions struct {
	store SessionStore
	api   GuestAPI
	log   zerolog.Logger
	ttl   time.Duration

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

// NewSessions creates a session manager over store
func NewSessions(store SessionStore, api GuestAPI, log zerolog.Logger, ttl time.Duration) *Sessions {
	return &Sessions{
		store: store,
		api:   api,
		log:   log,
		ttl:   ttl,
		locks: make(map[string]*sessionLock),
	}
}

func (s *Sessions) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// With loads the flow for id (a fresh Idle flow when none is stored), runs fn and
// stores the result. The flow is saved even when fn fails, since failed actions
// still move the state machine (Loading -> Error).
func (s *Sessions) With(ctx context.Context, id string, fn func(*Flow) error) error {
	unlock := s.lock(id)
	defer unlock()

	snap, err := s.store.Load(ctx, id)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		s.log.Error().Err(err).Msg("Failed to load RSVP session")
	}

	flow := Restore(s.api, s.log, snap)
	fnErr := fn(flow)

	if err := s.store.Save(ctx, id, flow.Snapshot(), s.ttl); err != nil {
		s.log.Error().Err(err).Msg("Failed to save RSVP session")
		if fnErr == nil {
			return err
		}
	}
	return fnErr
}

// View returns the current view of a session without changing it
func (s *Sessions) View(ctx context.Context, id string, at time.Time) View {
	snap, err := s.store.Load(ctx, id)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		s.log.Error().Err(err).Msg("Failed to load RSVP session")
	}
	return Restore(s.api, s.log, snap).View(at)
}

// Forget deletes a session
func (s *Sessions) Forget(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
