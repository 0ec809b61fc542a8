package middleware

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// DefaultSessionTTL is how long a session lives without being renewed.
const DefaultSessionTTL = 24 * time.Hour

// SessionRecord is the server-side half of a session.
type SessionRecord struct {
	ID        string
	AccountID string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore persists server-side sessions.
type SessionStore interface {
	Create(ctx context.Context, accountID string) (SessionRecord, error)
	Get(ctx context.Context, id string) (SessionRecord, error)
	Delete(ctx context.Context, id string) error
}

// MemorySessionStore is an in-memory SessionStore for single-instance deployments.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]SessionRecord
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemorySessionStore{
		sessions: make(map[string]SessionRecord),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create stores a new session and returns it.
// PRE: accountID is non-empty
// POST: Session is stored with a fresh random id
func (ss *MemorySessionStore) Create(_ context.Context, accountID string) (SessionRecord, error) {
	now := ss.now()
	rec := SessionRecord{
		ID:        uuid.NewString(),
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(ss.ttl),
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[rec.ID] = rec
	return rec, nil
}

// Get retrieves a live session by id.
// PRE: id is non-empty
// POST: Expired sessions are removed and reported as not found
func (ss *MemorySessionStore) Get(_ context.Context, id string) (SessionRecord, error) {
	ss.mu.RLock()
	rec, ok := ss.sessions[id]
	ss.mu.RUnlock()
	if !ok {
		return SessionRecord{}, ErrSessionNotFound
	}
	if !ss.now().Before(rec.ExpiresAt) {
		ss.mu.Lock()
		delete(ss.sessions, id)
		ss.mu.Unlock()
		return SessionRecord{}, ErrSessionNotFound
	}
	return rec, nil
}

// Delete removes a session by id.
// POST: Session with given id is removed
func (ss *MemorySessionStore) Delete(_ context.Context, id string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, id)
	return nil
}

// Sweep removes every expired session and reports how many were removed.
func (ss *MemorySessionStore) Sweep() int {
	now := ss.now()
	ss.mu.Lock()
	defer ss.mu.Unlock()
	removed := 0
	for id, rec := range ss.sessions {
		if !now.Before(rec.ExpiresAt) {
			delete(ss.sessions, id)
			removed++
		}
	}
	return removed
}
