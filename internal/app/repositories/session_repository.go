package repositories

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/qpidash/internal/app/models"
	"github.com/yigit/qpidash/internal/pkg/apperrors"
)

// SessionRepository keeps per-user sessions in memory. Callers only ever
// see clones, so a session's overlay cannot leak into another.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*models.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionRepository creates a repository whose sessions expire after ttl
// without activity. A zero ttl disables expiry.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[uuid.UUID]*models.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetClock replaces the time source
func (r *SessionRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *SessionRepository) expired(s *models.Session, now time.Time) bool {
	return r.ttl > 0 && now.Sub(s.LastSeenAt) > r.ttl
}

// purgeLocked drops expired sessions; the write lock must be held
func (r *SessionRepository) purgeLocked(now time.Time) int {
	removed := 0
	for id, s := range r.sessions {
		if r.expired(s, now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Create stores a new session and returns a copy of it. The curriculum and
// component targets both start at target.
func (r *SessionRepository) Create(components []models.Component, target float64) *models.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.purgeLocked(now)

	s := &models.Session{
		ID:              uuid.New(),
		Grades:          make(map[int64]float64),
		Components:      models.CloneComponents(components),
		Target:          target,
		ComponentTarget: target,
		CreatedAt:       now,
		LastSeenAt:      now,
	}
	r.sessions[s.ID] = s
	return s.Clone()
}

// Get returns a copy of the session and refreshes its activity time
func (r *SessionRepository) Get(id uuid.UUID) (*models.Session, error) {
	return r.Update(id, func(*models.Session) error { return nil })
}

// Update runs fn on the stored session under the write lock and returns a
// copy of the result. Changes are discarded when fn fails.
func (r *SessionRepository) Update(id uuid.UUID, fn func(*models.Session) error) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	s, ok := r.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	if r.expired(s, now) {
		delete(r.sessions, id)
		return nil, apperrors.ErrSessionExpired
	}

	draft := s.Clone()
	if err := fn(draft); err != nil {
		return nil, err
	}
	draft.LastSeenAt = now
	r.sessions[id] = draft
	return draft.Clone(), nil
}

// Delete removes a session
func (r *SessionRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return apperrors.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Purge drops every expired session and reports how many were removed
func (r *SessionRepository) Purge() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.purgeLocked(r.now())
}

// Count returns the number of live sessions
func (r *SessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
