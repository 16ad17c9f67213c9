package planner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultIdleTTL is how long an untouched session is kept
const DefaultIdleTTL = 2 * time.Hour

// Registry holds the in-memory sessions served by the HTTP API.
// Nothing is persisted: sessions vanish on restart or after IdleTTL.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	policy   InvalidationPolicy
	idleTTL  time.Duration
	log      *zap.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(policy InvalidationPolicy, idleTTL time.Duration, log *zap.Logger) *Registry {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		policy:   policy,
		idleTTL:  idleTTL,
		log:      log,
	}
}

// Create starts a new session
func (r *Registry) Create() *Session {
	s := NewSession(r.policy)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session with id
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes the session with id
func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle since before now-IdleTTL and returns how many were removed
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if s.LastActive().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Start runs the sweep loop until ctx is cancelled
func (r *Registry) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := r.Sweep(now); removed > 0 {
				r.log.Info("expired_idle_sessions",
					zap.Int("removed", removed),
					zap.Int("remaining", r.Len()),
				)
			}
		}
	}
}
