package planner

import (
	"sync"
	"time"

	"github.com/benvon/focusplan/internal/models"
	"github.com/google/uuid"
)

// Session owns one planner State. All transitions go through Dispatch,
// which serializes them under the session lock.
type Session struct {
	ID uuid.UUID

	mu         sync.Mutex
	state      State
	policy     InvalidationPolicy
	lastActive time.Time
	now        func() time.Time
}

// NewSession creates a session with a fresh state and a random ID
func NewSession(policy InvalidationPolicy) *Session {
	s := &Session{
		ID:     uuid.New(),
		state:  NewState(),
		policy: policy,
		now:    time.Now,
	}
	s.lastActive = s.now()
	return s
}

// Dispatch applies a to the session state and returns a copy of the result
func (s *Session) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.state, a, s.policy)
	s.state = next
	s.lastActive = s.now()
	return next.Clone(), err
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Policy returns the session's invalidation policy
func (s *Session) Policy() InvalidationPolicy {
	return s.policy
}

// LastActive returns the time of the last dispatched action
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// begin atomically checks the precondition, marks a request in flight and
// captures the payload. The returned generation identifies the request.
func (s *Session) begin() (models.ScheduleRequest, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.Tasks) == 0 {
		return models.ScheduleRequest{}, 0, ErrEmptyTaskList
	}

	next, err := Reduce(s.state, RequestStarted{}, s.policy)
	if err != nil {
		return models.ScheduleRequest{}, 0, err
	}
	s.state = next
	s.lastActive = s.now()
	return next.ScheduleRequest(), next.Generation, nil
}
