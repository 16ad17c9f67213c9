package planner

import (
	"fmt"
	"slices"
	"strings"

	"github.com/benvon/focusplan/internal/config"
	"github.com/benvon/focusplan/internal/models"
)

// InvalidationPolicy decides which mutations clear a generated schedule
type InvalidationPolicy int

const (
	// InvalidateOnTaskChange clears the schedule on task add/remove only.
	// Energy and mood changes keep the schedule on screen.
	InvalidateOnTaskChange InvalidationPolicy = iota
	// InvalidateOnAnyInput also clears the schedule on energy or mood changes,
	// since both are part of the request payload.
	InvalidateOnAnyInput
)

// ParseInvalidationPolicy maps a config value onto a policy
func ParseInvalidationPolicy(value string) (InvalidationPolicy, error) {
	switch value {
	case "", config.InvalidationPolicyTasks:
		return InvalidateOnTaskChange, nil
	case config.InvalidationPolicyInputs:
		return InvalidateOnAnyInput, nil
	default:
		return InvalidateOnTaskChange, fmt.Errorf("unknown invalidation policy %q", value)
	}
}

func (p InvalidationPolicy) String() string {
	if p == InvalidateOnAnyInput {
		return config.InvalidationPolicyInputs
	}
	return config.InvalidationPolicyTasks
}

// State is the whole planner state for one user. It is treated as a value:
// Reduce never mutates the slices of the state it is given.
type State struct {
	Tasks    []models.Task
	Energy   models.Energy
	Mood     models.Mood
	Schedule []models.ScheduleItem
	Request  models.RequestState
	// Generation is bumped for every issued request and every invalidation.
	// Outcomes are applied only when their generation is still current.
	Generation uint64
}

// NewState returns the state of a fresh planner
func NewState() State {
	return State{
		Energy:  models.DefaultEnergy,
		Mood:    models.DefaultMood,
		Request: models.RequestState{Status: models.RequestStatusIdle},
	}
}

// Clone returns a copy that shares no slices with s
func (s State) Clone() State {
	s.Tasks = slices.Clone(s.Tasks)
	s.Schedule = slices.Clone(s.Schedule)
	return s
}

// ScheduleRequest builds the payload for POST /schedule from the current state
func (s State) ScheduleRequest() models.ScheduleRequest {
	return models.ScheduleRequest{
		Tasks:  models.TaskTexts(s.Tasks),
		Energy: int(s.Energy),
		Mood:   s.Mood,
	}
}

// Action is a single state transition
type Action interface {
	isAction()
}

// AddTask appends a task. Blank text (after trimming) is ignored.
type AddTask struct{ Text string }

// RemoveTask removes the task at Index
type RemoveTask struct{ Index int }

// SetEnergy sets the energy level, clamped to [1,10]
type SetEnergy struct{ Value int }

// SetMood sets the mood
type SetMood struct{ Mood models.Mood }

// RequestStarted marks a new schedule request as in flight
type RequestStarted struct{}

// RequestSucceeded applies a validated schedule for Generation
type RequestSucceeded struct {
	Generation uint64
	Items      []models.ScheduleItem
}

// RequestFailed records a failed request for Generation
type RequestFailed struct {
	Generation uint64
	Message    string
}

func (AddTask) isAction()          {}
func (RemoveTask) isAction()       {}
func (SetEnergy) isAction()        {}
func (SetMood) isAction()          {}
func (RequestStarted) isAction()   {}
func (RequestSucceeded) isAction() {}
func (RequestFailed) isAction()    {}

// Reduce applies a to s and returns the next state. On error the returned
// state equals s.
func Reduce(s State, a Action, policy InvalidationPolicy) (State, error) {
	switch a := a.(type) {
	case AddTask:
		text := strings.TrimSpace(a.Text)
		if text == "" {
			return s, nil
		}
		tasks := make([]models.Task, len(s.Tasks), len(s.Tasks)+1)
		copy(tasks, s.Tasks)
		s.Tasks = append(tasks, models.Task{Text: text})
		return invalidate(s), nil

	case RemoveTask:
		if a.Index < 0 || a.Index >= len(s.Tasks) {
			return s, fmt.Errorf("%w: %d (have %d tasks)", ErrTaskIndexOutOfRange, a.Index, len(s.Tasks))
		}
		s.Tasks = slices.Delete(slices.Clone(s.Tasks), a.Index, a.Index+1)
		return invalidate(s), nil

	case SetEnergy:
		s.Energy = models.ClampEnergy(a.Value)
		if policy == InvalidateOnAnyInput {
			s = invalidate(s)
		}
		return s, nil

	case SetMood:
		if !a.Mood.Valid() {
			return s, fmt.Errorf("%w: %q", ErrInvalidMood, a.Mood)
		}
		s.Mood = a.Mood
		if policy == InvalidateOnAnyInput {
			s = invalidate(s)
		}
		return s, nil

	case RequestStarted:
		s.Generation++
		s.Request = models.RequestState{Status: models.RequestStatusInFlight}
		return s, nil

	case RequestSucceeded:
		if a.Generation != s.Generation {
			return s, staleError(a.Generation, s.Generation)
		}
		s.Schedule = slices.Clone(a.Items)
		s.Request = models.RequestState{Status: models.RequestStatusSucceeded}
		return s, nil

	case RequestFailed:
		if a.Generation != s.Generation {
			return s, staleError(a.Generation, s.Generation)
		}
		s.Request = models.RequestState{Status: models.RequestStatusFailed, Message: a.Message}
		return s, nil

	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
}

// invalidate clears the schedule and supersedes any request in flight, so a
// late response for the old inputs can never be displayed.
func invalidate(s State) State {
	s.Schedule = nil
	s.Generation++
	if s.Request.Status == models.RequestStatusInFlight {
		s.Request = models.RequestState{Status: models.RequestStatusIdle}
	}
	return s
}

func staleError(got, current uint64) error {
	return fmt.Errorf("%w: generation %d, current %d", ErrStaleResponse, got, current)
}
