package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/benvon/focusplan/internal/logger"
	"github.com/benvon/focusplan/internal/models"
	"github.com/benvon/focusplan/internal/scheduleapi"
	"go.uber.org/zap"
)

// GenericFailureMessage is shown for backend and malformed-response failures
const GenericFailureMessage = "Failed to generate schedule"

// ScheduleService generates schedules; *scheduleapi.Client satisfies it
type ScheduleService interface {
	GenerateSchedule(ctx context.Context, req models.ScheduleRequest) (*scheduleapi.ScheduleResult, error)
}

// Orchestrator runs the schedule request lifecycle for a session
type Orchestrator struct {
	service ScheduleService
	logger  *zap.Logger
}

// NewOrchestrator creates an orchestrator backed by service
func NewOrchestrator(service ScheduleService, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{service: service, logger: log}
}

// Generate requests a schedule for the session's current tasks and inputs.
//
// With no tasks it returns ErrEmptyTaskList without calling the service.
// Otherwise it makes exactly one call and applies exactly one outcome: the
// schedule is replaced on success, or the request is marked failed and the
// schedule left alone. Service errors are returned after being recorded in
// the state. If the session moved on while the call was running the outcome
// is discarded and ErrStaleResponse is returned.
func (o *Orchestrator) Generate(ctx context.Context, session *Session) (State, error) {
	req, generation, err := session.begin()
	if err != nil {
		return session.Snapshot(), err
	}

	log := o.logger.With(
		zap.String("session_id", session.ID.String()),
		zap.Uint64("generation", generation),
	)
	log.Info("schedule_request_started",
		zap.Int("task_count", len(req.Tasks)),
		zap.Int("energy", req.Energy),
		zap.String("mood", string(req.Mood)),
	)
	if ce := log.Check(zap.DebugLevel, "schedule_request_tasks"); ce != nil {
		tasks := make([]string, len(req.Tasks))
		for i, text := range req.Tasks {
			tasks[i] = logger.SanitizeTaskText(text)
		}
		ce.Write(zap.Strings("tasks", tasks))
	}

	result, callErr := o.service.GenerateSchedule(ctx, req)
	if callErr != nil {
		o.logFailure(log, callErr)
		state, applyErr := session.Dispatch(RequestFailed{
			Generation: generation,
			Message:    FailureMessage(callErr),
		})
		if applyErr != nil {
			log.Info("schedule_response_discarded", zap.Error(applyErr))
			return state, applyErr
		}
		return state, callErr
	}

	if result.Degraded != scheduleapi.NotDegraded {
		log.Warn("schedule_response_degraded_to_empty",
			zap.String("reason", string(result.Degraded)),
		)
	}
	if result.Dropped > 0 {
		log.Warn("schedule_items_dropped", zap.Int("dropped", result.Dropped))
	}

	state, applyErr := session.Dispatch(RequestSucceeded{
		Generation: generation,
		Items:      result.Items,
	})
	if applyErr != nil {
		log.Info("schedule_response_discarded", zap.Error(applyErr))
		return state, applyErr
	}

	log.Info("schedule_request_succeeded", zap.Int("item_count", len(result.Items)))
	return state, nil
}

// FailureMessage converts a service error into the user-visible message
func FailureMessage(err error) string {
	var netErr *scheduleapi.NetworkError
	if errors.As(err, &netErr) {
		return fmt.Sprintf("Network error: %s. Please try again.", logger.SanitizeError(netErr.Err))
	}
	return GenericFailureMessage
}

func (o *Orchestrator) logFailure(log *zap.Logger, err error) {
	var backendErr *scheduleapi.BackendError
	switch {
	case errors.As(err, &backendErr):
		log.Error("schedule_request_failed",
			zap.String("kind", "backend"),
			zap.Int("status_code", backendErr.StatusCode),
			zap.String("body", backendErr.Body),
		)
	case scheduleapi.IsNetworkError(err):
		log.Error("schedule_request_failed",
			zap.String("kind", "network"),
			zap.String("error", logger.SanitizeError(err)),
		)
	case errors.Is(err, scheduleapi.ErrMalformedResponse):
		log.Error("schedule_request_failed",
			zap.String("kind", "malformed_response"),
			zap.String("error", logger.SanitizeError(err)),
		)
	default:
		log.Error("schedule_request_failed",
			zap.String("kind", "unexpected"),
			zap.String("error", logger.SanitizeError(err)),
		)
	}
}
