package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/benvon/focusplan/internal/logger"
	"github.com/benvon/focusplan/internal/models"
	"github.com/benvon/focusplan/internal/planner"
	"github.com/benvon/focusplan/internal/scheduleapi"
	"github.com/benvon/focusplan/internal/validation"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	// MaxTaskTextLength is the maximum length for task text, in characters
	MaxTaskTextLength = models.MaxTaskTextLength
)

// SessionHandler exposes planner sessions over HTTP
type SessionHandler struct {
	registry     *planner.Registry
	orchestrator *planner.Orchestrator
	logger       *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(registry *planner.Registry, orchestrator *planner.Orchestrator, log *zap.Logger) *SessionHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionHandler{registry: registry, orchestrator: orchestrator, logger: log}
}

// RegisterRoutes registers session routes on the given router.
// The router should already have the /sessions prefix. generate wraps the
// schedule route so callers can rate limit it on its own.
func (h *SessionHandler) RegisterRoutes(r *mux.Router, generate func(http.Handler) http.Handler) {
	if generate == nil {
		generate = func(next http.Handler) http.Handler { return next }
	}
	r.HandleFunc("", h.CreateSession).Methods("POST")
	r.HandleFunc("/{id}", h.GetSession).Methods("GET")
	r.HandleFunc("/{id}", h.DeleteSession).Methods("DELETE")
	r.HandleFunc("/{id}/tasks", h.AddTask).Methods("POST")
	r.HandleFunc("/{id}/tasks/{index}", h.RemoveTask).Methods("DELETE")
	r.HandleFunc("/{id}/input", h.UpdateInput).Methods("PATCH")
	r.Handle("/{id}/schedule", generate(http.HandlerFunc(h.GenerateSchedule))).Methods("POST")
}

// AddTaskRequest represents an add task request
type AddTaskRequest struct {
	Text string `json:"text"`
}

// UpdateInputRequest represents an energy and/or mood change
type UpdateInputRequest struct {
	Energy *int    `json:"energy,omitempty" validate:"omitempty,min=1,max=10"`
	Mood   *string `json:"mood,omitempty"`
}

// CreateSession starts a new planner session
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.registry.Create()
	h.logger.Info("session_created",
		zap.String("session_id", session.ID.String()),
		zap.Int("live_sessions", h.registry.Len()),
	)
	respondJSON(w, http.StatusCreated, planner.SessionView(session))
}

// GetSession returns the session view
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, planner.SessionView(session))
}

// DeleteSession drops a session
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSessionID(w, r)
	if !ok {
		return
	}
	if err := h.registry.Delete(id); err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTask appends a task. Blank text leaves the session unchanged.
func (h *SessionHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req AddTaskRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	text := strings.TrimSpace(req.Text)
	if err := validation.ValidateTaskText(text, MaxTaskTextLength); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	state, err := session.Dispatch(planner.AddTask{Text: text})
	if err != nil {
		h.respondActionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(session, state))
}

// RemoveTask removes the task at the index in the path
func (h *SessionHandler) RemoveTask(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task index")
		return
	}

	state, err := session.Dispatch(planner.RemoveTask{Index: index})
	if err != nil {
		h.respondActionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(session, state))
}

// UpdateInput changes energy and/or mood
func (h *SessionHandler) UpdateInput(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req UpdateInputRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Energy == nil && req.Mood == nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Provide energy and/or mood")
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", validation.FirstError(err))
		return
	}

	// parse everything before dispatching so a bad mood never half-applies
	var mood models.Mood
	if req.Mood != nil {
		parsed, err := models.ParseMood(*req.Mood)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		mood = parsed
	}

	state := session.Snapshot()
	if req.Energy != nil {
		next, err := session.Dispatch(planner.SetEnergy{Value: *req.Energy})
		if err != nil {
			h.respondActionError(w, err)
			return
		}
		state = next
	}
	if req.Mood != nil {
		next, err := session.Dispatch(planner.SetMood{Mood: mood})
		if err != nil {
			h.respondActionError(w, err)
			return
		}
		state = next
	}
	respondJSON(w, http.StatusOK, h.view(session, state))
}

// GenerateSchedule requests a schedule for the session's tasks and inputs.
// The session records the outcome either way, so clients can re-fetch it.
func (h *SessionHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	state, err := h.orchestrator.Generate(r.Context(), session)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, h.view(session, state))
	case errors.Is(err, planner.ErrEmptyTaskList):
		respondJSONError(w, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
	case errors.Is(err, planner.ErrStaleResponse):
		respondJSONError(w, http.StatusConflict, "Conflict", "A newer schedule request superseded this one; the result was discarded")
	case scheduleapi.IsNetworkError(err):
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", planner.FailureMessage(err))
	case scheduleapi.IsBackendError(err), errors.Is(err, scheduleapi.ErrMalformedResponse):
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", planner.GenericFailureMessage)
	default:
		h.logger.Error("schedule_generate_unexpected_error",
			zap.String("session_id", session.ID.String()),
			zap.String("error", logger.SanitizeError(err)),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", planner.GenericFailureMessage)
	}
}

func (h *SessionHandler) view(session *planner.Session, state planner.State) planner.View {
	v := planner.NewView(state)
	v.SessionID = session.ID.String()
	return v
}

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*planner.Session, bool) {
	id, ok := parseSessionID(w, r)
	if !ok {
		return nil, false
	}
	session, err := h.registry.Get(id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Session not found")
		return nil, false
	}
	return session, true
}

func (h *SessionHandler) respondActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, planner.ErrTaskIndexOutOfRange):
		respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
	case errors.Is(err, planner.ErrInvalidMood):
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
	default:
		h.logger.Error("session_action_failed", zap.String("error", logger.SanitizeError(err)))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update session")
	}
}

func parseSessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid session ID")
		return uuid.UUID{}, false
	}
	return id, true
}
