package planner

import "errors"

var (
	// ErrEmptyTaskList means a schedule was requested with no tasks; no request is made
	ErrEmptyTaskList = errors.New("add at least one task before generating a schedule")
	// ErrTaskIndexOutOfRange means RemoveTask named a position that does not exist
	ErrTaskIndexOutOfRange = errors.New("task index out of range")
	// ErrInvalidMood means SetMood carried a value outside the enumerated moods
	ErrInvalidMood = errors.New("invalid mood")
	// ErrStaleResponse means a schedule outcome arrived for a superseded generation and was discarded
	ErrStaleResponse = errors.New("stale schedule response discarded")
	// ErrSessionNotFound means no session exists for the given ID
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownAction means Reduce was handed an action type it does not handle
	ErrUnknownAction = errors.New("unknown action")
)
