package scheduleapi

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/benvon/focusplan/internal/models"
)

// DegradeReason explains why a parseable response produced an empty schedule
type DegradeReason string

const (
	// NotDegraded means the response carried a well-formed schedule array
	NotDegraded DegradeReason = ""
	// DegradedMissingSchedule means the body had no "schedule" field
	// (or was not a JSON object at all)
	DegradedMissingSchedule DegradeReason = "missing_schedule"
	// DegradedScheduleNotArray means "schedule" was present but not an array
	DegradedScheduleNotArray DegradeReason = "schedule_not_array"
)

// ScheduleResult is a normalized response from POST /schedule
type ScheduleResult struct {
	Items []models.ScheduleItem
	// Degraded is set when the service response was malformed but parseable
	// and was turned into an empty schedule instead of an error.
	Degraded DegradeReason
	// Dropped counts schedule elements that were not JSON objects
	Dropped int
}

// NormalizeScheduleResponse turns a 2xx response body into a ScheduleResult.
//
// Bodies that are not JSON fail with ErrMalformedResponse. Parseable bodies
// without a usable "schedule" array degrade to an empty schedule with the
// reason recorded in Degraded. Elements are read leniently: unknown types
// become ItemTypeUnknown and keep their label in RawType.
func NormalizeScheduleResponse(body []byte) (*ScheduleResult, error) {
	var top any
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	result := &ScheduleResult{Items: []models.ScheduleItem{}}

	obj, ok := top.(map[string]any)
	if !ok {
		result.Degraded = DegradedMissingSchedule
		return result, nil
	}
	raw, ok := obj["schedule"]
	if !ok {
		result.Degraded = DegradedMissingSchedule
		return result, nil
	}
	elements, ok := raw.([]any)
	if !ok {
		result.Degraded = DegradedScheduleNotArray
		return result, nil
	}

	for _, element := range elements {
		fields, ok := element.(map[string]any)
		if !ok {
			result.Dropped++
			continue
		}
		rawType := stringField(fields, "type")
		result.Items = append(result.Items, models.ScheduleItem{
			Time:    stringField(fields, "time"),
			Task:    stringField(fields, "task"),
			Type:    models.ParseItemType(rawType),
			RawType: rawType,
			Reason:  stringField(fields, "reason"),
		})
	}

	return result, nil
}

// stringField reads key as a string, formatting scalars and ignoring anything else
func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
