package models

import (
	"strings"
	"unicode"
)

// ItemType is the rendering category of a schedule item
type ItemType string

const (
	ItemTypeDeepWork ItemType = "DeepWork"
	ItemTypeCreative ItemType = "Creative"
	ItemTypeShallow  ItemType = "Shallow"
	ItemTypeBreak    ItemType = "Break"
	ItemTypeUnknown  ItemType = "Unknown"
)

// ParseItemType maps a service-provided type label onto a known category.
// Case, spaces, dashes and underscores are ignored, so "Deep Work",
// "deep_work" and "DeepWork" are all DeepWork. Anything unrecognised is
// ItemTypeUnknown rather than an error.
func ParseItemType(label string) ItemType {
	var b strings.Builder
	for _, r := range label {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	switch b.String() {
	case "deepwork":
		return ItemTypeDeepWork
	case "creative":
		return ItemTypeCreative
	case "shallow":
		return ItemTypeShallow
	case "break":
		return ItemTypeBreak
	default:
		return ItemTypeUnknown
	}
}

// ScheduleItem is one time block produced by the schedule service
type ScheduleItem struct {
	Time    string   `json:"time"`
	Task    string   `json:"task"`
	Type    ItemType `json:"type"`
	RawType string   `json:"raw_type,omitempty"` // label as sent by the service
	Reason  string   `json:"reason,omitempty"`
}

// ScheduleRequest is the body sent to POST /schedule
type ScheduleRequest struct {
	Tasks  []string `json:"tasks" validate:"required,min=1,dive,required"`
	Energy int      `json:"energy" validate:"min=1,max=10"`
	Mood   Mood     `json:"mood" validate:"required,mood"`
}

// RequestStatus is the lifecycle state of a schedule request
type RequestStatus string

const (
	RequestStatusIdle      RequestStatus = "idle"
	RequestStatusInFlight  RequestStatus = "in_flight"
	RequestStatusSucceeded RequestStatus = "succeeded"
	RequestStatusFailed    RequestStatus = "failed"
)

// RequestState tracks the most recent schedule request. Message is only set when failed.
type RequestState struct {
	Status  RequestStatus `json:"status"`
	Message string        `json:"message,omitempty"`
}
