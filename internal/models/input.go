package models

import (
	"fmt"
	"strings"
)

// Energy is the user's self-reported energy level
type Energy int

const (
	MinEnergy     Energy = 1
	MaxEnergy     Energy = 10
	DefaultEnergy Energy = 5
)

// ClampEnergy forces a raw slider value into [MinEnergy, MaxEnergy]
func ClampEnergy(value int) Energy {
	if value < int(MinEnergy) {
		return MinEnergy
	}
	if value > int(MaxEnergy) {
		return MaxEnergy
	}
	return Energy(value)
}

// Valid reports whether e is within range
func (e Energy) Valid() bool {
	return e >= MinEnergy && e <= MaxEnergy
}

// Mood represents how the user feels right now
type Mood string

const (
	MoodTired    Mood = "Tired"
	MoodNeutral  Mood = "Neutral"
	MoodHappy    Mood = "Happy"
	MoodStressed Mood = "Stressed"
)

// DefaultMood is the mood a fresh session starts with
const DefaultMood = MoodNeutral

// Moods lists every accepted mood in display order
var Moods = []Mood{MoodTired, MoodNeutral, MoodHappy, MoodStressed}

// Valid reports whether m is one of the enumerated moods
func (m Mood) Valid() bool {
	switch m {
	case MoodTired, MoodNeutral, MoodHappy, MoodStressed:
		return true
	default:
		return false
	}
}

// ParseMood matches a mood name case-insensitively
func ParseMood(value string) (Mood, error) {
	trimmed := strings.TrimSpace(value)
	for _, m := range Moods {
		if strings.EqualFold(string(m), trimmed) {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid mood: %q (must be 'Tired', 'Neutral', 'Happy', or 'Stressed')", value)
}
