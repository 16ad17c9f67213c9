package planner

import "github.com/benvon/focusplan/internal/models"

// TaskView is a task with its position, which doubles as its identifier
type TaskView struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// View is the render-ready projection of a State
type View struct {
	SessionID   string                `json:"session_id,omitempty"`
	Tasks       []TaskView            `json:"tasks"`
	Energy      int                   `json:"energy"`
	Mood        models.Mood           `json:"mood"`
	Moods       []models.Mood         `json:"moods"`
	Schedule    []models.ScheduleItem `json:"schedule"`
	Request     models.RequestState   `json:"request"`
	CanGenerate bool                  `json:"can_generate"`
}

// NewView projects s for rendering. Slices are always non-nil.
func NewView(s State) View {
	tasks := make([]TaskView, len(s.Tasks))
	for i, t := range s.Tasks {
		tasks[i] = TaskView{Index: i, Text: t.Text}
	}
	schedule := make([]models.ScheduleItem, len(s.Schedule))
	copy(schedule, s.Schedule)

	return View{
		Tasks:       tasks,
		Energy:      int(s.Energy),
		Mood:        s.Mood,
		Moods:       models.Moods,
		Schedule:    schedule,
		Request:     s.Request,
		CanGenerate: len(s.Tasks) > 0 && s.Request.Status != models.RequestStatusInFlight,
	}
}

// SessionView projects the session's current state, tagged with its ID
func SessionView(s *Session) View {
	v := NewView(s.Snapshot())
	v.SessionID = s.ID.String()
	return v
}
