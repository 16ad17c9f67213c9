package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/benvon/focusplan/internal/models"
	"github.com/benvon/focusplan/internal/planner"
)

func TestSchedule_Plain(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewWithColor(&buf, false)
	r.Schedule([]models.ScheduleItem{
		{Time: "09:00 - 10:30", Task: "Write report", Type: models.ItemTypeDeepWork, RawType: "Deep Work", Reason: "Peak focus"},
		{Time: "10:30 - 10:45", Task: "Stretch", Type: models.ItemTypeBreak},
		{Time: "11:00", Task: "Mystery", Type: models.ItemTypeUnknown},
	})

	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Errorf("Expected no ANSI escapes, got %q", out)
	}
	for _, want := range []string{
		"  09:00 - 10:30  [Deep Work] Write report",
		"                 Peak focus",
		"  10:30 - 10:45  [Break] Stretch",
		"  11:00          [Unknown] Mystery",
	} {
		if !strings.Contains(out, want+"\n") {
			t.Errorf("Expected line %q in output:\n%s", want, out)
		}
	}
}

func TestSchedule_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWithColor(&buf, false).Schedule(nil)

	if !strings.Contains(buf.String(), "No schedule") {
		t.Errorf("Expected empty marker, got %q", buf.String())
	}
}

func TestSchedule_Colored(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWithColor(&buf, true).Schedule([]models.ScheduleItem{
		{Time: "09:00", Task: "Write report", Type: models.ItemTypeDeepWork},
	})

	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("Expected ANSI escapes when color is forced, got %q", buf.String())
	}
}

func TestSchedule_WideRunesAligned(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWithColor(&buf, false).Schedule([]models.ScheduleItem{
		{Time: "午前9時", Task: "A", Type: models.ItemTypeShallow},
		{Time: "10:00", Task: "B", Type: models.ItemTypeShallow},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	// "午前9時" is 7 cells wide, so "10:00" is padded to 7 as well
	if !strings.HasPrefix(lines[2], "  10:00    [Shallow] B") {
		t.Errorf("Expected padded time column, got %q", lines[2])
	}
}

func TestView(t *testing.T) {
	t.Parallel()

	state := planner.NewState()
	state, _ = planner.Reduce(state, planner.AddTask{Text: "Write report"}, planner.InvalidateOnTaskChange)
	state, _ = planner.Reduce(state, planner.SetEnergy{Value: 7}, planner.InvalidateOnTaskChange)
	state.Request = models.RequestState{Status: models.RequestStatusFailed, Message: "Failed to generate schedule"}

	var buf bytes.Buffer
	NewWithColor(&buf, false).View(planner.NewView(state))

	out := buf.String()
	for _, want := range []string{
		"  1. Write report",
		"Energy 7/10   Mood Neutral",
		"Error: Failed to generate schedule",
		"No schedule",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestTypeLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		item models.ScheduleItem
		want string
	}{
		{item: models.ScheduleItem{Type: models.ItemTypeCreative, RawType: "creative"}, want: "creative"},
		{item: models.ScheduleItem{Type: models.ItemTypeCreative}, want: "Creative"},
		{item: models.ScheduleItem{}, want: "Unknown"},
	}

	for _, tt := range tests {
		if got := TypeLabel(tt.item); got != tt.want {
			t.Errorf("TypeLabel(%+v) = %q, want %q", tt.item, got, tt.want)
		}
	}
}

func TestIsTerminal_NonFile(t *testing.T) {
	t.Parallel()

	if IsTerminal(&bytes.Buffer{}) {
		t.Error("Expected buffer not to be a terminal")
	}
}
