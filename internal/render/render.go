// Package render prints planner views and schedules to a terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/benvon/focusplan/internal/models"
	"github.com/benvon/focusplan/internal/planner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

const (
	maxTimeColumnWidth = 20
	maxTaskWidth       = 60
	indent             = "  "
)

// Renderer writes human-readable output, coloured when the target is a terminal
type Renderer struct {
	out io.Writer

	header *color.Color
	muted  *color.Color
	failed *color.Color
	types  map[models.ItemType]*color.Color
}

// New creates a renderer for out. Colour is used only when out is a terminal.
func New(out io.Writer) *Renderer {
	return NewWithColor(out, IsTerminal(out))
}

// NewWithColor creates a renderer with colour forced on or off
func NewWithColor(out io.Writer, enabled bool) *Renderer {
	r := &Renderer{
		out:    out,
		header: color.New(color.FgCyan, color.Bold),
		muted:  color.New(color.FgHiBlack),
		failed: color.New(color.FgRed, color.Bold),
		types: map[models.ItemType]*color.Color{
			models.ItemTypeDeepWork: color.New(color.FgBlue, color.Bold),
			models.ItemTypeCreative: color.New(color.FgMagenta),
			models.ItemTypeShallow:  color.New(color.FgYellow),
			models.ItemTypeBreak:    color.New(color.FgGreen),
			models.ItemTypeUnknown:  color.New(color.FgWhite),
		},
	}
	for _, c := range r.styles() {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// IsTerminal reports whether w is a terminal file descriptor
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// View prints the inputs, task list, request status and schedule of v
func (r *Renderer) View(v planner.View) {
	r.println(r.header.Sprint("Tasks"))
	if len(v.Tasks) == 0 {
		r.println(indent + r.muted.Sprint("No tasks yet"))
	}
	for _, t := range v.Tasks {
		r.println(fmt.Sprintf("%s%d. %s", indent, t.Index+1, t.Text))
	}
	r.println("")
	r.println(fmt.Sprintf("%s %d/%d   %s %s",
		r.header.Sprint("Energy"), v.Energy, models.MaxEnergy,
		r.header.Sprint("Mood"), v.Mood,
	))

	switch v.Request.Status {
	case models.RequestStatusInFlight:
		r.println(r.muted.Sprint("Generating schedule..."))
	case models.RequestStatusFailed:
		r.println(r.failed.Sprint("Error: ") + v.Request.Message)
	}

	r.println("")
	r.Schedule(v.Schedule)
}

// Schedule prints items as an aligned time-blocked list
func (r *Renderer) Schedule(items []models.ScheduleItem) {
	r.println(r.header.Sprint("Schedule"))
	if len(items) == 0 {
		r.println(indent + r.muted.Sprint("No schedule"))
		return
	}

	timeWidth := 0
	for _, item := range items {
		if w := runewidth.StringWidth(item.Time); w > timeWidth {
			timeWidth = w
		}
	}
	if timeWidth > maxTimeColumnWidth {
		timeWidth = maxTimeColumnWidth
	}

	for _, item := range items {
		timeCol := runewidth.FillRight(runewidth.Truncate(item.Time, timeWidth, "…"), timeWidth)
		label := r.typeStyle(item.Type).Sprintf("[%s]", TypeLabel(item))
		task := runewidth.Truncate(item.Task, maxTaskWidth, "…")
		r.println(fmt.Sprintf("%s%s  %s %s", indent, timeCol, label, task))
		if item.Reason != "" {
			r.println(indent + strings.Repeat(" ", timeWidth+2) + r.muted.Sprint(item.Reason))
		}
	}
}

// TypeLabel is the display label for an item: the service's own label when
// it sent one, otherwise the normalized type
func TypeLabel(item models.ScheduleItem) string {
	if item.RawType != "" {
		return item.RawType
	}
	if item.Type == "" {
		return string(models.ItemTypeUnknown)
	}
	return string(item.Type)
}

func (r *Renderer) typeStyle(t models.ItemType) *color.Color {
	if c, ok := r.types[t]; ok {
		return c
	}
	return r.types[models.ItemTypeUnknown]
}

func (r *Renderer) styles() []*color.Color {
	styles := []*color.Color{r.header, r.muted, r.failed}
	for _, c := range r.types {
		styles = append(styles, c)
	}
	return styles
}

func (r *Renderer) println(line string) {
	_, _ = fmt.Fprintln(r.out, line)
}
