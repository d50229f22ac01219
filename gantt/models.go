package gantt

import (
	"errors"
	"time"
)

var (
	ErrNoTasks     = errors.New("no tasks to chart")
	ErrInvalidDate = errors.New("invalid date")
)

// ViewMode selects the time scale of one chart column.
type ViewMode string

const (
	ViewQuarterDay ViewMode = "Quarter Day"
	ViewHalfDay    ViewMode = "Half Day"
	ViewDay        ViewMode = "Day"
	ViewWeek       ViewMode = "Week"
	ViewMonth      ViewMode = "Month"
	ViewYear       ViewMode = "Year"
)

// Text alignments for bar labels.
const (
	AlignCenter = "center"
	AlignLeft   = "left"
	AlignRight  = "right"
)

// Period is a date range displayed as one bar. A task without explicit
// periods is displayed through its own embedded Period.
type Period struct {
	Name        string
	Start       time.Time
	End         time.Time
	CustomClass string
	CSSClass    string
	Fill        string
	Disabled    bool
	Draggable   *bool // nil means draggable
}

// Task is one row of the chart.
type Task struct {
	Period

	ID           string
	Name         string
	Progress     float64 // 0-100
	Dependencies []string
	TextAlign    string
	Header       bool
	Invalid      bool
	Index        int
	Periods      []*Period
}

// AsPeriod returns the task's own period. Bars built from it are the only
// ones that can be dragged.
func (t *Task) AsPeriod() *Period {
	return &t.Period
}

// Event names emitted through the chart.
const (
	EventClick          = "click"
	EventDateChange     = "date_change"
	EventProgressChange = "progress_change"
)

// Event is a single notification from a bar to its chart.
type Event struct {
	Name     string
	Task     *Task
	Period   *Period   // click
	Start    time.Time // date_change
	End      time.Time // date_change, inclusive
	Progress int       // progress_change
}

// PopupOptions describes a popup request for a bar.
type PopupOptions struct {
	Target   *Element
	Title    string
	Subtitle string
	Task     *Task
}
