package gantt

import "time"

// ChartContext is everything a Bar needs from the chart that owns it.
type ChartContext interface {
	// Start and End bound the visible date range.
	Start() time.Time
	End() time.Time
	Options() Options
	ViewIs(mode ViewMode) bool
	// BarFor looks up the rendered bar of a task id.
	BarFor(id string) (*Bar, bool)
	BarBeingDragged() bool
	UnselectAll()
	TriggerEvent(ev Event)
	ShowPopup(opts PopupOptions)
	Now() time.Time
}

// Arrow is a dependency connector that follows the bars it joins.
type Arrow interface {
	Update()
}
