package gantt

import (
	"math"
	"time"
)

const (
	handleWidth      = 8
	labelOverflowGap = 5
	progressHandleHi = 8.66

	// actionCooldown suppresses popups right after a drag or resize.
	actionCooldown = time.Second
)

// BarPosition carries an optional new x and width for UpdateBarPosition.
type BarPosition struct {
	X     *float64
	Width *float64
}

// Bar is the rendered state of one task/period. Live geometry during a
// gesture is read from Rect and ProgressRect; the numeric fields mirror
// the last applied values.
type Bar struct {
	chart  ChartContext
	Task   *Task
	Period *Period

	X             float64
	Y             float64
	Width         float64
	Height        float64
	CornerRadius  float64
	Duration      float64 // in steps
	ProgressWidth float64
	TextAlign     string
	Invalid       bool

	Group          *Element
	BarGroup       *Element
	HandleGroup    *Element
	Rect           *Element
	ProgressRect   *Element
	Label          *Element
	HandleLeft     *Element
	HandleRight    *Element
	HandleProgress *Element
	Arrows         []Arrow

	drawn             bool
	settled           bool
	bound             bool
	measure           TextMeasurer
	actionCompletedAt time.Time
}

// NewBar prepares and draws the bar for period (the task's own period when
// nil). The owner must call Settle once text metrics are known.
func NewBar(chart ChartContext, task *Task, period *Period) *Bar {
	if period == nil {
		period = task.AsPeriod()
	}
	b := &Bar{chart: chart, Task: task, Period: period}
	b.prepare()
	b.draw()
	b.bind()
	return b
}

func (b *Bar) prepare() {
	opts := b.chart.Options()

	b.TextAlign = getString(b.Task.TextAlign, opts.BarTextAlign)
	// Header rows are never invalid, whatever their flag says.
	b.Invalid = b.Task.Invalid && !b.Task.Header
	b.Height = opts.BarHeight
	b.X = b.computeX()
	b.Y = b.computeY()
	b.CornerRadius = opts.BarCornerRadius
	b.Duration = b.computeDuration()
	b.Width = math.Max(opts.ColumnWidth*b.Duration, 0)
	b.ProgressWidth = b.progressWidthFor(b.Width)

	b.Group = newElement("g", nil, "bar-wrapper", b.Period.CustomClass, b.Task.CustomClass)
	b.Group.Set("data-id", b.Task.ID)
	b.BarGroup = newElement("g", b.Group, "bar-group")
	if b.IsDraggable() {
		b.HandleGroup = newElement("g", b.Group, "handle-group")
	}
}

// --- Geometry ---

func (b *Bar) computeX() float64 {
	if b.Task.Header {
		return 0
	}
	opts := b.chart.Options()
	if b.chart.ViewIs(ViewMonth) {
		days := math.Max(0, Diff(b.Period.Start, b.chart.Start(), Day))
		return days * opts.ColumnWidth / 30
	}
	hours := math.Max(0, Diff(b.Period.Start, b.chart.Start(), Hour))
	return hours / opts.Step * opts.ColumnWidth
}

func (b *Bar) computeY() float64 {
	opts := b.chart.Options()
	return opts.HeaderHeight + opts.Padding + float64(b.Task.Index)*(b.Height+opts.Padding)
}

func (b *Bar) computeDuration() float64 {
	opts := b.chart.Options()
	if b.Task.Header {
		return Diff(b.chart.End(), b.chart.Start(), Hour) / opts.Step
	}
	end := b.Period.End
	if b.chart.End().Before(end) {
		end = b.chart.End()
	}
	start := b.Period.Start
	if b.chart.Start().After(start) {
		start = b.chart.Start()
	}
	return Diff(end, start, Hour) / opts.Step
}

func (b *Bar) progressWidthFor(width float64) float64 {
	pw := finiteOr(width*(b.Task.Progress/100), 0)
	return math.Min(math.Max(pw, 0), width)
}

// --- Drawing ---

func (b *Bar) draw() {
	// hidden bar
	if b.Width <= 0 {
		return
	}
	b.drawBar()
	b.drawProgressBar()
	b.drawLabel()
	b.drawResizeHandles()
	b.drawn = true
	b.settled = false
}

func (b *Bar) drawBar() {
	b.Rect = newElement("rect", b.BarGroup, "bar")
	switch {
	case b.Period.CSSClass != "":
		b.Rect.AddClass(b.Period.CSSClass)
	case b.Task.CSSClass != "":
		b.Rect.AddClass(b.Task.CSSClass)
	}
	b.Rect.SetNum("x", b.X).
		SetNum("y", b.Y).
		SetNum("width", b.Width).
		SetNum("height", b.Height).
		SetNum("rx", b.CornerRadius).
		SetNum("ry", b.CornerRadius)

	if fill := getString(b.Period.Fill, b.Task.Fill); fill != "" {
		b.Rect.Set("style", "fill: "+fill)
	}
	if b.Invalid {
		b.Rect.AddClass("bar-invalid")
	}
}

func (b *Bar) drawProgressBar() {
	if b.Invalid {
		return
	}
	b.ProgressRect = newElement("rect", b.BarGroup, "bar-progress")
	b.ProgressRect.SetNum("x", b.X).
		SetNum("y", b.Y).
		SetNum("width", b.ProgressWidth).
		SetNum("height", b.Height).
		SetNum("rx", b.CornerRadius).
		SetNum("ry", b.CornerRadius)
}

func (b *Bar) labelX(scrollOffset float64) float64 {
	pad := b.chart.Options().Padding
	x := b.Rect.X() + b.Rect.Width()/2
	switch b.TextAlign {
	case AlignLeft:
		x = b.Rect.X() + pad
	case AlignRight:
		x = b.Rect.X() + b.Rect.Width() - pad
	}
	return x + scrollOffset
}

func (b *Bar) drawLabel() {
	b.Label = newElement("text", b.BarGroup, "bar-label", "bar-label-"+b.TextAlign)
	b.Label.SetNum("x", b.labelX(0)).SetNum("y", b.Y+b.Height/2)
	b.Label.Text = getString(b.Period.Name, b.Task.Name)
}

func (b *Bar) drawResizeHandles() {
	if b.HandleGroup == nil {
		return
	}
	b.HandleRight = newElement("rect", b.HandleGroup, "handle", "right")
	b.HandleRight.SetNum("x", b.Rect.EndX()-handleWidth-1).
		SetNum("y", b.Rect.Y()+1).
		SetNum("width", handleWidth).
		SetNum("height", b.Height-2).
		SetNum("rx", b.CornerRadius).
		SetNum("ry", b.CornerRadius)

	b.HandleLeft = newElement("rect", b.HandleGroup, "handle", "left")
	b.HandleLeft.SetNum("x", b.Rect.X()+1).
		SetNum("y", b.Rect.Y()+1).
		SetNum("width", handleWidth).
		SetNum("height", b.Height-2).
		SetNum("rx", b.CornerRadius).
		SetNum("ry", b.CornerRadius)

	if b.Task.Progress > 0 && b.Task.Progress < 100 {
		b.HandleProgress = newElement("polygon", b.HandleGroup, "handle", "progress")
		b.HandleProgress.Set("points", joinPoints(b.progressPolygonPoints()))
	}
}

func (b *Bar) progressPolygonPoints() []float64 {
	p := b.ProgressRect
	bottom := p.Y() + p.Height()
	return []float64{
		p.EndX() - 5, bottom,
		p.EndX() + 5, bottom,
		p.EndX(), bottom - progressHandleHi,
	}
}

// Settle runs the post-layout pass: labels are re-measured with measure
// and moved past the bar when they overflow it. It acts once per draw.
func (b *Bar) Settle(measure TextMeasurer) {
	if !b.drawn || b.settled {
		return
	}
	b.settled = true
	b.measure = measure
	b.updateLabelPosition()
}

// Settled reports whether the post-layout pass has run.
func (b *Bar) Settled() bool {
	return b.settled
}

// Hidden reports whether the bar has no visible extent.
func (b *Bar) Hidden() bool {
	return !b.drawn
}

// --- Interaction ---

func (b *Bar) bind() {
	if b.Invalid {
		return
	}
	b.bound = true
}

// Interactive reports whether the bar reacts to triggers.
func (b *Bar) Interactive() bool {
	return b.bound
}

// HandleTrigger reacts to focus or the configured popup trigger.
func (b *Bar) HandleTrigger(kind string) {
	if !b.bound {
		return
	}
	if kind != "focus" && kind != b.chart.Options().PopupTrigger {
		return
	}
	if b.coolingDown() {
		return
	}
	if kind == "click" {
		b.chart.TriggerEvent(Event{Name: EventClick, Task: b.Task, Period: b.Period})
	}
	b.chart.UnselectAll()
	b.Group.ToggleClass("active")
	b.showPopup()
}

// Active reports whether the bar is selected.
func (b *Bar) Active() bool {
	return b.Group.HasClass("active")
}

func (b *Bar) showPopup() {
	if b.chart.BarBeingDragged() {
		return
	}
	lang := b.chart.Options().Language
	start := Format(b.Period.Start, "MMM D", lang)
	end := Format(Add(b.Period.End, -1, Second), "MMM D", lang)
	b.chart.ShowPopup(PopupOptions{
		Target:   b.Rect,
		Title:    b.Task.Name,
		Subtitle: start + " - " + end,
		Task:     b.Task,
	})
}

// --- Updates ---

// UpdateBarPosition moves and/or resizes the bar. A rejected x (before a
// dependency or negative) discards the whole call; widths below one column
// are ignored.
func (b *Bar) UpdateBarPosition(pos BarPosition) {
	if b.Invalid || b.Period.Disabled || b.Rect == nil {
		return
	}
	if pos.X != nil {
		x := *pos.X
		if !b.acceptsX(x) {
			return
		}
		b.Rect.SetNum("x", x)
		b.X = x
	}
	if pos.Width != nil {
		w := *pos.Width
		if !math.IsNaN(w) && !math.IsInf(w, 0) && w >= b.chart.Options().ColumnWidth {
			b.Rect.SetNum("width", w)
			b.Width = w
		}
	}
	b.updateLabelPosition()
	b.updateHandlePosition()
	b.updateProgressbarPosition()
	b.updateArrowPosition()
}

func (b *Bar) acceptsX(x float64) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
		return false
	}
	for _, dep := range b.Task.Dependencies {
		depBar, ok := b.chart.BarFor(dep)
		if !ok || depBar.Rect == nil {
			continue
		}
		if x < depBar.Rect.X() {
			return false
		}
	}
	return true
}

// UpdateHeaderPosition keeps a header row's label in view while the chart
// scrolls horizontally.
func (b *Bar) UpdateHeaderPosition(scrollLeft float64) {
	if !b.Task.Header || b.Label == nil {
		return
	}
	b.Label.SetNum("x", b.labelX(scrollLeft))
}

// UpdateProgressWidth resizes the progress fill, clamped to the bar.
func (b *Bar) UpdateProgressWidth(width float64) {
	if b.ProgressRect == nil || math.IsNaN(width) {
		return
	}
	width = math.Min(math.Max(width, 0), b.Rect.Width())
	b.ProgressRect.SetNum("width", width)
	b.ProgressWidth = width
	if b.HandleProgress != nil {
		b.HandleProgress.Set("points", joinPoints(b.progressPolygonPoints()))
	}
}

func (b *Bar) updateLabelPosition() {
	if b.Task.Header || b.Label == nil {
		return
	}
	var labelWidth float64
	if b.measure != nil {
		labelWidth = b.measure(b.Label.Text)
	}
	if labelWidth > b.Rect.Width() {
		b.Label.AddClass("big")
		b.Label.SetNum("x", b.Rect.EndX()+labelOverflowGap)
		return
	}
	b.Label.RemoveClass("big")
	b.Label.SetNum("x", b.labelX(0))
}

func (b *Bar) updateHandlePosition() {
	if b.HandleGroup == nil {
		return
	}
	b.HandleLeft.SetNum("x", b.Rect.X()+1)
	b.HandleRight.SetNum("x", b.Rect.EndX()-handleWidth-1)
	if b.HandleProgress != nil {
		b.HandleProgress.Set("points", joinPoints(b.progressPolygonPoints()))
	}
}

func (b *Bar) updateProgressbarPosition() {
	if b.ProgressRect == nil {
		return
	}
	b.ProgressWidth = b.progressWidthFor(b.Rect.Width())
	b.ProgressRect.SetNum("x", b.Rect.X())
	b.ProgressRect.SetNum("width", b.ProgressWidth)
}

func (b *Bar) updateArrowPosition() {
	for _, arrow := range b.Arrows {
		arrow.Update()
	}
}

// --- Commit ---

// DateChanged writes the dates implied by the current geometry back to the
// period and emits date_change when they moved.
func (b *Bar) DateChanged() {
	if b.Rect == nil {
		return
	}
	start, end := b.computeStartEndDate()
	changed := false
	if !b.Period.Start.Equal(start) {
		b.Period.Start = start
		changed = true
	}
	if !b.Period.End.Equal(end) {
		b.Period.End = end
		changed = true
	}
	if !changed {
		return
	}
	b.chart.TriggerEvent(Event{
		Name:  EventDateChange,
		Task:  b.Task,
		Start: start,
		End:   Add(end, -1, Second),
	})
}

func (b *Bar) computeStartEndDate() (time.Time, time.Time) {
	opts := b.chart.Options()
	xInUnits := b.Rect.X() / opts.ColumnWidth
	start := Add(b.chart.Start(), xInUnits*opts.Step, Hour)
	widthInUnits := b.Rect.Width() / opts.ColumnWidth
	end := Add(start, widthInUnits*opts.Step, Hour)
	return start, end
}

// ProgressChanged stores the progress implied by the fill width and emits
// progress_change.
func (b *Bar) ProgressChanged() {
	if b.ProgressRect == nil {
		return
	}
	progress := b.computeProgress()
	b.Task.Progress = float64(progress)
	b.chart.TriggerEvent(Event{Name: EventProgressChange, Task: b.Task, Progress: progress})
}

func (b *Bar) computeProgress() int {
	width := b.Rect.Width()
	if width <= 0 {
		return 0
	}
	p := finiteOr(b.ProgressRect.Width()/width*100, 0)
	// tolerance keeps 28.999999999999996 from truncating to 28
	return int(math.Trunc(p + 1e-9))
}

// SetActionCompleted opens the short window in which triggers are ignored
// so a drag release is not taken for a click.
func (b *Bar) SetActionCompleted() {
	b.actionCompletedAt = b.chart.Now()
}

func (b *Bar) coolingDown() bool {
	if b.actionCompletedAt.IsZero() {
		return false
	}
	return b.chart.Now().Sub(b.actionCompletedAt) < actionCooldown
}

// SnapPosition rounds a drag delta to the view's grid unit.
func (b *Bar) SnapPosition(dx float64) float64 {
	cw := b.chart.Options().ColumnWidth
	unit := cw
	switch {
	case b.chart.ViewIs(ViewWeek):
		unit = cw / 7
	case b.chart.ViewIs(ViewMonth):
		unit = cw / 30
	}
	// The remainder keeps the sign of dx, so negative deltas always
	// truncate toward zero while positive ones round half up.
	q := dx / unit
	if q < 0 {
		return math.Ceil(q-1e-9) * unit
	}
	return math.Floor(q+0.5) * unit
}

// IsDraggable reports whether the bar can be moved and resized. Only leaf
// tasks displayed through their own period qualify.
func (b *Bar) IsDraggable() bool {
	return !b.Period.Disabled &&
		!b.Invalid &&
		(b.Period.Draggable == nil || *b.Period.Draggable) &&
		!b.Task.Header &&
		b.Period == b.Task.AsPeriod() &&
		len(b.Task.Periods) == 0
}
