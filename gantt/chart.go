package gantt

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Chart hosts the bars of one render pass and implements ChartContext.
type Chart struct {
	opts     Options
	tasks    []*Task
	start    time.Time
	end      time.Time
	dates    []time.Time
	bars     []*Bar
	barsByID map[string]*Bar
	arrows   []*Connector
	handlers map[string][]func(Event)
	popup    *PopupOptions
	dragging bool
	now      func() time.Time
	logger   *slog.Logger
	measure  TextMeasurer

	gridLayer  *Element
	arrowLayer *Element
	barLayer   *Element
}

var _ ChartContext = (*Chart)(nil)

// ChartOption customises NewChart.
type ChartOption func(*Chart)

// WithClock replaces time.Now, for cool-down and fallback dates.
func WithClock(now func() time.Time) ChartOption {
	return func(c *Chart) { c.now = now }
}

// WithTextMeasurer replaces the label width estimate used when settling.
func WithTextMeasurer(m TextMeasurer) ChartOption {
	return func(c *Chart) { c.measure = m }
}

// NewChart prepares tasks, computes the date range and renders every bar.
// Tasks are modified in place (index, ids, fallback dates).
func NewChart(tasks []*Task, opts Options, logger *slog.Logger, options ...ChartOption) (*Chart, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Chart{
		opts:     opts.Resolve(),
		tasks:    tasks,
		handlers: make(map[string][]func(Event)),
		now:      time.Now,
		logger:   logger,
	}
	for _, o := range options {
		o(c)
	}
	if c.measure == nil {
		c.measure = EstimateTextWidth(c.opts.FontSize)
	}

	c.setupTasks()
	c.setupDates()
	c.render()
	c.logger.Debug("chart prepared",
		"tasks", len(c.tasks),
		"bars", len(c.bars),
		"view_mode", string(c.opts.ViewMode),
		"start", c.start.Format(time.RFC3339),
		"end", c.end.Format(time.RFC3339))
	return c, nil
}

// --- Setup ---

func (c *Chart) setupTasks() {
	today := StartOf(c.now().UTC(), Day)
	for i, t := range c.tasks {
		t.Index = i
		if !t.Start.IsZero() && !t.End.IsZero() && Diff(t.End, t.Start, Year) > 10 {
			t.End = time.Time{}
		}
		if t.Start.IsZero() || t.End.IsZero() {
			t.Invalid = true
		}
		fillPeriodDates(&t.Period, today)
		for _, p := range t.Periods {
			fillPeriodDates(p, today)
		}

		deps := t.Dependencies[:0]
		for _, d := range t.Dependencies {
			if d = strings.TrimSpace(d); d != "" {
				deps = append(deps, d)
			}
		}
		t.Dependencies = deps

		if t.ID == "" {
			t.ID = "task-" + uuid.NewString()
			c.logger.Debug("generated task id", "task", t.Name, "id", t.ID)
		}
	}
}

// fillPeriodDates supplies missing ends and makes a midnight end cover the
// whole final day.
func fillPeriodDates(p *Period, today time.Time) {
	switch {
	case p.Start.IsZero() && p.End.IsZero():
		p.Start = today
		p.End = Add(today, 2, Day)
	case p.Start.IsZero():
		p.Start = Add(p.End, -2, Day)
	case p.End.IsZero():
		p.End = Add(p.Start, 2, Day)
	}
	if p.End.Equal(StartOf(p.End, Day)) {
		p.End = Add(p.End, 24, Hour)
	}
}

func (c *Chart) setupDates() {
	first := true
	extend := func(p *Period) {
		if first || p.Start.Before(c.start) {
			c.start = p.Start
		}
		if first || p.End.After(c.end) {
			c.end = p.End
		}
		first = false
	}
	for _, t := range c.tasks {
		extend(&t.Period)
		for _, p := range t.Periods {
			extend(p)
		}
	}

	c.start = StartOf(c.start, Day)
	c.end = StartOf(c.end, Day)
	switch c.opts.ViewMode {
	case ViewQuarterDay, ViewHalfDay:
		c.start = Add(c.start, -7, Day)
		c.end = Add(c.end, 7, Day)
	case ViewMonth:
		c.start = StartOf(c.start, Year)
		c.end = Add(c.end, 1, Year)
	case ViewYear:
		c.start = Add(c.start, -2, Year)
		c.end = Add(c.end, 2, Year)
	default:
		c.start = Add(c.start, -1, Month)
		c.end = Add(c.end, 1, Month)
	}

	c.dates = c.dates[:0]
	for cur := c.start; cur.Before(c.end); {
		c.dates = append(c.dates, cur)
		switch c.opts.ViewMode {
		case ViewYear:
			cur = Add(cur, 1, Year)
		case ViewMonth:
			cur = Add(cur, 1, Month)
		default:
			cur = Add(cur, c.opts.Step, Hour)
		}
	}
}

// --- Rendering ---

func (c *Chart) render() {
	c.gridLayer = newElement("g", nil, "grid")
	c.arrowLayer = newElement("g", nil, "arrows")
	c.barLayer = newElement("g", nil, "bars")
	c.bars = nil
	c.barsByID = make(map[string]*Bar, len(c.tasks))
	c.arrows = nil

	c.drawGrid()

	for _, t := range c.tasks {
		if len(t.Periods) == 0 {
			c.addBar(t, nil)
			continue
		}
		for _, p := range t.Periods {
			c.addBar(t, p)
		}
	}
	// second phase: label metrics are only known once every bar is placed
	for _, b := range c.bars {
		b.Settle(c.measure)
	}
	c.drawArrows()
}

func (c *Chart) addBar(t *Task, p *Period) {
	b := NewBar(c, t, p)
	c.barLayer.Append(b.Group)
	c.bars = append(c.bars, b)
	if _, ok := c.barsByID[t.ID]; !ok {
		c.barsByID[t.ID] = b
	}
}

func (c *Chart) drawArrows() {
	for _, t := range c.tasks {
		to, ok := c.barsByID[t.ID]
		if !ok || to.Hidden() {
			continue
		}
		for _, dep := range t.Dependencies {
			from, ok := c.barsByID[dep]
			if !ok || from.Hidden() {
				c.logger.Debug("skipping arrow", "from", dep, "to", t.ID)
				continue
			}
			c.arrows = append(c.arrows, NewConnector(from, to, c.arrowLayer, c.opts.ArrowCurve))
		}
	}
}

// GridWidth is the pixel width of all columns.
func (c *Chart) GridWidth() float64 {
	return float64(len(c.dates)) * c.opts.ColumnWidth
}

// GridHeight is the pixel height of the header plus every row.
func (c *Chart) GridHeight() float64 {
	return c.opts.HeaderHeight + c.opts.Padding + (c.opts.BarHeight+c.opts.Padding)*float64(len(c.tasks))
}

func (c *Chart) drawGrid() {
	width, height := c.GridWidth(), c.GridHeight()
	bg := newElement("rect", c.gridLayer, "grid-background")
	bg.SetNum("x", 0).SetNum("y", 0).SetNum("width", width).SetNum("height", height)

	rowHeight := c.opts.BarHeight + c.opts.Padding
	rows := newElement("g", c.gridLayer, "rows")
	y := c.opts.HeaderHeight + c.opts.Padding/2
	for range c.tasks {
		row := newElement("rect", rows, "grid-row")
		row.SetNum("x", 0).SetNum("y", y).SetNum("width", width).SetNum("height", rowHeight)
		y += rowHeight
	}

	ticks := newElement("g", c.gridLayer, "ticks")
	labels := newElement("g", c.gridLayer, "date")
	for i, d := range c.dates {
		x := float64(i) * c.opts.ColumnWidth
		tick := newElement("path", ticks, "tick")
		if c.thickTick(d) {
			tick.AddClass("thick")
		}
		tick.Set("d", fmt.Sprintf("M %s %s v %s", formatNumber(x), formatNumber(c.opts.HeaderHeight), formatNumber(height-c.opts.HeaderHeight)))

		if text := c.lowerLabel(i, d); text != "" {
			label := newElement("text", labels, "lower-text")
			label.SetNum("x", x+c.opts.ColumnWidth/2).SetNum("y", c.opts.HeaderHeight-10)
			label.Text = text
		}
	}
}

func (c *Chart) thickTick(d time.Time) bool {
	switch c.opts.ViewMode {
	case ViewDay:
		return d.Day() == 1
	case ViewWeek:
		return d.Day() < 8
	case ViewMonth:
		return d.Month() == time.January
	}
	return false
}

func (c *Chart) lowerLabel(i int, d time.Time) string {
	lang := c.opts.Language
	switch c.opts.ViewMode {
	case ViewQuarterDay, ViewHalfDay:
		return Format(d, "HH", lang)
	case ViewDay:
		return Format(d, "D", lang)
	case ViewWeek:
		if i == 0 || d.Month() != c.dates[i-1].Month() {
			return Format(d, "D MMM", lang)
		}
		return Format(d, "D", lang)
	case ViewMonth:
		return Format(d, "MMMM", lang)
	case ViewYear:
		return Format(d, "YYYY", lang)
	}
	return ""
}

// SVG renders the whole chart.
func (c *Chart) SVG() string {
	var body bytes.Buffer
	canvas := bounds{}
	canvas.updateRect(0, 0, c.GridWidth(), c.GridHeight())
	for _, b := range c.bars {
		if b.Rect == nil {
			continue
		}
		canvas.updateRect(b.Rect.X(), b.Rect.Y(), b.Rect.Width(), b.Rect.Height())
		if b.Label != nil && b.Label.HasClass("big") {
			canvas.updatePoint(b.Label.X()+c.measure(b.Label.Text), b.Label.Y())
		}
	}
	c.gridLayer.WriteSVG(&body, 1)
	c.arrowLayer.WriteSVG(&body, 1)
	c.barLayer.WriteSVG(&body, 1)
	return assembleFinalSVG(body, canvas, c.opts.FontSize)
}

// --- ChartContext ---

func (c *Chart) Start() time.Time { return c.start }
func (c *Chart) End() time.Time { return c.end }
func (c *Chart) Options() Options { return c.opts }
func (c *Chart) Now() time.Time { return c.now() }
func (c *Chart) BarBeingDragged() bool { return c.dragging }

func (c *Chart) ViewIs(mode ViewMode) bool {
	return c.opts.ViewMode == mode
}

func (c *Chart) BarFor(id string) (*Bar, bool) {
	b, ok := c.barsByID[id]
	return b, ok
}

func (c *Chart) UnselectAll() {
	for _, b := range c.bars {
		b.Group.RemoveClass("active")
	}
}

func (c *Chart) TriggerEvent(ev Event) {
	attrs := []any{"event", ev.Name}
	if ev.Task != nil {
		attrs = append(attrs, "task", ev.Task.ID)
	}
	switch ev.Name {
	case EventDateChange:
		attrs = append(attrs, "start", ev.Start.Format(time.RFC3339), "end", ev.End.Format(time.RFC3339))
	case EventProgressChange:
		attrs = append(attrs, "progress", ev.Progress)
	}
	c.logger.Debug("chart event", attrs...)
	for _, h := range c.handlers[ev.Name] {
		h(ev)
	}
}

func (c *Chart) ShowPopup(opts PopupOptions) {
	c.popup = &opts
	c.logger.Debug("popup", "title", opts.Title, "subtitle", opts.Subtitle)
}

// --- Accessors ---

// On registers a handler for an event name.
func (c *Chart) On(name string, handler func(Event)) {
	c.handlers[name] = append(c.handlers[name], handler)
}

// Popup returns the last popup request, if any.
func (c *Chart) Popup() (PopupOptions, bool) {
	if c.popup == nil {
		return PopupOptions{}, false
	}
	return *c.popup, true
}

// SetDragging marks a gesture as in progress; popups are suppressed meanwhile.
func (c *Chart) SetDragging(dragging bool) {
	c.dragging = dragging
}

// Bars returns every bar in render order.
func (c *Chart) Bars() []*Bar {
	return c.bars
}

// Tasks returns the chart's tasks.
func (c *Chart) Tasks() []*Task {
	return c.tasks
}

// Arrows returns the dependency connectors.
func (c *Chart) Arrows() []*Connector {
	return c.arrows
}

// Dates returns the start instant of every column.
func (c *Chart) Dates() []time.Time {
	return c.dates
}

// --- Canvas assembly ---

type bounds struct {
	minX, maxX, minY, maxY float64
	isSet                  bool
}

func (b *bounds) updatePoint(x, y float64) {
	if !b.isSet {
		b.minX, b.maxX = x, x
		b.minY, b.maxY = y, y
		b.isSet = true
		return
	}
	b.minX = math.Min(b.minX, x)
	b.maxX = math.Max(b.maxX, x)
	b.minY = math.Min(b.minY, y)
	b.maxY = math.Max(b.maxY, y)
}

func (b *bounds) updateRect(x, y, width, height float64) {
	if width > 0 && height > 0 {
		b.updatePoint(x, y)
		b.updatePoint(x+width, y+height)
	}
}

func assembleFinalSVG(body bytes.Buffer, canvas bounds, fontSize int) string {
	width := math.Max(canvas.maxX-math.Min(canvas.minX, 0), 10)
	height := math.Max(canvas.maxY-math.Min(canvas.minY, 0), 10)

	var svg bytes.Buffer
	fmt.Fprintf(&svg, `<svg class="gantt" width="%.0f" height="%.0f" xmlns="http://www.w3.org/2000/svg">`, math.Ceil(width), math.Ceil(height))
	svg.WriteString("\n")
	fmt.Fprintf(&svg, "  <rect width=\"%.0f\" height=\"%.0f\" fill=\"#FFFFFF\" />\n", math.Ceil(width), math.Ceil(height))
	svg.WriteString("  <style>\n")
	fmt.Fprintf(&svg, "    text { font-family: %s; font-size: %dpx; }\n", defaultFont, fontSize)
	svg.WriteString(svgStyles)
	svg.WriteString("  </style>\n")
	svg.Write(body.Bytes())
	svg.WriteString("</svg>\n")
	return svg.String()
}

const defaultFont = "Arial, sans-serif"

// svgStyles makes a standalone SVG readable without the HTML stylesheet.
const svgStyles = `    .grid-background { fill: none; }
    .grid-row { fill: #ffffff; }
    .grid-row:nth-child(even) { fill: #f5f5f5; }
    .tick { stroke: #e0e0e0; stroke-width: 0.2; }
    .tick.thick { stroke-width: 0.4; }
    .lower-text { fill: #555; text-anchor: middle; }
    .arrow { fill: none; stroke: #666; stroke-width: 1.4; }
    .bar { fill: #b8c2cc; stroke: #8d99a6; stroke-width: 0; }
    .bar-invalid { fill: transparent; stroke: #8d99a6; stroke-width: 1; stroke-dasharray: 5; }
    .bar-progress { fill: #a3a3ff; }
    .bar-label { fill: #fff; dominant-baseline: central; text-anchor: middle; }
    .bar-label-left { text-anchor: start; }
    .bar-label-right { text-anchor: end; }
    .bar-label.big { fill: #555; text-anchor: start; }
    .handle { fill: #ddd; opacity: 0; }
    .bar-wrapper.active .bar { fill: #a9b5c1; }
    .bar-wrapper.active .bar-progress { fill: #8a8aff; }
`
