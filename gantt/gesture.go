package gantt

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrUnknownTask  = errors.New("unknown task")
	ErrNotDraggable = errors.New("bar is not draggable")
	ErrUnknownKind  = errors.New("unknown gesture kind")
)

// GestureKind names the handle a drag started on.
type GestureKind string

const (
	GestureMove        GestureKind = "move"
	GestureResizeLeft  GestureKind = "resize-left"
	GestureResizeRight GestureKind = "resize-right"
	GestureProgress    GestureKind = "progress"
)

// Gesture is a completed drag, already resolved to a horizontal delta in
// pixels.
type Gesture struct {
	TaskID string
	Kind   GestureKind
	DX     float64
}

// ApplyGesture replays g on the task's bar and commits it on release:
// dates for move and resize, progress for the progress handle. Moving a
// bar moves every task that depends on it, directly or not, by the same
// snapped delta.
func (c *Chart) ApplyGesture(g Gesture) error {
	bar, ok := c.BarFor(g.TaskID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, g.TaskID)
	}
	if !bar.IsDraggable() || bar.Hidden() {
		return fmt.Errorf("%w: %s", ErrNotDraggable, g.TaskID)
	}
	// progress is only dragged through its handle, absent at 0 and 100
	if g.Kind == GestureProgress && bar.HandleProgress == nil {
		return fmt.Errorf("%w: %s has no progress handle", ErrNotDraggable, g.TaskID)
	}

	c.SetDragging(true)
	var touched []*Bar
	switch g.Kind {
	case GestureMove:
		dx := bar.SnapPosition(g.DX)
		touched = append([]*Bar{bar}, c.dependentBars(g.TaskID)...)
		for _, b := range touched {
			x := b.Rect.X() + dx
			b.UpdateBarPosition(BarPosition{X: &x})
		}
	case GestureResizeLeft:
		dx := bar.SnapPosition(g.DX)
		x := bar.Rect.X() + dx
		width := bar.Rect.Width() - dx
		bar.UpdateBarPosition(BarPosition{X: &x, Width: &width})
		touched = []*Bar{bar}
	case GestureResizeRight:
		dx := bar.SnapPosition(g.DX)
		width := bar.Rect.Width() + dx
		bar.UpdateBarPosition(BarPosition{Width: &width})
		touched = []*Bar{bar}
	case GestureProgress:
		bar.UpdateProgressWidth(bar.ProgressRect.Width() + g.DX)
	default:
		c.SetDragging(false)
		return fmt.Errorf("%w: %q", ErrUnknownKind, g.Kind)
	}
	c.SetDragging(false)

	if g.Kind == GestureProgress {
		bar.ProgressChanged()
		bar.SetActionCompleted()
		return nil
	}
	for _, b := range touched {
		b.DateChanged()
		b.SetActionCompleted()
	}
	c.logger.Debug("gesture applied", "task", g.TaskID, "kind", string(g.Kind), "dx", g.DX, "bars", len(touched))
	return nil
}

// dependentBars returns the bars of every task reachable through reverse
// dependency edges from id, in breadth-first order.
func (c *Chart) dependentBars(id string) []*Bar {
	seen := map[string]bool{id: true}
	queue := []string{id}
	var out []*Bar
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range c.tasks {
			if seen[t.ID] || !slices.Contains(t.Dependencies, cur) {
				continue
			}
			seen[t.ID] = true
			queue = append(queue, t.ID)
			if b, ok := c.barsByID[t.ID]; ok && b.Rect != nil {
				out = append(out, b)
			}
		}
	}
	return out
}
