package gantt

import "fmt"

// Connector is a plain elbow arrow from a dependency bar to its dependent.
// It only tracks bar movement; no routing around other bars is done.
type Connector struct {
	From    *Bar
	To      *Bar
	Element *Element
	curve   float64
}

var _ Arrow = (*Connector)(nil)

// NewConnector draws the arrow into parent and registers it on both bars.
func NewConnector(from, to *Bar, parent *Element, curve float64) *Connector {
	c := &Connector{From: from, To: to, curve: curve}
	c.Element = newElement("path", parent, "arrow")
	c.Element.Set("data-from", from.Task.ID).Set("data-to", to.Task.ID)
	c.Update()
	from.Arrows = append(from.Arrows, c)
	to.Arrows = append(to.Arrows, c)
	return c
}

// Update recomputes the path from the bars' live geometry.
func (c *Connector) Update() {
	if c.From.Rect == nil || c.To.Rect == nil {
		return
	}
	from, to := c.From.Rect, c.To.Rect
	startX := from.X() + from.Width()/2
	startY := from.Y() + from.Height()
	endX := to.X() - c.curve
	endY := to.Y() + to.Height()/2

	d := fmt.Sprintf("M %s %s V %s H %s m -5 -5 l 5 5 l -5 5",
		formatNumber(startX), formatNumber(startY),
		formatNumber(endY), formatNumber(endX))
	c.Element.Set("d", d)
}
