package gantt

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Shape exposes the live geometry of a drawn primitive.
type Shape interface {
	X() float64
	Y() float64
	Width() float64
	Height() float64
	EndX() float64
}

type attribute struct {
	name  string
	value string
}

// Element is one node of an SVG tree. Attributes keep insertion order so
// output is stable.
type Element struct {
	Tag      string
	Text     string
	attrs    []attribute
	classes  []string
	children []*Element
	parent   *Element
}

var _ Shape = (*Element)(nil)

// newElement creates an element, appending it to parent when non-nil.
func newElement(tag string, parent *Element, classes ...string) *Element {
	e := &Element{Tag: tag}
	for _, c := range classes {
		e.AddClass(c)
	}
	if parent != nil {
		parent.Append(e)
	}
	return e
}

// Append adds child as the last child of e.
func (e *Element) Append(child *Element) *Element {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = e
	e.children = append(e.children, child)
	return child
}

func (e *Element) removeChild(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Children returns the direct children of e.
func (e *Element) Children() []*Element {
	return e.children
}

// Parent returns the element e is attached to, if any.
func (e *Element) Parent() *Element {
	return e.parent
}

// Set stores a string attribute, replacing any previous value.
func (e *Element) Set(name, value string) *Element {
	if name == "class" {
		e.classes = nil
		for _, c := range strings.Fields(value) {
			e.AddClass(c)
		}
		return e
	}
	for i := range e.attrs {
		if e.attrs[i].name == name {
			e.attrs[i].value = value
			return e
		}
	}
	e.attrs = append(e.attrs, attribute{name: name, value: value})
	return e
}

// SetNum stores a numeric attribute.
func (e *Element) SetNum(name string, v float64) *Element {
	return e.Set(name, formatNumber(v))
}

// Attr returns the raw attribute value.
func (e *Element) Attr(name string) (string, bool) {
	if name == "class" {
		return strings.Join(e.classes, " "), len(e.classes) > 0
	}
	for _, a := range e.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// Num returns a numeric attribute, 0 when absent or unparsable.
func (e *Element) Num(name string) float64 {
	s, ok := e.Attr(name)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func (e *Element) X() float64      { return e.Num("x") }
func (e *Element) Y() float64      { return e.Num("y") }
func (e *Element) Width() float64  { return e.Num("width") }
func (e *Element) Height() float64 { return e.Num("height") }
func (e *Element) EndX() float64   { return e.X() + e.Width() }

// --- Classes ---

func (e *Element) HasClass(class string) bool {
	for _, c := range e.classes {
		if c == class {
			return true
		}
	}
	return false
}

func (e *Element) AddClass(class string) {
	if class == "" || e.HasClass(class) {
		return
	}
	e.classes = append(e.classes, class)
}

func (e *Element) RemoveClass(class string) {
	for i, c := range e.classes {
		if c == class {
			e.classes = append(e.classes[:i], e.classes[i+1:]...)
			return
		}
	}
}

// ToggleClass flips class and reports whether it is now present.
func (e *Element) ToggleClass(class string) bool {
	if e.HasClass(class) {
		e.RemoveClass(class)
		return false
	}
	e.AddClass(class)
	return true
}

// Classes returns the element's classes in insertion order.
func (e *Element) Classes() []string {
	return e.classes
}

// Find returns the first descendant (depth first, e included) carrying
// every given class.
func (e *Element) Find(classes ...string) *Element {
	if e.hasAll(classes) {
		return e
	}
	for _, c := range e.children {
		if found := c.Find(classes...); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant (e included) carrying all given classes.
func (e *Element) FindAll(classes ...string) []*Element {
	var out []*Element
	if e.hasAll(classes) {
		out = append(out, e)
	}
	for _, c := range e.children {
		out = append(out, c.FindAll(classes...)...)
	}
	return out
}

func (e *Element) hasAll(classes []string) bool {
	if len(classes) == 0 {
		return false
	}
	for _, c := range classes {
		if !e.HasClass(c) {
			return false
		}
	}
	return true
}

// --- Output ---

// WriteSVG writes e and its subtree as indented XML.
func (e *Element) WriteSVG(svg *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(svg, "%s<%s", indent, e.Tag)
	if len(e.classes) > 0 {
		fmt.Fprintf(svg, ` class="%s"`, escapeXML(strings.Join(e.classes, " ")))
	}
	for _, a := range e.attrs {
		fmt.Fprintf(svg, ` %s="%s"`, a.name, escapeXML(a.value))
	}
	switch {
	case len(e.children) == 0 && e.Text == "":
		svg.WriteString(" />\n")
	case len(e.children) == 0:
		fmt.Fprintf(svg, ">%s</%s>\n", escapeXML(e.Text), e.Tag)
	default:
		svg.WriteString(">\n")
		if e.Text != "" {
			fmt.Fprintf(svg, "%s  %s\n", indent, escapeXML(e.Text))
		}
		for _, c := range e.children {
			c.WriteSVG(svg, depth+1)
		}
		fmt.Fprintf(svg, "%s</%s>\n", indent, e.Tag)
	}
}

// String renders the subtree.
func (e *Element) String() string {
	var buf bytes.Buffer
	e.WriteSVG(&buf, 0)
	return buf.String()
}
