package gantt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElement_AttributesAndGeometry(t *testing.T) {
	rect := newElement("rect", nil, "bar")
	rect.SetNum("x", 12.5).SetNum("y", 4).SetNum("width", 30).SetNum("height", 20)

	assert.Equal(t, 12.5, rect.X())
	assert.Equal(t, 42.5, rect.EndX())
	assert.Equal(t, 20.0, rect.Height())

	rect.SetNum("x", 1)
	v, ok := rect.Attr("x")
	require.True(t, ok)
	assert.Equal(t, "1", v)
	assert.Zero(t, rect.Num("missing"))

	rect.Set("bogus", "abc")
	assert.Zero(t, rect.Num("bogus"))
}

func TestElement_Classes(t *testing.T) {
	e := newElement("g", nil, "bar-wrapper", "", "custom", "custom")
	assert.Equal(t, []string{"bar-wrapper", "custom"}, e.Classes())

	assert.True(t, e.ToggleClass("active"))
	assert.True(t, e.HasClass("active"))
	assert.False(t, e.ToggleClass("active"))
	assert.False(t, e.HasClass("active"))

	e.Set("class", "a  b")
	assert.Equal(t, []string{"a", "b"}, e.Classes())
	cls, _ := e.Attr("class")
	assert.Equal(t, "a b", cls)
}

func TestElement_TreeAndFind(t *testing.T) {
	root := newElement("g", nil, "bar-wrapper")
	group := newElement("g", root, "bar-group")
	bar := newElement("rect", group, "bar")
	handles := newElement("g", root, "handle-group")
	left := newElement("rect", handles, "handle", "left")
	newElement("rect", handles, "handle", "right")

	assert.Same(t, root, bar.Parent().Parent())
	assert.Same(t, bar, root.Find("bar"))
	assert.Same(t, left, root.Find("handle", "left"))
	assert.Len(t, root.FindAll("handle"), 2)
	assert.Nil(t, root.Find("progress"))
	assert.Nil(t, root.Find())

	// re-parenting detaches from the old parent
	handles.Append(bar)
	assert.Empty(t, group.Children())
	assert.Same(t, handles, bar.Parent())
}

func TestElement_WriteSVG(t *testing.T) {
	root := newElement("g", nil, "bar-wrapper")
	root.Set("data-id", `a"b`)
	label := newElement("text", root, "bar-label")
	label.SetNum("x", 10)
	label.Text = "Q&A <1>"
	newElement("rect", root, "bar").SetNum("width", 5)

	want := `<g class="bar-wrapper" data-id="a&quot;b">
  <text class="bar-label" x="10">Q&amp;A &lt;1&gt;</text>
  <rect class="bar" width="5" />
</g>
`
	assert.Equal(t, want, root.String())
}
