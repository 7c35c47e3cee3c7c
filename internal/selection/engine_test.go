package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/phase"
)

type countingNotifier struct{ n int }

func (c *countingNotifier) SelectionChanged() { c.n++ }

// line builds n vertices at (0,0), (10,0), ... joined in a path.
func line(t *testing.T, n int) (*graph.Graph, []graph.VertexID) {
	t.Helper()
	g := graph.New()
	ids := make([]graph.VertexID, n)
	for i := range ids {
		ids[i] = g.AddVertex(graph.At(float64(10*i), 0), graph.KindZ, phase.Zero)
		if i > 0 {
			_, err := g.AddEdge(ids[i-1], ids[i], graph.EdgeSimple)
			require.NoError(t, err)
		}
	}
	return g, ids
}

func selectedVertices(g *graph.Graph) []graph.VertexID {
	vs, _ := g.Selected()
	return vs
}

func TestClickVertex(t *testing.T) {
	g, ids := line(t, 3)
	n := &countingNotifier{}
	e := New(g, n)

	e.ClickVertex(ids[0], false)
	assert.Equal(t, []graph.VertexID{ids[0]}, selectedVertices(g))

	e.ClickVertex(ids[1], true)
	assert.Equal(t, []graph.VertexID{ids[0], ids[1]}, selectedVertices(g))

	e.ClickVertex(ids[1], false)
	assert.Equal(t, []graph.VertexID{ids[0], ids[1]}, selectedVertices(g), "plain click on a selected vertex keeps the selection")
	assert.Equal(t, 2, n.n)

	e.ClickVertex(ids[2], false)
	assert.Equal(t, []graph.VertexID{ids[2]}, selectedVertices(g))

	e.ClickVertex(ids[2], true)
	assert.Empty(t, selectedVertices(g))
	assert.Equal(t, 4, n.n)
}

func TestClickEdge(t *testing.T) {
	g, ids := line(t, 3)
	n := &countingNotifier{}
	e := New(g, n)
	k01, k12 := graph.Key(ids[0], ids[1]), graph.Key(ids[1], ids[2])

	e.ClickVertex(ids[0], false)
	e.ClickEdge(k01, false)
	vs, es := g.Selected()
	assert.Empty(t, vs)
	assert.Equal(t, []graph.EdgeKey{k01}, es)

	e.ClickEdge(k12, true)
	_, es = g.Selected()
	assert.Equal(t, []graph.EdgeKey{k01, k12}, es)

	e.ClickEdge(k01, false)
	_, es = g.Selected()
	assert.Equal(t, []graph.EdgeKey{k01}, es, "plain click on a selected edge keeps only that edge")

	e.ClickEdge(k01, true)
	_, es = g.Selected()
	assert.Empty(t, es)
	assert.Equal(t, 5, n.n)
}

func TestBrushXORWithBaseline(t *testing.T) {
	g, ids := line(t, 4)
	n := &countingNotifier{}
	e := New(g, n)

	e.ClickVertex(ids[0], false)
	e.ClickVertex(ids[1], true)
	before := n.n

	e.BrushStart(true)
	r := Rect{X0: 25, Y0: 5, X1: 5, Y1: -5} // covers ids[1], ids[2]
	e.BrushUpdate(r)
	want := []graph.VertexID{ids[0], ids[2]}
	assert.Equal(t, want, selectedVertices(g))

	e.BrushUpdate(r)
	assert.Equal(t, want, selectedVertices(g), "repeating an update is idempotent")
	assert.Equal(t, before, n.n, "updates do not notify")

	e.BrushEnd()
	assert.Equal(t, want, selectedVertices(g))
	assert.Equal(t, before+1, n.n)
	for _, v := range g.Vertices() {
		assert.False(t, v.PreviouslySelected)
	}
}

func TestBrushWithoutModifierDropsBaseline(t *testing.T) {
	g, ids := line(t, 3)
	e := New(g, nil)

	e.ClickVertex(ids[0], false)
	e.ClickEdge(graph.Key(ids[1], ids[2]), true)

	e.BrushStart(false)
	_, es := g.Selected()
	assert.Empty(t, es)

	e.BrushUpdate(Rect{X0: 15, Y0: -1, X1: 30, Y1: 1})
	assert.Equal(t, []graph.VertexID{ids[2]}, selectedVertices(g))

	e.BrushUpdate(Rect{X0: 100, Y0: 100, X1: 200, Y1: 200})
	assert.Empty(t, selectedVertices(g), "shrinking the brush away deselects")
	e.BrushEnd()
}

func TestRectIsHalfOpen(t *testing.T) {
	r := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}
	assert.True(t, r.Contains(graph.At(0, 0)))
	assert.False(t, r.Contains(graph.At(10, 5)))
	assert.False(t, r.Contains(graph.At(5, 10)))
	assert.True(t, Rect{X0: 10, Y0: 10, X1: 0, Y1: 0}.Contains(graph.At(0, 0)))
}

func TestCancelAndClear(t *testing.T) {
	g, _ := line(t, 2)
	n := &countingNotifier{}
	e := New(g, n)

	e.BrushStart(false)
	e.BrushUpdate(Rect{X0: -1, Y0: -1, X1: 1, Y1: 1})
	_, ok := e.Rect()
	assert.True(t, ok)
	e.Cancel()
	assert.False(t, e.Brushing())
	assert.Zero(t, n.n)

	e.Clear()
	assert.Equal(t, 1, n.n, "the cancelled brush left ids[0] selected")
	e.Clear()
	assert.Equal(t, 1, n.n)
	assert.Empty(t, selectedVertices(g))
}
