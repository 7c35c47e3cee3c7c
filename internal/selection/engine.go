// Package selection implements click, multi-toggle and rubber-band selection
// over a graph's transient selection flags.
package selection

import (
	"github.com/psidex/zxedit/internal/graph"
)

// Notifier receives one call per committed selection change.
type Notifier interface {
	SelectionChanged()
}

// Rect is a brush rectangle in graph coordinates. The corners may be given in
// any order.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Normalize returns r with X0 <= X1 and Y0 <= Y1.
func (r Rect) Normalize() Rect {
	if r.X1 < r.X0 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y1 < r.Y0 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Contains uses half-open bounds [X0, X1) x [Y0, Y1) on the normalized rectangle.
func (r Rect) Contains(p graph.Position) bool {
	n := r.Normalize()
	return n.X0 <= p.X && p.X < n.X1 && n.Y0 <= p.Y && p.Y < n.Y1
}

// Engine mutates the selection flags of one graph.
type Engine struct {
	g        *graph.Graph
	notifier Notifier

	brushing bool
	rect     Rect
	hasRect  bool
}

func New(g *graph.Graph, notifier Notifier) *Engine {
	return &Engine{g: g, notifier: notifier}
}

func (e *Engine) emit() {
	if e.notifier != nil {
		e.notifier.SelectionChanged()
	}
}

// ClickVertex applies a click on vertex id. With multi the vertex is toggled
// alone. Otherwise an unselected vertex becomes the whole selection and an
// already selected one leaves the selection as is, so a drag can start from a
// multi-selection.
func (e *Engine) ClickVertex(id graph.VertexID, multi bool) {
	v, ok := e.g.Vertex(id)
	if !ok {
		return
	}
	if multi {
		v.Selected = !v.Selected
		e.emit()
		return
	}
	if v.Selected {
		return
	}
	e.clearAll()
	v.Selected = true
	e.emit()
}

// ClickEdge applies a click on the edge k. Without multi everything else is
// deselected first, so a plain click always leaves the edge selected on its
// own. With multi the edge is toggled.
func (e *Engine) ClickEdge(k graph.EdgeKey, multi bool) {
	edge, ok := e.g.Edge(k.A, k.B)
	if !ok {
		return
	}
	if !multi {
		e.clearAll()
	}
	edge.Selected = !edge.Selected
	e.emit()
}

// BrushStart snapshots the baseline. Without multi the baseline is empty and
// edge selection is dropped.
func (e *Engine) BrushStart(multi bool) {
	for _, v := range e.g.Vertices() {
		v.PreviouslySelected = v.Selected && multi
	}
	if !multi {
		for _, edge := range e.g.Edges() {
			edge.Selected = false
		}
	}
	e.brushing = true
	e.hasRect = false
}

// BrushUpdate sets every vertex to baseline XOR inside(r). Repeating it with the
// same rectangle changes nothing.
func (e *Engine) BrushUpdate(r Rect) {
	if !e.brushing {
		return
	}
	e.rect = r.Normalize()
	e.hasRect = true
	for _, v := range e.g.Vertices() {
		v.Selected = v.PreviouslySelected != e.rect.Contains(v.Pos)
	}
}

// BrushEnd commits the last computed selection.
func (e *Engine) BrushEnd() {
	if !e.brushing {
		return
	}
	e.finish()
	e.emit()
}

// Cancel abandons an in-progress brush without notifying.
func (e *Engine) Cancel() {
	if e.brushing {
		e.finish()
	}
}

func (e *Engine) finish() {
	for _, v := range e.g.Vertices() {
		v.PreviouslySelected = false
	}
	e.brushing = false
	e.hasRect = false
}

// Brushing reports whether a brush gesture is in progress.
func (e *Engine) Brushing() bool { return e.brushing }

// Rect returns the current brush rectangle, if one has been drawn.
func (e *Engine) Rect() (Rect, bool) {
	return e.rect, e.brushing && e.hasRect
}

// Clear deselects everything, notifying only if something was selected.
func (e *Engine) Clear() {
	if e.clearAll() {
		e.emit()
	}
}

func (e *Engine) clearAll() bool {
	changed := false
	for _, v := range e.g.Vertices() {
		if v.Selected {
			v.Selected = false
			changed = true
		}
	}
	for _, edge := range e.g.Edges() {
		if edge.Selected {
			edge.Selected = false
			changed = true
		}
	}
	return changed
}

// Selected returns the selected vertex ids and edge keys.
func (e *Engine) Selected() ([]graph.VertexID, []graph.EdgeKey) {
	return e.g.Selected()
}
