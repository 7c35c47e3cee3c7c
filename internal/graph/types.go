package graph

import (
	"fmt"

	"github.com/psidex/zxedit/internal/phase"
)

// VertexID identifies a vertex within one graph. Ids start at 0 and are never
// reused within a session.
type VertexID int

// Position is a vertex location. Z is only meaningful when Has3D is set.
type Position struct {
	X, Y  float64
	Z     float64
	Has3D bool
}

// At returns a 2D position.
func At(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Translate returns p moved by (dx, dy).
func (p Position) Translate(dx, dy float64) Position {
	p.X += dx
	p.Y += dy
	return p
}

// Annotation is one [key, value] pair shown next to a vertex by the viewer.
type Annotation struct {
	Key, Value string
}

// Vertex is a node of the diagram.
type Vertex struct {
	ID     VertexID
	Pos    Position
	Kind   VertexKind
	Phase  phase.Phase
	Ground bool
	VData  []Annotation

	// Selected is transient UI state and is never persisted in a graph snapshot.
	Selected bool
	// PreviouslySelected is the brush baseline, only meaningful mid-brush.
	PreviouslySelected bool
}

// EdgeKey is an unordered vertex pair, stored with A <= B.
type EdgeKey struct {
	A, B VertexID
}

// Key normalizes (a, b) into an EdgeKey.
func Key(a, b VertexID) EdgeKey {
	if b < a {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

// Has reports whether v is one of the endpoints.
func (k EdgeKey) Has(v VertexID) bool {
	return k.A == v || k.B == v
}

// Other returns the endpoint that is not v.
func (k EdgeKey) Other(v VertexID) VertexID {
	if k.A == v {
		return k.B
	}
	return k.A
}

func (k EdgeKey) String() string {
	return fmt.Sprintf("%d_%d", k.A, k.B)
}

// Edge joins two vertices. Source and Target keep the orientation the edge was
// created with so snapshots round-trip, but identity is the unordered Key.
type Edge struct {
	Source, Target VertexID
	Kind           EdgeKind

	// Selected is transient UI state.
	Selected bool
}

func (e *Edge) Key() EdgeKey {
	return Key(e.Source, e.Target)
}
