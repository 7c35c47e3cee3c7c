package interaction

import (
	"github.com/psidex/zxedit/internal/graph"
)

// Modifiers are the modifier keys held during an event. Multi is shift or meta,
// Connect is ctrl.
type Modifiers struct {
	Multi   bool `json:"multi"`
	Connect bool `json:"connect"`
}

// TargetKind says what is under the pointer.
type TargetKind int

const (
	TargetCanvas TargetKind = iota
	TargetVertex
	TargetEdge
)

// Target is the thing under the pointer.
type Target struct {
	Kind   TargetKind
	Vertex graph.VertexID
	Edge   graph.EdgeKey
}

// OnVertex targets vertex id.
func OnVertex(id graph.VertexID) Target {
	return Target{Kind: TargetVertex, Vertex: id}
}

// OnEdge targets the edge between a and b.
func OnEdge(a, b graph.VertexID) Target {
	return Target{Kind: TargetEdge, Edge: graph.Key(a, b)}
}

// Canvas targets empty space.
var Canvas = Target{Kind: TargetCanvas}

// Event is one input primitive.
type Event interface {
	event()
}

type PointerDown struct {
	Pos    graph.Position
	Target Target
	Mods   Modifiers
}

type PointerMove struct {
	Pos  graph.Position
	Mods Modifiers
}

type PointerUp struct {
	Pos    graph.Position
	Target Target
	Mods   Modifiers
}

type KeyDown struct {
	Key  string
	Mods Modifiers
}

type KeyUp struct {
	Key  string
	Mods Modifiers
}

// DoubleActivate opens the phase prompt for a vertex.
type DoubleActivate struct {
	Vertex graph.VertexID
}

// PhaseEntered answers a phase prompt.
type PhaseEntered struct {
	Vertex    graph.VertexID
	Text      string
	Cancelled bool
}

// OperationActivated is a click on a host operation button.
type OperationActivated struct {
	ID string
}

func (PointerDown) event()        {}
func (PointerMove) event()        {}
func (PointerUp) event()          {}
func (KeyDown) event()            {}
func (KeyUp) event()              {}
func (DoubleActivate) event()     {}
func (PhaseEntered) event()       {}
func (OperationActivated) event() {}

// Name is a short lowercase name for ev, used in logs and metrics.
func Name(ev Event) string {
	switch ev.(type) {
	case PointerDown:
		return "pointerdown"
	case PointerMove:
		return "pointermove"
	case PointerUp:
		return "pointerup"
	case KeyDown:
		return "keydown"
	case KeyUp:
		return "keyup"
	case DoubleActivate:
		return "dblclick"
	case PhaseEntered:
		return "phase"
	case OperationActivated:
		return "operation"
	default:
		return "unknown"
	}
}
