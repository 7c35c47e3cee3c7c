package interaction

import (
	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/selection"
)

// Gesture is the pointer gesture in progress.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureConnect
	GestureDrag
	GestureBrush
)

func (g Gesture) String() string {
	switch g {
	case GestureConnect:
		return "connect"
	case GestureDrag:
		return "drag"
	case GestureBrush:
		return "brush"
	default:
		return "none"
	}
}

// State is everything the controller remembers between events.
type State struct {
	Mods    Modifiers
	Gesture Gesture

	// PendingSource is the vertex a connect gesture started on.
	PendingSource graph.VertexID
	// Anchor is where the current drag or brush started.
	Anchor graph.Position
	// Last is the pointer position already applied to a drag.
	Last  graph.Position
	Moved bool

	ArmedVertex graph.VertexKind
	ArmedEdge   graph.EdgeKind

	// HeldKey is the key whose action already ran and is waiting for keyup.
	HeldKey string

	Prompting    bool
	PromptVertex graph.VertexID
}

// NewState returns the initial state: Z spiders and simple edges armed.
func NewState() State {
	return State{ArmedVertex: graph.KindZ, ArmedEdge: graph.EdgeSimple}
}

// PreviewKind is the transient feedback being shown.
type PreviewKind int

const (
	PreviewNone PreviewKind = iota
	PreviewEdge
	PreviewBrush
	PreviewMove
)

// Preview is transient feedback for the display. None of it is committed to the
// host until the gesture ends.
type Preview struct {
	Kind PreviewKind
	// From and To are the ends of a connect line.
	From graph.VertexID
	To   graph.Position
	Rect selection.Rect
	// Moved lists the vertices a drag has moved so far.
	Moved []graph.VertexID
}
