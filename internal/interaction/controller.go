// Package interaction turns pointer and keyboard primitives into graph edits and
// selection changes.
//
// All state lives in an explicit State value, so the controller can be driven
// from tests without any input device.
package interaction

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/phase"
	"github.com/psidex/zxedit/internal/selection"
)

// ErrUnknownEvent is returned by Handle for event types it does not know.
var ErrUnknownEvent = errors.New("unknown event")

// Reasons passed to Sink.StructureChanged.
const (
	ReasonAddVertex = "add vertex"
	ReasonAddEdge   = "add edge"
	ReasonMove      = "move"
	ReasonDelete    = "delete"
	ReasonPhase     = "set phase"
)

// Actions passed to Sink.RequestAction for the history keys.
const (
	ActionUndo = "undo"
	ActionRedo = "redo"
)

// Sink receives everything the controller wants the outside world to know.
type Sink interface {
	StructureChanged(reason string)
	SelectionChanged()
	Preview(p Preview)
	PromptPhase(id graph.VertexID, current phase.Phase)
	ArmedChanged(v graph.VertexKind, e graph.EdgeKind)
	// RequestAction forwards an opaque action to the host. Undo and redo use
	// ActionUndo and ActionRedo, operation buttons use their id.
	RequestAction(name string) error
}

// Controller dispatches events against one graph.
type Controller struct {
	g     *graph.Graph
	sel   *selection.Engine
	sink  Sink
	state State

	// ReadOnly disables every structural gesture. Selection still works.
	ReadOnly bool
}

func New(g *graph.Graph, sink Sink) *Controller {
	return &Controller{
		g:     g,
		sel:   selection.New(g, sink),
		sink:  sink,
		state: NewState(),
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state }

// Selection exposes the selection engine driving the graph's flags.
func (c *Controller) Selection() *selection.Engine { return c.sel }

// Reset drops every in-progress gesture and the phase prompt. The armed kinds
// are kept. Called when the graph is replaced underneath the controller.
func (c *Controller) Reset() {
	c.sel.Cancel()
	c.state.Gesture = GestureNone
	c.state.Moved = false
	c.state.Prompting = false
	c.state.HeldKey = ""
}

// Handle applies one event. Returned errors are validation failures for the user
// to see; the graph is unchanged by a failed event.
func (c *Controller) Handle(ev Event) error {
	switch ev := ev.(type) {
	case PointerDown:
		c.state.Mods = ev.Mods
		return c.pointerDown(ev)
	case PointerMove:
		c.state.Mods = ev.Mods
		c.pointerMove(ev)
		return nil
	case PointerUp:
		c.state.Mods = ev.Mods
		return c.pointerUp(ev)
	case KeyDown:
		c.state.Mods = ev.Mods
		return c.keyDown(ev)
	case KeyUp:
		c.state.Mods = ev.Mods
		if strings.EqualFold(c.state.HeldKey, ev.Key) {
			c.state.HeldKey = ""
		}
		return nil
	case DoubleActivate:
		c.doubleActivate(ev)
		return nil
	case PhaseEntered:
		return c.phaseEntered(ev)
	case OperationActivated:
		if c.ReadOnly {
			return nil
		}
		return c.sink.RequestAction(ev.ID)
	default:
		return errors.Wrapf(ErrUnknownEvent, "%T", ev)
	}
}

func (c *Controller) pointerDown(ev PointerDown) error {
	if c.state.Gesture != GestureNone {
		c.cancelGesture()
	}
	connect := ev.Mods.Connect && !c.ReadOnly

	switch ev.Target.Kind {
	case TargetVertex:
		id := ev.Target.Vertex
		if !c.g.Has(id) || c.prompted(id) {
			return nil
		}
		if connect {
			// Starting a connection never touches the selection.
			c.state.Gesture = GestureConnect
			c.state.PendingSource = id
			c.sink.Preview(Preview{Kind: PreviewEdge, From: id, To: ev.Pos})
			return nil
		}
		c.sel.ClickVertex(id, ev.Mods.Multi)
		if v, _ := c.g.Vertex(id); v.Selected && !c.ReadOnly {
			c.state.Gesture = GestureDrag
			c.state.Anchor = ev.Pos
			c.state.Last = ev.Pos
			c.state.Moved = false
		}
	case TargetEdge:
		if connect {
			return nil
		}
		c.sel.ClickEdge(ev.Target.Edge, ev.Mods.Multi)
	default:
		if connect {
			c.g.AddVertex(ev.Pos, c.state.ArmedVertex, phase.Zero)
			c.sink.StructureChanged(ReasonAddVertex)
			return nil
		}
		c.sel.BrushStart(ev.Mods.Multi)
		c.state.Gesture = GestureBrush
		c.state.Anchor = ev.Pos
	}
	return nil
}

func (c *Controller) pointerMove(ev PointerMove) {
	switch c.state.Gesture {
	case GestureConnect:
		c.sink.Preview(Preview{Kind: PreviewEdge, From: c.state.PendingSource, To: ev.Pos})
	case GestureDrag:
		c.dragTo(ev.Pos)
	case GestureBrush:
		r := c.brushRect(ev.Pos)
		c.sel.BrushUpdate(r)
		c.sink.Preview(Preview{Kind: PreviewBrush, Rect: r})
	}
}

func (c *Controller) dragTo(p graph.Position) {
	dx, dy := p.X-c.state.Last.X, p.Y-c.state.Last.Y
	if dx == 0 && dy == 0 {
		return
	}
	ids, _ := c.g.Selected()
	c.g.Move(ids, dx, dy)
	c.state.Last = p
	c.state.Moved = true
	c.sink.Preview(Preview{Kind: PreviewMove, Moved: ids})
}

func (c *Controller) brushRect(p graph.Position) selection.Rect {
	return selection.Rect{X0: c.state.Anchor.X, Y0: c.state.Anchor.Y, X1: p.X, Y1: p.Y}
}

func (c *Controller) pointerUp(ev PointerUp) error {
	gesture := c.state.Gesture
	c.state.Gesture = GestureNone

	switch gesture {
	case GestureConnect:
		c.sink.Preview(Preview{Kind: PreviewNone})
		src := c.state.PendingSource
		if ev.Target.Kind != TargetVertex || ev.Target.Vertex == src {
			return nil
		}
		if _, err := c.g.AddEdge(src, ev.Target.Vertex, c.state.ArmedEdge); err != nil {
			return err
		}
		c.sink.StructureChanged(ReasonAddEdge)
	case GestureDrag:
		c.dragTo(ev.Pos)
		if c.state.Moved {
			c.state.Moved = false
			c.sink.StructureChanged(ReasonMove)
		}
	case GestureBrush:
		c.sel.BrushUpdate(c.brushRect(ev.Pos))
		c.sel.BrushEnd()
		c.sink.Preview(Preview{Kind: PreviewNone})
	}
	return nil
}

// cancelGesture abandons whatever the pointer was doing. A drag that already
// moved vertices is committed, since the positions are in the graph.
func (c *Controller) cancelGesture() {
	switch c.state.Gesture {
	case GestureBrush:
		c.sel.BrushEnd()
	case GestureDrag:
		if c.state.Moved {
			c.sink.StructureChanged(ReasonMove)
		}
	}
	c.state.Gesture = GestureNone
	c.state.Moved = false
	c.sink.Preview(Preview{Kind: PreviewNone})
}

func (c *Controller) keyDown(ev KeyDown) error {
	if c.state.HeldKey != "" && strings.EqualFold(c.state.HeldKey, ev.Key) {
		return nil
	}
	c.state.HeldKey = ev.Key
	if c.ReadOnly {
		return nil
	}

	switch strings.ToLower(ev.Key) {
	case "delete", "backspace":
		c.deleteSelection()
	case "x":
		c.state.ArmedVertex = c.state.ArmedVertex.Next()
		c.sink.ArmedChanged(c.state.ArmedVertex, c.state.ArmedEdge)
	case "e":
		c.state.ArmedEdge = c.state.ArmedEdge.Toggle()
		c.sink.ArmedChanged(c.state.ArmedVertex, c.state.ArmedEdge)
	case "z":
		if ev.Mods.Multi {
			return c.sink.RequestAction(ActionRedo)
		}
		return c.sink.RequestAction(ActionUndo)
	}
	return nil
}

func (c *Controller) deleteSelection() {
	if c.state.Gesture != GestureNone {
		c.cancelGesture()
	}
	vs, es := c.g.Selected()
	removed := c.g.RemoveEdges(es...)
	removed += c.g.RemoveVertices(vs...)
	if removed == 0 {
		return
	}
	if c.state.Prompting && !c.g.Has(c.state.PromptVertex) {
		c.state.Prompting = false
	}
	c.sink.StructureChanged(ReasonDelete)
	c.sink.SelectionChanged()
}

func (c *Controller) prompted(id graph.VertexID) bool {
	return c.state.Prompting && c.state.PromptVertex == id
}

func (c *Controller) doubleActivate(ev DoubleActivate) {
	if c.ReadOnly {
		return
	}
	v, ok := c.g.Vertex(ev.Vertex)
	if !ok {
		return
	}
	c.state.Prompting = true
	c.state.PromptVertex = v.ID
	c.sink.PromptPhase(v.ID, v.Phase)
}

func (c *Controller) phaseEntered(ev PhaseEntered) error {
	if !c.prompted(ev.Vertex) {
		// Stale answer, e.g. the prompt was dropped by a replace.
		return nil
	}
	c.state.Prompting = false
	if ev.Cancelled {
		return nil
	}
	if err := c.g.SetPhase(ev.Vertex, ev.Text); err != nil {
		return err
	}
	c.sink.StructureChanged(ReasonPhase)
	return nil
}
