// Package display is the websocket surface a browser editor talks to. Inbound
// text frames are pointer and keyboard primitives, outbound frames are redraws,
// previews and prompts.
package display

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/interaction"
	"github.com/psidex/zxedit/internal/snapshot"
)

// ErrBadMessage is returned by Decode for frames that are not a known event.
var ErrBadMessage = errors.New("bad display message")

type inboundTarget struct {
	Vertex *int    `json:"vertex"`
	Edge   *[2]int `json:"edge"`
}

type inbound struct {
	Type      string                `json:"type"`
	X         float64               `json:"x"`
	Y         float64               `json:"y"`
	Target    *inboundTarget        `json:"target"`
	Mods      interaction.Modifiers `json:"mods"`
	Key       string                `json:"key"`
	Vertex    *int                  `json:"vertex"`
	Text      string                `json:"text"`
	Cancelled bool                  `json:"cancelled"`
	ID        string                `json:"id"`
}

func (m inbound) target() interaction.Target {
	switch {
	case m.Target == nil:
		return interaction.Canvas
	case m.Target.Vertex != nil:
		return interaction.OnVertex(graph.VertexID(*m.Target.Vertex))
	case m.Target.Edge != nil:
		return interaction.OnEdge(graph.VertexID(m.Target.Edge[0]), graph.VertexID(m.Target.Edge[1]))
	default:
		return interaction.Canvas
	}
}

// Decode turns one inbound text frame into an event.
func Decode(data []byte) (interaction.Event, error) {
	var m inbound
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(ErrBadMessage, "decode: %v", err)
	}
	pos := graph.At(m.X, m.Y)

	switch m.Type {
	case "pointerdown":
		return interaction.PointerDown{Pos: pos, Target: m.target(), Mods: m.Mods}, nil
	case "pointermove":
		return interaction.PointerMove{Pos: pos, Mods: m.Mods}, nil
	case "pointerup":
		return interaction.PointerUp{Pos: pos, Target: m.target(), Mods: m.Mods}, nil
	case "keydown":
		return interaction.KeyDown{Key: m.Key, Mods: m.Mods}, nil
	case "keyup":
		return interaction.KeyUp{Key: m.Key, Mods: m.Mods}, nil
	case "dblclick":
		if m.Vertex == nil {
			return nil, errors.Wrap(ErrBadMessage, "dblclick without vertex")
		}
		return interaction.DoubleActivate{Vertex: graph.VertexID(*m.Vertex)}, nil
	case "phase":
		if m.Vertex == nil {
			return nil, errors.Wrap(ErrBadMessage, "phase without vertex")
		}
		return interaction.PhaseEntered{Vertex: graph.VertexID(*m.Vertex), Text: m.Text, Cancelled: m.Cancelled}, nil
	case "operation":
		if m.ID == "" {
			return nil, errors.Wrap(ErrBadMessage, "operation without id")
		}
		return interaction.OperationActivated{ID: m.ID}, nil
	default:
		return nil, errors.Wrapf(ErrBadMessage, "unknown type %q", m.Type)
	}
}

type frame struct {
	Type     string              `json:"type"`
	Data     interface{}         `json:"data"`
	Parallel []snapshot.Parallel `json:"parallel,omitempty"`
}

type previewData struct {
	Kind     string           `json:"kind"`
	From     *graph.VertexID  `json:"from,omitempty"`
	X        float64          `json:"x,omitempty"`
	Y        float64          `json:"y,omitempty"`
	Rect     *[4]float64      `json:"rect,omitempty"`
	Vertices []graph.VertexID `json:"vertices,omitempty"`
}

func previewFrame(p interaction.Preview) frame {
	d := previewData{Kind: "none"}
	switch p.Kind {
	case interaction.PreviewEdge:
		from := p.From
		d = previewData{Kind: "edge", From: &from, X: p.To.X, Y: p.To.Y}
	case interaction.PreviewBrush:
		r := p.Rect.Normalize()
		d = previewData{Kind: "brush", Rect: &[4]float64{r.X0, r.Y0, r.X1, r.Y1}}
	case interaction.PreviewMove:
		d = previewData{Kind: "move", Vertices: p.Moved}
	}
	return frame{Type: "preview", Data: d}
}

func graphFrame(s *snapshot.Snapshot) frame {
	return frame{Type: "graph", Data: s, Parallel: snapshot.ParallelLinks(s.Links)}
}

type promptData struct {
	Vertex  graph.VertexID `json:"vertex"`
	Current string         `json:"current"`
}

type errorData struct {
	Message string `json:"message"`
}

type armedData struct {
	Vertex int `json:"vertex"`
	Edge   int `json:"edge"`
}
