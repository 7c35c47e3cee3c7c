package snapshot

import (
	"github.com/pkg/errors"

	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/phase"
)

// Full encodes every vertex and edge of g.
func Full(g *graph.Graph) *Snapshot {
	return encode(g, false, false)
}

// Selection encodes only the selected vertices and edges of g.
func Selection(g *graph.Graph) *Snapshot {
	return encode(g, true, false)
}

// Frame encodes all of g with selection flags, for the display.
func Frame(g *graph.Graph) *Snapshot {
	return encode(g, false, true)
}

func encode(g *graph.Graph, selectedOnly, flags bool) *Snapshot {
	s := &Snapshot{Nodes: []Node{}, Links: []Link{}}
	for _, v := range g.Vertices() {
		if selectedOnly && !v.Selected {
			continue
		}
		n := Node{
			Name:   ID(v.ID),
			X:      v.Pos.X,
			Y:      v.Pos.Y,
			T:      int(v.Kind),
			Phase:  v.Phase.String(),
			Ground: v.Ground,
		}
		if v.Pos.Has3D {
			z := v.Pos.Z
			n.Z = &z
		}
		for _, a := range v.VData {
			n.VData = append(n.VData, [2]string{a.Key, a.Value})
		}
		if flags {
			n.Selected = v.Selected
		}
		s.Nodes = append(s.Nodes, n)
	}
	for _, e := range g.Edges() {
		if selectedOnly && !e.Selected {
			continue
		}
		l := Link{Source: ID(e.Source), Target: ID(e.Target), T: int(e.Kind)}
		if flags {
			l.Selected = e.Selected
		}
		s.Links = append(s.Links, l)
	}
	return s
}

// Build validates s and constructs a new graph from it. Phases are adopted
// verbatim. A repeated link retypes the earlier one, like AddEdge.
func (s *Snapshot) Build() (*graph.Graph, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	g := graph.New()
	for _, n := range s.Nodes {
		v := graph.Vertex{
			ID:     graph.VertexID(n.Name),
			Pos:    graph.At(n.X, n.Y),
			Kind:   graph.VertexKind(n.T),
			Phase:  phase.Label(n.Phase),
			Ground: n.Ground,
		}
		if n.Z != nil {
			v.Pos.Z = *n.Z
			v.Pos.Has3D = true
		}
		for _, kv := range n.VData {
			v.VData = append(v.VData, graph.Annotation{Key: kv[0], Value: kv[1]})
		}
		if err := g.InsertVertex(v); err != nil {
			return nil, errors.Wrapf(ErrMalformedSnapshot, "node %d: %v", n.Name, err)
		}
	}
	for _, l := range s.Links {
		if _, err := g.AddEdge(graph.VertexID(l.Source), graph.VertexID(l.Target), graph.EdgeKind(l.T)); err != nil {
			return nil, errors.Wrapf(ErrMalformedSnapshot, "link %d-%d: %v", l.Source, l.Target, err)
		}
	}
	return g, nil
}

// MarkSelection clears every selection flag on g and then selects the vertices
// and edges named by sel. Entries that do not exist in g are ignored.
func MarkSelection(g *graph.Graph, sel *Snapshot) {
	for _, v := range g.Vertices() {
		v.Selected = false
		v.PreviouslySelected = false
	}
	for _, e := range g.Edges() {
		e.Selected = false
	}
	if sel == nil {
		return
	}
	for _, n := range sel.Nodes {
		if v, ok := g.Vertex(graph.VertexID(n.Name)); ok {
			v.Selected = true
		}
	}
	for _, l := range sel.Links {
		if e, ok := g.Edge(graph.VertexID(l.Source), graph.VertexID(l.Target)); ok {
			e.Selected = true
		}
	}
}
