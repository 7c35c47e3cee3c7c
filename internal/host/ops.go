package host

import (
	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/phase"
	"github.com/psidex/zxedit/internal/snapshot"
)

// Rewrite is an operation the host offers as a button. Applies decides the
// button's active flag from the current selection; Apply performs it on a graph
// whose selection flags are already set.
type Rewrite struct {
	ID      string
	Text    string
	Tooltip string
	Applies func(g *graph.Graph) bool
	Apply   func(g *graph.Graph) error
}

// DefaultRewrites are the operations offered by the reference host.
func DefaultRewrites() []Rewrite {
	return []Rewrite{
		{
			ID:      "to_z",
			Text:    "To Z",
			Tooltip: "Turn selected X spiders into Z spiders, toggling their edges",
			Applies: func(g *graph.Graph) bool { return len(selectedOfKind(g, graph.KindX)) > 0 },
			Apply:   func(g *graph.Graph) error { return colorChange(g, graph.KindX) },
		},
		{
			ID:      "to_x",
			Text:    "To X",
			Tooltip: "Turn selected Z spiders into X spiders, toggling their edges",
			Applies: func(g *graph.Graph) bool { return len(selectedOfKind(g, graph.KindZ)) > 0 },
			Apply:   func(g *graph.Graph) error { return colorChange(g, graph.KindZ) },
		},
		{
			ID:      "rem_id",
			Text:    "Remove identity",
			Tooltip: "Remove selected phaseless spiders with two neighbours",
			Applies: func(g *graph.Graph) bool { return len(removableIdentities(g)) > 0 },
			Apply:   removeIdentities,
		},
		{
			ID:      "id_z",
			Text:    "Add identity",
			Tooltip: "Insert a Z identity spider on each selected edge",
			Applies: func(g *graph.Graph) bool {
				_, es := g.Selected()
				return len(es) > 0
			},
			Apply: insertIdentities,
		},
	}
}

// Descriptors computes the operation map for g's current selection.
func Descriptors(rewrites []Rewrite, g *graph.Graph) snapshot.Operations {
	ops := make(snapshot.Operations, len(rewrites))
	for _, r := range rewrites {
		ops[r.ID] = snapshot.Operation{Text: r.Text, Tooltip: r.Tooltip, Active: r.Applies(g)}
	}
	return ops
}

func selectedOfKind(g *graph.Graph, kind graph.VertexKind) []graph.VertexID {
	var out []graph.VertexID
	for _, v := range g.Vertices() {
		if v.Selected && v.Kind == kind {
			out = append(out, v.ID)
		}
	}
	return out
}

// colorChange swaps the colour of every selected spider of kind from. Each
// incident simple or Hadamard edge is toggled once per converted endpoint.
func colorChange(g *graph.Graph, from graph.VertexKind) error {
	for _, id := range selectedOfKind(g, from) {
		if err := g.SetKind(id, from.Toggle()); err != nil {
			return err
		}
		for _, e := range g.IncidentEdges(id) {
			if e.Kind == graph.EdgeVariable {
				continue
			}
			e.Kind = e.Kind.Toggle()
		}
	}
	return nil
}

func removableIdentities(g *graph.Graph) []graph.VertexID {
	var out []graph.VertexID
	for _, v := range g.Vertices() {
		if !v.Selected || !v.Kind.Spider() || !v.Phase.IsZero() || g.Degree(v.ID) != 2 {
			continue
		}
		ok := true
		for _, e := range g.IncidentEdges(v.ID) {
			if e.Kind == graph.EdgeVariable {
				ok = false
			}
		}
		if ok {
			out = append(out, v.ID)
		}
	}
	return out
}

// removeIdentities drops each removable identity and joins its two neighbours.
// The new edge is simple when both old edges had the same kind, Hadamard
// otherwise. Candidates are re-checked one by one since earlier removals change
// degrees.
func removeIdentities(g *graph.Graph) error {
	for _, id := range removableIdentities(g) {
		v, ok := g.Vertex(id)
		if !ok || g.Degree(id) != 2 || !v.Phase.IsZero() {
			continue
		}
		edges := g.IncidentEdges(id)
		if len(edges) != 2 {
			continue
		}
		n1, n2 := edges[0].Key().Other(id), edges[1].Key().Other(id)
		kind := graph.EdgeHadamard
		if edges[0].Kind == edges[1].Kind {
			kind = graph.EdgeSimple
		}
		g.RemoveVertex(id)
		if _, err := g.AddEdge(n1, n2, kind); err != nil {
			return err
		}
	}
	return nil
}

// insertIdentities splits every selected edge with a phaseless Z spider at its
// midpoint. The half towards the source keeps the old kind, the other half is
// simple.
func insertIdentities(g *graph.Graph) error {
	_, keys := g.Selected()
	for _, k := range keys {
		e, ok := g.Edge(k.A, k.B)
		if !ok {
			continue
		}
		src, dst, kind := e.Source, e.Target, e.Kind
		a, _ := g.Vertex(src)
		b, _ := g.Vertex(dst)
		mid := graph.At((a.Pos.X+b.Pos.X)/2, (a.Pos.Y+b.Pos.Y)/2)

		g.RemoveEdge(src, dst)
		id := g.AddVertex(mid, graph.KindZ, phase.Zero)
		if _, err := g.AddEdge(src, id, kind); err != nil {
			return err
		}
		if _, err := g.AddEdge(id, dst, graph.EdgeSimple); err != nil {
			return err
		}
	}
	return nil
}
