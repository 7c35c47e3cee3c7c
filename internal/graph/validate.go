package graph

import (
	"slices"

	"github.com/pkg/errors"
)

// Validate re-derives every invariant from scratch. A non-nil error means a
// programming defect, not bad user input.
func (g *Graph) Validate() error {
	expected := make(map[VertexID][]VertexID, g.vertices.Size())
	for _, v := range g.Vertices() {
		if v.ID >= g.nextID {
			return errors.Wrapf(ErrInvariant, "vertex %d is not below next id %d", v.ID, g.nextID)
		}
		if !v.Kind.Valid() {
			return errors.Wrapf(ErrInvariant, "vertex %d has kind %d", v.ID, int(v.Kind))
		}
		expected[v.ID] = nil
	}

	it := g.edges.Iterator()
	for it.Next() {
		k := it.Key().(EdgeKey)
		e := it.Value().(*Edge)
		if e.Key() != k {
			return errors.Wrapf(ErrInvariant, "edge stored under %s has endpoints %d-%d", k, e.Source, e.Target)
		}
		if k.A == k.B {
			return errors.Wrapf(ErrInvariant, "self-loop on %d", k.A)
		}
		if !g.Has(k.A) || !g.Has(k.B) {
			return errors.Wrapf(ErrInvariant, "edge %s has a dangling endpoint", k)
		}
		expected[k.A] = append(expected[k.A], k.B)
		expected[k.B] = append(expected[k.B], k.A)
	}

	if len(g.adj) != len(expected) {
		return errors.Wrapf(ErrInvariant, "adjacency has %d entries for %d vertices", len(g.adj), len(expected))
	}
	for id, want := range expected {
		slices.Sort(want)
		if !slices.Equal(g.adj[id], want) {
			return errors.Wrapf(ErrInvariant, "adjacency of %d is %v, want %v", id, g.adj[id], want)
		}
	}
	return nil
}
