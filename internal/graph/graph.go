package graph

import (
	"cmp"
	"slices"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/pkg/errors"

	"github.com/psidex/zxedit/internal/phase"
)

func compareVertexIDs(a, b interface{}) int {
	return cmp.Compare(a.(VertexID), b.(VertexID))
}

func compareEdgeKeys(a, b interface{}) int {
	ka, kb := a.(EdgeKey), b.(EdgeKey)
	if c := cmp.Compare(ka.A, kb.A); c != 0 {
		return c
	}
	return cmp.Compare(ka.B, kb.B)
}

// Graph owns the vertices and edges of one diagram. Both collections iterate in
// ascending key order, which keeps redraws and snapshots stable.
type Graph struct {
	vertices *treemap.Map // VertexID -> *Vertex
	edges    *treemap.Map // EdgeKey -> *Edge
	adj      map[VertexID][]VertexID
	nextID   VertexID
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		vertices: treemap.NewWith(compareVertexIDs),
		edges:    treemap.NewWith(compareEdgeKeys),
		adj:      make(map[VertexID][]VertexID),
	}
}

// NextID is the id the next AddVertex will allocate.
func (g *Graph) NextID() VertexID { return g.nextID }

// Len is the number of vertices.
func (g *Graph) Len() int { return g.vertices.Size() }

// EdgeCount is the number of edges.
func (g *Graph) EdgeCount() int { return g.edges.Size() }

// Vertex returns the live vertex with the given id.
func (g *Graph) Vertex(id VertexID) (*Vertex, bool) {
	v, found := g.vertices.Get(id)
	if !found {
		return nil, false
	}
	return v.(*Vertex), true
}

// Has reports whether id is a live vertex.
func (g *Graph) Has(id VertexID) bool {
	_, found := g.vertices.Get(id)
	return found
}

// Vertices returns the live vertices in id order.
func (g *Graph) Vertices() []*Vertex {
	out := make([]*Vertex, 0, g.vertices.Size())
	it := g.vertices.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*Vertex))
	}
	return out
}

// Edge returns the edge between a and b in either orientation.
func (g *Graph) Edge(a, b VertexID) (*Edge, bool) {
	e, found := g.edges.Get(Key(a, b))
	if !found {
		return nil, false
	}
	return e.(*Edge), true
}

// Edges returns the live edges in key order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, g.edges.Size())
	it := g.edges.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*Edge))
	}
	return out
}

// IncidentEdges returns the edges touching id in key order.
func (g *Graph) IncidentEdges(id VertexID) []*Edge {
	var out []*Edge
	for _, w := range g.adj[id] {
		if e, ok := g.Edge(id, w); ok {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(x, y *Edge) int { return compareEdgeKeys(x.Key(), y.Key()) })
	return out
}

// Neighbors returns a copy of the derived adjacency of id, ascending.
func (g *Graph) Neighbors(id VertexID) []VertexID {
	return slices.Clone(g.adj[id])
}

// Degree is len(Neighbors(id)).
func (g *Graph) Degree(id VertexID) int {
	return len(g.adj[id])
}

// AddVertex allocates a fresh id and inserts a vertex. It always succeeds.
func (g *Graph) AddVertex(pos Position, kind VertexKind, p phase.Phase) VertexID {
	id := g.nextID
	g.nextID++
	g.vertices.Put(id, &Vertex{ID: id, Pos: pos, Kind: kind, Phase: p})
	g.adj[id] = nil
	return id
}

// InsertVertex adds v under its own id, bumping NextID past it. Used when
// building a graph from a snapshot.
func (g *Graph) InsertVertex(v Vertex) error {
	if g.Has(v.ID) {
		return errors.Wrapf(ErrDuplicateVertex, "vertex %d", v.ID)
	}
	if !v.Kind.Valid() {
		return errors.Wrapf(ErrInvalidKind, "vertex %d has kind %d", v.ID, int(v.Kind))
	}
	stored := v
	stored.VData = slices.Clone(v.VData)
	g.vertices.Put(v.ID, &stored)
	g.adj[v.ID] = nil
	if v.ID >= g.nextID {
		g.nextID = v.ID + 1
	}
	return nil
}

// AddEdge connects a and b. If they are already connected the existing edge is
// retyped to kind instead, so there is never more than one edge per pair.
func (g *Graph) AddEdge(a, b VertexID, kind EdgeKind) (*Edge, error) {
	if a == b {
		return nil, errors.Wrapf(ErrInvalidEndpoint, "self-loop on vertex %d", a)
	}
	if !g.Has(a) || !g.Has(b) {
		return nil, errors.Wrapf(ErrInvalidEndpoint, "edge %d-%d", a, b)
	}
	if !kind.Valid() {
		return nil, errors.Wrapf(ErrInvalidKind, "edge %d-%d has kind %d", a, b, int(kind))
	}
	if e, ok := g.Edge(a, b); ok {
		e.Kind = kind
		return e, nil
	}

	e := &Edge{Source: a, Target: b, Kind: kind}
	g.edges.Put(e.Key(), e)
	g.link(a, b)
	g.link(b, a)
	return e, nil
}

// link adds w to the adjacency of v, keeping it sorted.
func (g *Graph) link(v, w VertexID) {
	i, _ := slices.BinarySearch(g.adj[v], w)
	g.adj[v] = slices.Insert(g.adj[v], i, w)
}

// RemoveVertex deletes id and every incident edge. It is a no-op if id is absent.
func (g *Graph) RemoveVertex(id VertexID) bool {
	return g.RemoveVertices(id) == 1
}

// RemoveVertices deletes each id and its incident edges, rebuilding adjacency
// once. It returns how many vertices were removed.
func (g *Graph) RemoveVertices(ids ...VertexID) int {
	removed := 0
	for _, id := range ids {
		if !g.Has(id) {
			continue
		}
		for _, w := range g.adj[id] {
			g.edges.Remove(Key(id, w))
		}
		g.vertices.Remove(id)
		delete(g.adj, id)
		removed++
	}
	if removed > 0 {
		g.rebuildAdjacency()
	}
	return removed
}

// RemoveEdge deletes the edge between a and b, if any.
func (g *Graph) RemoveEdge(a, b VertexID) bool {
	return g.RemoveEdges(Key(a, b)) == 1
}

// RemoveEdges deletes each edge present and returns how many were removed.
func (g *Graph) RemoveEdges(keys ...EdgeKey) int {
	removed := 0
	for _, k := range keys {
		k = Key(k.A, k.B)
		if _, found := g.edges.Get(k); !found {
			continue
		}
		g.edges.Remove(k)
		removed++
	}
	if removed > 0 {
		g.rebuildAdjacency()
	}
	return removed
}

// SetPhase parses raw with the phase grammar for the vertex's kind. On failure
// the vertex keeps its old phase and the *phase.ParseError is returned.
func (g *Graph) SetPhase(id VertexID, raw string) error {
	v, ok := g.Vertex(id)
	if !ok {
		return errors.Wrapf(ErrVertexNotFound, "set phase on %d", id)
	}
	p, err := phase.Parse(raw, v.Kind.BoxLike())
	if err != nil {
		return err
	}
	v.Phase = p
	return nil
}

// SetPhaseValue stores an already normalized phase.
func (g *Graph) SetPhaseValue(id VertexID, p phase.Phase) error {
	v, ok := g.Vertex(id)
	if !ok {
		return errors.Wrapf(ErrVertexNotFound, "set phase on %d", id)
	}
	v.Phase = p
	return nil
}

func (g *Graph) SetKind(id VertexID, kind VertexKind) error {
	v, ok := g.Vertex(id)
	if !ok {
		return errors.Wrapf(ErrVertexNotFound, "set kind on %d", id)
	}
	if !kind.Valid() {
		return errors.Wrapf(ErrInvalidKind, "vertex kind %d", int(kind))
	}
	v.Kind = kind
	return nil
}

func (g *Graph) SetEdgeKind(a, b VertexID, kind EdgeKind) error {
	e, ok := g.Edge(a, b)
	if !ok {
		return errors.Wrapf(ErrEdgeNotFound, "edge %d-%d", a, b)
	}
	if !kind.Valid() {
		return errors.Wrapf(ErrInvalidKind, "edge kind %d", int(kind))
	}
	e.Kind = kind
	return nil
}

func (g *Graph) SetPosition(id VertexID, pos Position) error {
	v, ok := g.Vertex(id)
	if !ok {
		return errors.Wrapf(ErrVertexNotFound, "set position on %d", id)
	}
	v.Pos = pos
	return nil
}

// Move translates each listed vertex by (dx, dy), skipping unknown ids, and
// returns how many moved.
func (g *Graph) Move(ids []VertexID, dx, dy float64) int {
	moved := 0
	for _, id := range ids {
		if v, ok := g.Vertex(id); ok {
			v.Pos = v.Pos.Translate(dx, dy)
			moved++
		}
	}
	return moved
}

// Selected returns the ids of selected vertices and the keys of selected edges.
func (g *Graph) Selected() ([]VertexID, []EdgeKey) {
	var vs []VertexID
	var es []EdgeKey
	for _, v := range g.Vertices() {
		if v.Selected {
			vs = append(vs, v.ID)
		}
	}
	for _, e := range g.Edges() {
		if e.Selected {
			es = append(es, e.Key())
		}
	}
	return vs, es
}

// Clone returns a deep copy, including transient selection flags.
func (g *Graph) Clone() *Graph {
	c := New()
	c.nextID = g.nextID
	for _, v := range g.Vertices() {
		cv := *v
		cv.VData = slices.Clone(v.VData)
		c.vertices.Put(cv.ID, &cv)
		c.adj[cv.ID] = nil
	}
	for _, e := range g.Edges() {
		ce := *e
		c.edges.Put(ce.Key(), &ce)
	}
	c.rebuildAdjacency()
	return c
}

// ReplaceWith takes over other's content in one step. NextID keeps the larger of
// the two counters so ids stay unique for the whole session. other must not be
// used afterwards.
func (g *Graph) ReplaceWith(other *Graph) {
	next := max(g.nextID, other.nextID)
	g.vertices = other.vertices
	g.edges = other.edges
	g.adj = other.adj
	g.nextID = next
}

func (g *Graph) rebuildAdjacency() {
	adj := make(map[VertexID][]VertexID, g.vertices.Size())
	it := g.vertices.Iterator()
	for it.Next() {
		adj[it.Key().(VertexID)] = nil
	}
	eit := g.edges.Iterator()
	for eit.Next() {
		k := eit.Key().(EdgeKey)
		adj[k.A] = append(adj[k.A], k.B)
		adj[k.B] = append(adj[k.B], k.A)
	}
	for id := range adj {
		slices.Sort(adj[id])
	}
	g.adj = adj
}
