// Package graph is the editor's in-memory ZX diagram: vertices and edges in an
// arena keyed by integer ids, with adjacency derived from the edge set.
//
// # Invariants
//
// After every exported mutation:
//   - every edge's endpoints exist;
//   - at most one edge exists per unordered vertex pair;
//   - Neighbors(v) is exactly the set of w with an edge {v, w};
//   - NextID never decreases, so ids are never reused within a session;
//   - selection flags live on the entities, so removing an entity removes it
//     from the selection in the same step.
//
// Validate re-checks all of them.
//
// # Thread Safety
//
// Graph is not safe for concurrent use. The editor owns it from a single
// goroutine.
package graph

import "errors"

// Sentinel errors for graph operations.
var (
	// ErrInvalidEndpoint is returned when an edge operation references a missing
	// vertex or joins a vertex to itself.
	ErrInvalidEndpoint = errors.New("invalid edge endpoint")

	// ErrVertexNotFound is returned when a vertex operation references a missing id.
	ErrVertexNotFound = errors.New("vertex not found")

	// ErrEdgeNotFound is returned when an edge operation references a pair with no edge.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrDuplicateVertex is returned when inserting a vertex whose id is taken.
	ErrDuplicateVertex = errors.New("duplicate vertex id")

	// ErrInvalidKind is returned for vertex or edge kind codes outside the closed set.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrInvariant is returned by Validate when the graph is internally inconsistent.
	ErrInvariant = errors.New("graph invariant violated")
)
