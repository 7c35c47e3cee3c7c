package graph

import "fmt"

// VertexKind is the closed set of vertex types. The values are the wire codes.
type VertexKind int

const (
	KindBoundary VertexKind = iota
	KindZ
	KindX
	KindHBox
	KindW
	KindTriangle
	KindZBox
)

var vertexKindNames = map[VertexKind]string{
	KindBoundary: "boundary",
	KindZ:        "Z",
	KindX:        "X",
	KindHBox:     "H",
	KindW:        "W",
	KindTriangle: "triangle",
	KindZBox:     "Z-box",
}

func (k VertexKind) String() string {
	if name, ok := vertexKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("VertexKind(%d)", int(k))
}

func (k VertexKind) Valid() bool {
	_, ok := vertexKindNames[k]
	return ok
}

// BoxLike reports whether integer phases use the inverted box mapping.
func (k VertexKind) BoxLike() bool {
	return k == KindHBox
}

// Spider reports whether k is a Z or X spider.
func (k VertexKind) Spider() bool {
	return k == KindZ || k == KindX
}

// armedRotation is the order in which the editor cycles the kind used for new
// vertices.
var armedRotation = []VertexKind{KindBoundary, KindZ, KindX, KindHBox}

// Next returns the kind after k in the creation rotation. Kinds outside the
// rotation restart it at Z.
func (k VertexKind) Next() VertexKind {
	for i, r := range armedRotation {
		if r == k {
			return armedRotation[(i+1)%len(armedRotation)]
		}
	}
	return KindZ
}

// Toggle swaps Z and X and leaves every other kind alone.
func (k VertexKind) Toggle() VertexKind {
	switch k {
	case KindZ:
		return KindX
	case KindX:
		return KindZ
	default:
		return k
	}
}

// EdgeKind is the closed set of edge types. The values are the wire codes.
type EdgeKind int

const (
	EdgeSimple   EdgeKind = 1
	EdgeHadamard EdgeKind = 2
	// EdgeVariable only appears in read-only viewer snapshots.
	EdgeVariable EdgeKind = 3
)

var edgeKindNames = map[EdgeKind]string{
	EdgeSimple:   "simple",
	EdgeHadamard: "hadamard",
	EdgeVariable: "variable",
}

func (k EdgeKind) String() string {
	if name, ok := edgeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EdgeKind(%d)", int(k))
}

func (k EdgeKind) Valid() bool {
	_, ok := edgeKindNames[k]
	return ok
}

// Toggle swaps simple and Hadamard edges.
func (k EdgeKind) Toggle() EdgeKind {
	if k == EdgeSimple {
		return EdgeHadamard
	}
	return EdgeSimple
}
