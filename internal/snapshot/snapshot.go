// Package snapshot is the JSON wire format shared with the host and the display:
// {nodes: [...], links: [...]} plus the operation descriptor map.
package snapshot

import (
	"bytes"
	"encoding/json"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/psidex/zxedit/internal/graph"
)

// ErrMalformedSnapshot is returned for snapshots that cannot be turned into a
// valid graph. Applying one must leave the current graph untouched.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// ID is a vertex id on the wire. Hosts send it either as a number or as a
// numeric string; it is always written back as a number.
type ID int

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.Wrapf(ErrMalformedSnapshot, "vertex name %q is not numeric", s)
		}
		*id = ID(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrapf(ErrMalformedSnapshot, "vertex name %s is not an integer", b)
	}
	*id = ID(n)
	return nil
}

// Node is one vertex.
type Node struct {
	Name   ID          `json:"name"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Z      *float64    `json:"z,omitempty"`
	T      int         `json:"t"`
	Phase  string      `json:"phase"`
	Ground bool        `json:"ground,omitempty"`
	VData  [][2]string `json:"vdata,omitempty"`

	// Selected is only set on display frames.
	Selected bool `json:"selected,omitempty"`
}

// Link is one edge.
type Link struct {
	Source ID  `json:"source"`
	Target ID  `json:"target"`
	T      int `json:"t"`

	// Selected is only set on display frames.
	Selected bool `json:"selected,omitempty"`
}

// Snapshot is a full graph, or the selected part of one.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Empty reports whether s has neither nodes nor links.
func (s *Snapshot) Empty() bool {
	return s == nil || (len(s.Nodes) == 0 && len(s.Links) == 0)
}

// Parse decodes a snapshot. It does not check graph consistency, see Validate.
func Parse(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		if errors.Is(err, ErrMalformedSnapshot) {
			return nil, err
		}
		return nil, errors.Wrapf(ErrMalformedSnapshot, "decode: %v", err)
	}
	return &s, nil
}

// Marshal encodes s. Nil slices are written as empty arrays.
func (s *Snapshot) Marshal() ([]byte, error) {
	out := *s
	if out.Nodes == nil {
		out.Nodes = []Node{}
	}
	if out.Links == nil {
		out.Links = []Link{}
	}
	return json.Marshal(out)
}

// Validate checks that s describes a graph: unique node names, known kind codes,
// and links between two distinct listed nodes.
func (s *Snapshot) Validate() error {
	names := make(map[ID]struct{}, len(s.Nodes))
	for _, n := range s.Nodes {
		if _, dup := names[n.Name]; dup {
			return errors.Wrapf(ErrMalformedSnapshot, "duplicate node %d", n.Name)
		}
		if !graph.VertexKind(n.T).Valid() {
			return errors.Wrapf(ErrMalformedSnapshot, "node %d has unknown kind %d", n.Name, n.T)
		}
		names[n.Name] = struct{}{}
	}
	for _, l := range s.Links {
		if _, ok := names[l.Source]; !ok {
			return errors.Wrapf(ErrMalformedSnapshot, "link %d-%d: unknown source", l.Source, l.Target)
		}
		if _, ok := names[l.Target]; !ok {
			return errors.Wrapf(ErrMalformedSnapshot, "link %d-%d: unknown target", l.Source, l.Target)
		}
		if l.Source == l.Target {
			return errors.Wrapf(ErrMalformedSnapshot, "link %d-%d is a self-loop", l.Source, l.Target)
		}
		if !graph.EdgeKind(l.T).Valid() {
			return errors.Wrapf(ErrMalformedSnapshot, "link %d-%d has unknown kind %d", l.Source, l.Target, l.T)
		}
	}
	return nil
}

// ReadFile parses the snapshot stored at path.
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read snapshot %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse snapshot %s", path)
	}
	return s, nil
}

// WriteFile writes s to path as indented JSON.
func (s *Snapshot) WriteFile(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	return errors.Wrapf(os.WriteFile(path, out.Bytes(), 0644), "write snapshot %s", path)
}
