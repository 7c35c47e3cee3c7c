package snapshot

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

// Operation describes one host-provided button.
type Operation struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Active  bool   `json:"active"`
}

// Operations maps an operation id to its descriptor.
type Operations map[string]Operation

// ParseOperations decodes an operation map.
func ParseOperations(data []byte) (Operations, error) {
	ops := Operations{}
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, errors.Wrap(err, "decode operations")
	}
	return ops, nil
}

// IDs returns the operation ids in sorted order.
func (o Operations) IDs() []string {
	ids := make([]string, 0, len(o))
	for id := range o {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy.
func (o Operations) Clone() Operations {
	c := make(Operations, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}
