// Package render writes a graph snapshot to a static file for viewing outside
// the editor.
package render

import (
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/snapshot"
)

// ErrUnknownRenderer is returned by ByName.
var ErrUnknownRenderer = errors.New("unknown renderer")

// Renderer renders one snapshot.
type Renderer interface {
	Render(w io.Writer, s *snapshot.Snapshot) error
	// Ext is the file extension, without the dot.
	Ext() string
}

var renderers = map[string]func() Renderer{
	"echarts": func() Renderer { return NewECharts("zxedit") },
	"vis":     func() Renderer { return NewVis() },
	"json":    func() Renderer { return JSON{} },
}

// Names lists the registered renderers.
func Names() []string {
	names := make([]string, 0, len(renderers))
	for n := range renderers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func ByName(name string) (Renderer, error) {
	mk, ok := renderers[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRenderer, "%q", name)
	}
	return mk(), nil
}

// RenderToFile renders s to filename plus the renderer's extension and returns
// the full path written.
func RenderToFile(r Renderer, s *snapshot.Snapshot, filename string) (string, error) {
	filename = filename + "." + r.Ext()
	f, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	if err := r.Render(f, s); err != nil {
		f.Close()
		return "", errors.Wrapf(err, "render %s", filename)
	}
	return filename, f.Close()
}

// kindColors follows the usual ZX palette.
var kindColors = map[graph.VertexKind]string{
	graph.KindBoundary: "#000000",
	graph.KindZ:        "#ccffcc",
	graph.KindX:        "#ff8888",
	graph.KindHBox:     "#ffff00",
	graph.KindW:        "#000000",
	graph.KindTriangle: "#dddddd",
	graph.KindZBox:     "#ccffcc",
}

func colorOf(t int) string {
	if c, ok := kindColors[graph.VertexKind(t)]; ok {
		return c
	}
	return "#888888"
}

// JSON writes the snapshot itself.
type JSON struct{}

func (JSON) Ext() string { return "json" }

func (JSON) Render(w io.Writer, s *snapshot.Snapshot) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
