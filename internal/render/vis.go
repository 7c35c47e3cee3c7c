package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/snapshot"
)

// Vis renders a standalone vis-network page. Positions are fixed, Hadamard
// edges are dashed and ground vertices get a thick border.
type Vis struct{}

var _ Renderer = Vis{}

func NewVis() Vis { return Vis{} }

func (Vis) Ext() string { return "html" }

type visNode struct {
	ID          int     `json:"id"`
	Label       string  `json:"label"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Color       string  `json:"color"`
	Shape       string  `json:"shape"`
	Title       string  `json:"title,omitempty"`
	BorderWidth int     `json:"borderWidth,omitempty"`
}

type visEdge struct {
	From   int            `json:"from"`
	To     int            `json:"to"`
	Dashes bool           `json:"dashes,omitempty"`
	Smooth *visEdgeSmooth `json:"smooth,omitempty"`
}

// visEdgeSmooth bends parallel links apart.
type visEdgeSmooth struct {
	Type      string  `json:"type"`
	Roundness float64 `json:"roundness"`
}

func (Vis) Render(w io.Writer, s *snapshot.Snapshot) error {
	nodes := make([]visNode, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		shape := "dot"
		switch graph.VertexKind(n.T) {
		case graph.KindHBox, graph.KindZBox:
			shape = "square"
		case graph.KindTriangle:
			shape = "triangle"
		}
		vn := visNode{ID: int(n.Name), Label: n.Phase, X: n.X, Y: n.Y, Color: colorOf(n.T), Shape: shape}
		if n.Ground {
			vn.BorderWidth = 4
		}
		for _, kv := range n.VData {
			vn.Title += kv[0] + ": " + kv[1] + "\n"
		}
		nodes = append(nodes, vn)
	}

	parallel := snapshot.ParallelLinks(s.Links)
	edges := make([]visEdge, 0, len(s.Links))
	for i, l := range s.Links {
		e := visEdge{From: int(l.Source), To: int(l.Target), Dashes: graph.EdgeKind(l.T) == graph.EdgeHadamard}
		if p := parallel[i]; p.Count > 1 {
			e.Smooth = &visEdgeSmooth{Type: "curvedCW", Roundness: 0.2 * float64(p.Index-(p.Count-1)/2)}
		}
		edges = append(edges, e)
	}

	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return err
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, visPage, nodesJSON, edgesJSON)
	return err
}

const visPage = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <title>zxedit</title>
    <style>
        * {
            margin: 0;
        }
        #network {
            width: 100vw;
            height: 100vh;
        }
    </style>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <script type="text/javascript"
      src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
  </head>
  <body>
    <div id="network"></div>
    <script type="text/javascript">
var data = {
  nodes: new vis.DataSet(%s),
  edges: new vis.DataSet(%s),
};

var options = {
  physics: false,
  nodes: { fixed: true, size: 10 },
};
var network = new vis.Network(document.getElementById("network"), data, options);
    </script>
  </body>
</html>
`
