package render

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/snapshot"
)

// ECharts renders a go-echarts HTML page with vertices at their stored
// positions.
type ECharts struct {
	title string
}

var _ Renderer = (*ECharts)(nil)

func NewECharts(title string) *ECharts {
	return &ECharts{title: title}
}

func (e *ECharts) Ext() string { return "html" }

func (e *ECharts) Render(w io.Writer, s *snapshot.Snapshot) error {
	nodes := make([]opts.GraphNode, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		symbol := "circle"
		if graph.VertexKind(n.T) == graph.KindHBox || graph.VertexKind(n.T) == graph.KindZBox {
			symbol = "rect"
		}
		size := 20
		if graph.VertexKind(n.T) == graph.KindBoundary {
			size = 6
		}
		nodes = append(nodes, opts.GraphNode{
			Name:       strconv.Itoa(int(n.Name)),
			X:          float32(n.X),
			Y:          float32(n.Y),
			Symbol:     symbol,
			SymbolSize: size,
			ItemStyle:  &opts.ItemStyle{Color: colorOf(n.T)},
		})
	}

	links := make([]opts.GraphLink, 0, len(s.Links))
	for _, l := range s.Links {
		links = append(links, opts.GraphLink{
			Source: strconv.Itoa(int(l.Source)),
			Target: strconv.Itoa(int(l.Target)),
			Value:  float32(l.T),
		})
	}

	page := components.NewPage()
	page.PageTitle = e.title
	page.AddCharts(e.graphBase(nodes, links))
	return page.Render(w)
}

func (e *ECharts) graphBase(nodes []opts.GraphNode, links []opts.GraphLink) *charts.Graph {
	g := charts.NewGraph()
	g.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: e.title,
			Height:    "100vh",
			Width:     "100vw",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)
	g.AddSeries(
		"graph",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout:    "none",
				Draggable: opts.Bool(true),
				Roam:      opts.Bool(true),
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Color:    "black",
			Position: "top",
		}),
	)
	return g
}
