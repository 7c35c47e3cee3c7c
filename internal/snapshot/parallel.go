package snapshot

import "github.com/psidex/zxedit/internal/graph"

// Parallel describes where a link sits among the links sharing its endpoint pair.
// Viewers use it to bend parallel links apart.
type Parallel struct {
	Index int `json:"index"`
	Count int `json:"num_parallel"`
}

// ParallelLinks computes Parallel for every link, in order. The first link of a
// pair gets index 0.
func ParallelLinks(links []Link) []Parallel {
	total := make(map[graph.EdgeKey]int, len(links))
	for _, l := range links {
		total[graph.Key(graph.VertexID(l.Source), graph.VertexID(l.Target))]++
	}
	seen := make(map[graph.EdgeKey]int, len(total))
	out := make([]Parallel, len(links))
	for i, l := range links {
		k := graph.Key(graph.VertexID(l.Source), graph.VertexID(l.Target))
		out[i] = Parallel{Index: seen[k], Count: total[k]}
		seen[k]++
	}
	return out
}
