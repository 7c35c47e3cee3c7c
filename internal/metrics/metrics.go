// Package metrics holds the prometheus collectors shared by the editor, the
// bridge and the reference host. They register with the default registry and
// are served on /metrics by `zxedit serve`.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EditorEvents counts input events handled by an editor session.
	// Labels: event (pointerdown, keydown, ...), result (ok, rejected)
	EditorEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zxedit",
		Subsystem: "editor",
		Name:      "events_total",
		Help:      "Input events handled by editor sessions",
	}, []string{"event", "result"})

	// StructuralChanges counts committed graph edits by reason.
	StructuralChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zxedit",
		Subsystem: "editor",
		Name:      "structural_changes_total",
		Help:      "Committed structural graph edits",
	}, []string{"reason"})

	// Replaces counts inbound graph replacements.
	// Labels: result (applied, malformed)
	Replaces = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zxedit",
		Subsystem: "bridge",
		Name:      "replaces_total",
		Help:      "Inbound graph replacements",
	}, []string{"result"})

	// Outbound counts messages delivered to the host.
	// Labels: kind (graph, selection, action), result (ok, error)
	Outbound = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zxedit",
		Subsystem: "bridge",
		Name:      "outbound_total",
		Help:      "Messages pushed to the graph host",
	}, []string{"kind", "result"})

	// OutboundQueue is the number of encoded messages waiting for the pump.
	OutboundQueue = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "zxedit",
		Subsystem: "bridge",
		Name:      "outbound_queue_length",
		Help:      "Encoded messages waiting to be pushed",
	})

	// GraphSize tracks the vertex and edge count of the most recently changed graph.
	// Labels: entity (vertices, edges)
	GraphSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "zxedit",
		Subsystem: "editor",
		Name:      "graph_size",
		Help:      "Vertices and edges in the edited graph",
	}, []string{"entity"})

	// Sessions is the number of live editor sessions.
	Sessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "zxedit",
		Subsystem: "editor",
		Name:      "sessions",
		Help:      "Live editor sessions",
	})

	// HostActions counts actions executed by the reference host.
	// Labels: action, result (ok, error)
	HostActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zxedit",
		Subsystem: "host",
		Name:      "actions_total",
		Help:      "Actions executed by the reference host",
	}, []string{"action", "result"})

	// HostRevisions is the revision number of the host's current graph.
	HostRevisions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "zxedit",
		Subsystem: "host",
		Name:      "revision",
		Help:      "Current revision of the authoritative graph",
	})

	// PushLatency measures how long the host takes to accept a push.
	PushLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "zxedit",
		Subsystem: "bridge",
		Name:      "push_latency_seconds",
		Help:      "Time for the host to accept an outbound message",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})
)

// Result maps an error to the "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveSince records the time elapsed since start on PushLatency.
func ObserveSince(start time.Time) {
	PushLatency.Observe(time.Since(start).Seconds())
}
