// Package bridge keeps the editor's graph in step with the external host that
// owns the authoritative copy.
//
// Outbound traffic is fire-and-forget: PushChange and PushSelection encode the
// graph immediately and queue the result, and a pump goroutine (Run) delivers the
// queue in order. Inbound replacements are applied with ApplyReplace, which
// either swaps in the whole new graph or leaves the old one untouched.
//
// A replace always wins. An edit pushed just before a contradicting replace
// arrives is dropped from the visible graph.
package bridge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/lib"
	"github.com/psidex/zxedit/internal/metrics"
	"github.com/psidex/zxedit/internal/snapshot"
)

// ErrOperationInactive is returned when a requested operation is unknown or
// currently disabled by the host.
var ErrOperationInactive = errors.New("operation is not active")

// GraphHost is whatever owns the authoritative graph.
type GraphHost interface {
	PushGraph(ctx context.Context, snap *snapshot.Snapshot, reason string) error
	PushSelection(ctx context.Context, snap *snapshot.Snapshot) error
	// RequestAction asks the host to run an opaque named action such as "undo".
	RequestAction(ctx context.Context, action string) error
}

type messageKind int

const (
	kindGraph messageKind = iota
	kindSelection
	kindAction
)

func (k messageKind) String() string {
	switch k {
	case kindGraph:
		return "graph"
	case kindSelection:
		return "selection"
	default:
		return "action"
	}
}

type message struct {
	kind   messageKind
	snap   *snapshot.Snapshot
	reason string
	action string
}

// Bridge connects one graph to one host. Everything except Run and Flush must
// be called from the goroutine that owns the graph.
type Bridge struct {
	g      *graph.Graph
	host   GraphHost
	logger *slog.Logger

	queue  *lib.Queue[message]
	wake   chan struct{}
	sendMu sync.Mutex

	lastSelection *snapshot.Snapshot
	ops           snapshot.Operations

	// Timeout bounds each delivery to the host. Zero means no bound.
	Timeout time.Duration
}

func New(g *graph.Graph, host GraphHost, logger *slog.Logger) *Bridge {
	return &Bridge{
		g:      g,
		host:   host,
		logger: lib.OrDiscard(logger),
		queue:  lib.NewQueue[message](),
		wake:   make(chan struct{}, 1),
		ops:    snapshot.Operations{},
	}
}

func (b *Bridge) enqueue(m message) {
	b.queue.Enqueue(m)
	metrics.OutboundQueue.Inc()
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// PushChange queues the full graph for the host.
func (b *Bridge) PushChange(reason string) {
	b.enqueue(message{kind: kindGraph, snap: snapshot.Full(b.g), reason: reason})
}

// PushSelection queues the selected subgraph for the host and remembers it for
// re-marking after a replace.
func (b *Bridge) PushSelection() {
	sel := snapshot.Selection(b.g)
	b.lastSelection = sel
	b.enqueue(message{kind: kindSelection, snap: sel})
}

// RequestAction queues an opaque action for the host, in order with pushes.
func (b *Bridge) RequestAction(action string) {
	b.enqueue(message{kind: kindAction, action: action})
}

// SetOperations replaces the host's operation descriptors.
func (b *Bridge) SetOperations(ops snapshot.Operations) {
	b.ops = ops.Clone()
}

// Operations returns a copy of the current descriptors.
func (b *Bridge) Operations() snapshot.Operations {
	return b.ops.Clone()
}

// RequestOperation queues operation id for the host if it is known and active.
func (b *Bridge) RequestOperation(id string) error {
	op, ok := b.ops[id]
	if !ok || !op.Active {
		return errors.Wrapf(ErrOperationInactive, "operation %q", id)
	}
	b.RequestAction(id)
	return nil
}

// LastSelection is the most recently pushed or received selection.
func (b *Bridge) LastSelection() *snapshot.Snapshot {
	return b.lastSelection
}

// ApplyReplace swaps in the graph described by graphSnap. Selection markers
// come from sel, or from the last known selection when sel is nil. On error the
// current graph is left exactly as it was.
func (b *Bridge) ApplyReplace(graphSnap, sel *snapshot.Snapshot) error {
	fresh, err := graphSnap.Build()
	if err != nil {
		metrics.Replaces.WithLabelValues("malformed").Inc()
		return err
	}
	if sel == nil {
		sel = b.lastSelection
	} else {
		b.lastSelection = sel
	}
	snapshot.MarkSelection(fresh, sel)
	b.g.ReplaceWith(fresh)
	metrics.Replaces.WithLabelValues("applied").Inc()
	return nil
}

// ApplySelection re-marks the current graph from a host-supplied selection.
func (b *Bridge) ApplySelection(sel *snapshot.Snapshot) {
	b.lastSelection = sel
	snapshot.MarkSelection(b.g, sel)
}

// Pending is the number of messages queued and not yet taken by the pump.
func (b *Bridge) Pending() int {
	return b.queue.Size()
}

// Run delivers queued messages until ctx is done. Delivery errors are logged
// and the message is dropped; the host's next push supersedes it anyway.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.wake:
			b.deliverAll(ctx)
		}
	}
}

// Flush delivers everything queued so far and returns the first error.
func (b *Bridge) Flush(ctx context.Context) error {
	return b.deliverAll(ctx)
}

func (b *Bridge) deliverAll(ctx context.Context) error {
	b.sendMu.Lock()
	defer b.sendMu.Unlock()

	var first error
	for {
		batch := b.queue.Drain()
		if len(batch) == 0 {
			break
		}
		for _, m := range batch {
			metrics.OutboundQueue.Dec()
			if err := b.deliver(ctx, m); err != nil {
				b.logger.Error("failed to push to host", "kind", m.kind.String(), "error", err)
				if first == nil {
					first = err
				}
			}
		}
	}
	return first
}

func (b *Bridge) deliver(ctx context.Context, m message) error {
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	start := time.Now()
	var err error
	switch m.kind {
	case kindGraph:
		err = b.host.PushGraph(ctx, m.snap, m.reason)
	case kindSelection:
		err = b.host.PushSelection(ctx, m.snap)
	case kindAction:
		err = b.host.RequestAction(ctx, m.action)
	}
	metrics.ObserveSince(start)
	metrics.Outbound.WithLabelValues(m.kind.String(), metrics.Result(err)).Inc()
	return errors.Wrapf(err, "push %s", m.kind)
}
