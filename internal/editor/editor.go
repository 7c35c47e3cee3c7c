// Package editor runs one editing session: a graph, the interaction controller
// driving it, the bridge to the host and the display showing it.
//
// Everything that touches the graph runs on the session's loop goroutine.
// Display events, inbound replacements and operation updates are queued with
// Submit, Replace, Select and SetOperations and handled in arrival order.
package editor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/psidex/zxedit/internal/bridge"
	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/interaction"
	"github.com/psidex/zxedit/internal/lib"
	"github.com/psidex/zxedit/internal/metrics"
	"github.com/psidex/zxedit/internal/snapshot"
)

type Config struct {
	// CheckInvariants re-validates the graph after every event and panics on
	// a violation.
	CheckInvariants bool `toml:"check_invariants" json:"checkInvariants"`
	// ReadOnly turns the session into a viewer.
	ReadOnly bool `toml:"read_only" json:"readOnly"`
	// PushTimeout bounds each delivery to the host.
	PushTimeout lib.Duration `toml:"push_timeout" json:"pushTimeout"`
	// InboxSize is how many submitted items may wait for the loop.
	InboxSize int `toml:"inbox_size" json:"inboxSize"`
}

// Display is the surface showing the session. Calls come from the loop
// goroutine only.
type Display interface {
	Redraw(frame *snapshot.Snapshot)
	Preview(p interaction.Preview)
	PromptPhase(id graph.VertexID, current string)
	ShowError(msg string)
	ShowOperations(ops snapshot.Operations)
	Armed(v graph.VertexKind, e graph.EdgeKind)
}

type Editor struct {
	// Set in NewEditor(...).
	ID      uuid.UUID
	cfg     Config
	g       *graph.Graph
	ctrl    *interaction.Controller
	bridge  *bridge.Bridge
	display Display
	logger  *slog.Logger
	inbox   chan func()

	// dirty is set by sink callbacks and cleared by the next redraw.
	dirty bool

	// Set / reset at the start of Run().
	cancel chan struct{}
	wg     *sync.WaitGroup
}

func NewEditor(cfg Config, g *graph.Graph, host bridge.GraphHost, display Display, logger *slog.Logger) *Editor {
	if cfg.InboxSize <= 0 {
		cfg.InboxSize = 64
	}
	id := uuid.New()
	e := &Editor{
		ID:      id,
		cfg:     cfg,
		g:       g,
		display: display,
		logger:  lib.OrDiscard(logger).With("session", id.String()),
		inbox:   make(chan func(), cfg.InboxSize),
	}
	e.bridge = bridge.New(g, host, e.logger)
	e.bridge.Timeout = cfg.PushTimeout.Duration
	e.ctrl = interaction.New(g, e)
	e.ctrl.ReadOnly = cfg.ReadOnly
	return e
}

// Bridge exposes the session's bridge, mainly for flushing in tests and tools.
func (e *Editor) Bridge() *bridge.Bridge { return e.bridge }

// Run starts the loop and the bridge pump and returns immediately.
func (e *Editor) Run() {
	e.cancel = make(chan struct{})
	e.wg = &sync.WaitGroup{}
	metrics.Sessions.Inc()

	ctx, stop := context.WithCancel(context.Background())
	e.wg.Add(2)
	go func() {
		defer e.wg.Done()
		_ = e.bridge.Run(ctx)
	}()
	go func() {
		defer e.wg.Done()
		defer stop()
		e.loop()
	}()

	e.logger.Info("editor session started", "read_only", e.cfg.ReadOnly)
	e.post(e.redraw)
}

// Cancel stops the loop and the pump, and blocks until both have exited. Queued
// work that has not started is dropped.
func (e *Editor) Cancel() {
	close(e.cancel)
	e.wg.Wait()
	metrics.Sessions.Dec()
	e.logger.Info("editor session stopped")
}

func (e *Editor) loop() {
	for {
		select {
		case <-e.cancel:
			return
		case work := <-e.inbox:
			work()
		}
	}
}

// post queues work for the loop, giving up if the session is cancelled.
func (e *Editor) post(work func()) {
	select {
	case e.inbox <- work:
	case <-e.cancel:
	}
}

// Submit queues an input event.
func (e *Editor) Submit(ev interaction.Event) {
	e.post(func() { e.handleEvent(ev) })
}

// Replace queues an inbound replacement. sel may be nil.
func (e *Editor) Replace(graphSnap, sel *snapshot.Snapshot) {
	e.post(func() { e.applyReplace(graphSnap, sel) })
}

// Select queues an inbound selection change.
func (e *Editor) Select(sel *snapshot.Snapshot) {
	e.post(func() {
		e.bridge.ApplySelection(sel)
		e.redraw()
	})
}

// SetOperations queues new operation descriptors.
func (e *Editor) SetOperations(ops snapshot.Operations) {
	e.post(func() { e.applyOperations(ops) })
}

func (e *Editor) handleEvent(ev interaction.Event) {
	name := interaction.Name(ev)
	err := e.ctrl.Handle(ev)
	if err != nil {
		metrics.EditorEvents.WithLabelValues(name, "rejected").Inc()
		e.logger.Info("event rejected", "event", name, "error", err)
		e.display.ShowError(err.Error())
	} else {
		metrics.EditorEvents.WithLabelValues(name, "ok").Inc()
	}
	e.checkInvariants(name)
	if e.dirty {
		e.redraw()
	}
}

func (e *Editor) applyReplace(graphSnap, sel *snapshot.Snapshot) {
	if err := e.bridge.ApplyReplace(graphSnap, sel); err != nil {
		e.logger.Warn("rejected inbound graph", "error", err)
		e.display.ShowError(err.Error())
		return
	}
	e.ctrl.Reset()
	e.logger.Debug("applied inbound graph", "vertices", e.g.Len(), "edges", e.g.EdgeCount())
	e.checkInvariants("replace")
	e.redraw()
}

func (e *Editor) applyOperations(ops snapshot.Operations) {
	e.bridge.SetOperations(ops)
	e.display.ShowOperations(e.bridge.Operations())
}

func (e *Editor) checkInvariants(after string) {
	if !e.cfg.CheckInvariants {
		return
	}
	if err := e.g.Validate(); err != nil {
		e.logger.Error("graph invariant violated", "after", after, "error", err)
		panic(err)
	}
}

func (e *Editor) redraw() {
	e.dirty = false
	metrics.GraphSize.WithLabelValues("vertices").Set(float64(e.g.Len()))
	metrics.GraphSize.WithLabelValues("edges").Set(float64(e.g.EdgeCount()))
	e.display.Redraw(snapshot.Frame(e.g))
}
