package editor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/interaction"
	"github.com/psidex/zxedit/internal/phase"
	"github.com/psidex/zxedit/internal/snapshot"
)

type fakeDisplay struct {
	mu     sync.Mutex
	frames []*snapshot.Snapshot
	errors []string
	ops    []snapshot.Operations
	prompt []string
}

func (d *fakeDisplay) Redraw(f *snapshot.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, f)
}
func (d *fakeDisplay) Preview(interaction.Preview) {}
func (d *fakeDisplay) PromptPhase(_ graph.VertexID, current string) {
	d.prompt = append(d.prompt, current)
}
func (d *fakeDisplay) ShowError(msg string)                   { d.errors = append(d.errors, msg) }
func (d *fakeDisplay) ShowOperations(ops snapshot.Operations) { d.ops = append(d.ops, ops) }
func (d *fakeDisplay) Armed(graph.VertexKind, graph.EdgeKind) {}

func (d *fakeDisplay) frameCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames)
}

func (d *fakeDisplay) last() *snapshot.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames[len(d.frames)-1]
}

type fakeHost struct {
	mu      sync.Mutex
	graphs  []*snapshot.Snapshot
	actions []string
}

func (h *fakeHost) PushGraph(_ context.Context, s *snapshot.Snapshot, _ string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.graphs = append(h.graphs, s)
	return nil
}
func (h *fakeHost) PushSelection(context.Context, *snapshot.Snapshot) error { return nil }
func (h *fakeHost) RequestAction(_ context.Context, a string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions = append(h.actions, a)
	return nil
}

func newTestEditor(cfg Config) (*Editor, *fakeDisplay, *fakeHost) {
	d := &fakeDisplay{}
	h := &fakeHost{}
	cfg.CheckInvariants = true
	return NewEditor(cfg, graph.New(), h, d, nil), d, h
}

var ctrl = interaction.Modifiers{Connect: true}

func TestStructuralEventPushesAndRedraws(t *testing.T) {
	e, d, h := newTestEditor(Config{})

	e.handleEvent(interaction.PointerDown{Pos: graph.At(3, 4), Target: interaction.Canvas, Mods: ctrl})
	require.Equal(t, 1, d.frameCount())
	require.Len(t, d.last().Nodes, 1)
	assert.Equal(t, 3.0, d.last().Nodes[0].X)

	require.NoError(t, e.Bridge().Flush(context.Background()))
	require.Len(t, h.graphs, 1)
	assert.Len(t, h.graphs[0].Nodes, 1)
}

func TestRejectedPhaseIsShown(t *testing.T) {
	e, d, _ := newTestEditor(Config{})
	id := e.g.AddVertex(graph.At(0, 0), graph.KindZ, phase.Zero)

	e.handleEvent(interaction.DoubleActivate{Vertex: id})
	e.handleEvent(interaction.PhaseEntered{Vertex: id, Text: "abc"})
	require.Len(t, d.errors, 1)
	assert.Contains(t, d.errors[0], "abc")
	assert.Equal(t, []string{""}, d.prompt)
	assert.Zero(t, d.frameCount(), "a rejected edit does not redraw")
}

func TestReplaceResetsGestures(t *testing.T) {
	e, d, _ := newTestEditor(Config{})
	a := e.g.AddVertex(graph.At(0, 0), graph.KindZ, phase.Zero)
	e.handleEvent(interaction.PointerDown{Target: interaction.OnVertex(a), Mods: ctrl})
	require.Equal(t, interaction.GestureConnect, e.ctrl.State().Gesture)

	e.applyReplace(&snapshot.Snapshot{Nodes: []snapshot.Node{{Name: 4, T: 2}}}, nil)
	assert.Equal(t, interaction.GestureNone, e.ctrl.State().Gesture)
	assert.False(t, e.g.Has(a))
	assert.Len(t, d.last().Nodes, 1)
}

func TestMalformedReplaceIsShown(t *testing.T) {
	e, d, _ := newTestEditor(Config{})
	e.applyReplace(&snapshot.Snapshot{Links: []snapshot.Link{{Source: 1, Target: 2, T: 1}}}, nil)
	require.Len(t, d.errors, 1)
	assert.Contains(t, d.errors[0], "malformed snapshot")
}

func TestOperationsGateActions(t *testing.T) {
	e, d, h := newTestEditor(Config{})
	e.applyOperations(snapshot.Operations{"to_z": {Text: "To Z", Active: false}})
	require.Len(t, d.ops, 1)

	e.handleEvent(interaction.OperationActivated{ID: "to_z"})
	require.Len(t, d.errors, 1)

	e.applyOperations(snapshot.Operations{"to_z": {Text: "To Z", Active: true}})
	e.handleEvent(interaction.OperationActivated{ID: "to_z"})
	e.handleEvent(interaction.KeyDown{Key: "z"})
	require.NoError(t, e.Bridge().Flush(context.Background()))
	assert.Equal(t, []string{"to_z", interaction.ActionUndo}, h.actions)
}

func TestReadOnlySession(t *testing.T) {
	e, _, h := newTestEditor(Config{ReadOnly: true})
	e.handleEvent(interaction.PointerDown{Target: interaction.Canvas, Mods: ctrl})
	e.handleEvent(interaction.PointerUp{Target: interaction.Canvas, Mods: ctrl})
	assert.Zero(t, e.g.Len())
	require.NoError(t, e.Bridge().Flush(context.Background()))
	assert.Empty(t, h.graphs)
}

func TestRunLoop(t *testing.T) {
	e, d, h := newTestEditor(Config{})
	e.Run()

	e.Replace(&snapshot.Snapshot{Nodes: []snapshot.Node{{Name: 0, T: 1}, {Name: 1, T: 2}}}, nil)
	e.Submit(interaction.PointerDown{Target: interaction.OnVertex(0), Mods: ctrl})
	e.Submit(interaction.PointerUp{Target: interaction.OnVertex(1), Mods: ctrl})

	assert.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.graphs) == 1
	}, time.Second, 5*time.Millisecond)
	e.Cancel()

	f := d.last()
	require.Len(t, f.Links, 1)
	assert.Equal(t, snapshot.ID(0), f.Links[0].Source)
}
