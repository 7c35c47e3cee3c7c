package editor

import (
	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/interaction"
	"github.com/psidex/zxedit/internal/metrics"
	"github.com/psidex/zxedit/internal/phase"
)

// The Editor is the controller's sink: commits go to the bridge, feedback goes
// to the display.

func (e *Editor) StructureChanged(reason string) {
	metrics.StructuralChanges.WithLabelValues(reason).Inc()
	e.logger.Debug("structure changed", "reason", reason)
	e.bridge.PushChange(reason)
	e.dirty = true
}

func (e *Editor) SelectionChanged() {
	e.bridge.PushSelection()
	e.dirty = true
}

func (e *Editor) Preview(p interaction.Preview) {
	if p.Kind == interaction.PreviewMove {
		e.dirty = true
	}
	e.display.Preview(p)
}

func (e *Editor) PromptPhase(id graph.VertexID, current phase.Phase) {
	e.display.PromptPhase(id, current.String())
}

func (e *Editor) ArmedChanged(v graph.VertexKind, k graph.EdgeKind) {
	e.display.Armed(v, k)
}

func (e *Editor) RequestAction(name string) error {
	switch name {
	case interaction.ActionUndo, interaction.ActionRedo:
		e.bridge.RequestAction(name)
		return nil
	default:
		return e.bridge.RequestOperation(name)
	}
}
