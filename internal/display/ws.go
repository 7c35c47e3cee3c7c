package display

import (
	"log/slog"

	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/interaction"
	"github.com/psidex/zxedit/internal/lib"
	"github.com/psidex/zxedit/internal/snapshot"
)

// Ws is an editor display that streams JSON frames over a websocket.
type Ws struct {
	ws     lib.ThreadSafeWebSocket
	logger *slog.Logger
}

func NewWs(ws lib.ThreadSafeWebSocket, logger *slog.Logger) *Ws {
	return &Ws{ws: ws, logger: lib.OrDiscard(logger)}
}

func (d *Ws) write(f frame) {
	if err := d.ws.WriteJSON(f); err != nil {
		d.logger.Error("ws write failed", "type", f.Type, "error", err)
	}
}

func (d *Ws) Redraw(s *snapshot.Snapshot) {
	d.write(graphFrame(s))
}

func (d *Ws) Preview(p interaction.Preview) {
	d.write(previewFrame(p))
}

func (d *Ws) PromptPhase(id graph.VertexID, current string) {
	d.write(frame{Type: "prompt", Data: promptData{Vertex: id, Current: current}})
}

func (d *Ws) ShowError(msg string) {
	d.write(frame{Type: "error", Data: errorData{Message: msg}})
}

func (d *Ws) ShowOperations(ops snapshot.Operations) {
	d.write(frame{Type: "operations", Data: ops})
}

func (d *Ws) Armed(v graph.VertexKind, e graph.EdgeKind) {
	d.write(frame{Type: "armed", Data: armedData{Vertex: int(v), Edge: int(e)}})
}

// Pump reads frames until the socket fails, handing each decoded event to
// submit. Frames that do not decode are reported back to the client and
// skipped. The returned error is the read error that ended the pump.
func (d *Ws) Pump(submit func(interaction.Event)) error {
	for {
		_, msg, err := d.ws.ReadMessage()
		if err != nil {
			return err
		}
		ev, err := Decode(msg)
		if err != nil {
			d.logger.Warn("dropping display message", "error", err)
			d.ShowError(err.Error())
			continue
		}
		submit(ev)
	}
}
