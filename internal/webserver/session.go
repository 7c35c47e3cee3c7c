package webserver

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/psidex/zxedit/internal/bridge"
	"github.com/psidex/zxedit/internal/editor"
	"github.com/psidex/zxedit/internal/host"
	"github.com/psidex/zxedit/internal/lib"
)

// ErrProtocolVersion is returned when a display says hello with a protocol
// version this server does not speak.
var ErrProtocolVersion = errors.New("protocol version mismatch")

// SessionConfig is the first message a display sends. Fields it leaves out keep
// the server defaults.
type SessionConfig struct {
	editor.Config
	ProtocolVersion int64 `json:"protocolVersion"`
}

// Upstream is the host a session edits against. Both *host.Store and
// *host.Client satisfy it.
type Upstream interface {
	bridge.GraphHost
	Watch(ctx context.Context, fn func(host.Inbound)) error
}

var (
	_ Upstream = (*host.Store)(nil)
	_ Upstream = (*host.Client)(nil)
)

// parseHello decodes a hello on top of defaults and checks its version.
func parseHello(msg []byte, defaults editor.Config) (SessionConfig, error) {
	cfg := SessionConfig{Config: defaults}
	if err := json.Unmarshal(msg, &cfg); err != nil {
		return cfg, errors.Wrap(err, "decode hello")
	}
	if cfg.ProtocolVersion != lib.ProtocolVersion {
		return cfg, errors.Wrapf(ErrProtocolVersion, "display speaks %d, server speaks %d", cfg.ProtocolVersion, lib.ProtocolVersion)
	}
	return cfg, nil
}

// feed routes host updates into the session.
func feed(ed *editor.Editor) func(host.Inbound) {
	return func(in host.Inbound) {
		switch {
		case in.Graph != nil:
			ed.Replace(in.Graph, in.Selection)
		case in.Selection != nil:
			ed.Select(in.Selection)
		}
		if in.Operations != nil {
			ed.SetOperations(in.Operations)
		}
	}
}
