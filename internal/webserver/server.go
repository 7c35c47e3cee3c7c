// Package webserver serves the browser editor: static files, one editor
// session per websocket, and prometheus metrics.
package webserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/psidex/zxedit/internal/display"
	"github.com/psidex/zxedit/internal/editor"
	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/lib"
)

type Server struct {
	upstream Upstream
	defaults editor.Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
	sessions lib.Set[string]
}

func NewServer(upstream Upstream, defaults editor.Config, logger *slog.Logger) *Server {
	s := &Server{
		upstream: upstream,
		defaults: defaults,
		logger:   lib.OrDiscard(logger),
		sessions: lib.NewSet[string](),
	}
	s.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	return s
}

// Sessions returns the ids of the open editor sessions.
func (s *Server) Sessions() []string {
	return s.sessions.AsSlice()
}

// Handler routes "/" to staticDir, "/ws" to a new session and metricsPath (if
// not empty) to the prometheus handler.
func (s *Server) Handler(staticDir, metricsPath string) http.Handler {
	mux := http.NewServeMux()
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	mux.HandleFunc("/ws", s.Session)
	if metricsPath != "" {
		mux.Handle(metricsPath, promhttp.Handler())
	}
	return mux
}

// Session runs one editor over the websocket until the display goes away.
func (s *Server) Session(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	ws := lib.NewThreadSafeWebSocket(c)
	defer ws.Close()

	d := display.NewWs(ws, s.logger)

	_, msg, err := ws.ReadMessage()
	if err != nil {
		s.logger.Warn("ws hello read failed", "error", err)
		return
	}
	cfg, err := parseHello(msg, s.defaults)
	if err != nil {
		s.logger.Warn("rejecting display", "error", err)
		d.ShowError(err.Error())
		return
	}

	ed := editor.NewEditor(cfg.Config, graph.New(), s.upstream, d, s.logger)
	ed.Run()
	defer ed.Cancel()

	id := ed.ID.String()
	s.sessions.Add(id)
	defer s.sessions.Remove(id)
	s.logger.Info("display connected", "session", id, "open", s.sessions.Size())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		if err := s.upstream.Watch(ctx, feed(ed)); err != nil && ctx.Err() == nil {
			s.logger.Error("host watch ended", "session", id, "error", err)
		}
	}()

	// The pump returns once the display disconnects.
	err = d.Pump(ed.Submit)
	s.logger.Info("display disconnected", "session", id, "error", err)
}
