package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/psidex/zxedit/internal/host"
	"github.com/psidex/zxedit/internal/snapshot"
	"github.com/psidex/zxedit/internal/webserver"
)

func serveCmd(g *globals) *cobra.Command {
	var (
		bind, static, hostAddr, storeDir, watch string
		readOnly, checkInvariants               bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser editor",
		Long: `Serve the browser editor and open one editing session per websocket.

Without --host-addr the graph lives in an in-process store (in memory unless
--store is given). With --watch, saving the given snapshot file replaces the
graph in every open session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.cfg
			flags := cmd.Flags()
			if flags.Changed("bind") {
				cfg.Serve.BindAddress = bind
			}
			if flags.Changed("static") {
				cfg.Serve.StaticDir = static
			}
			if flags.Changed("host-addr") {
				cfg.Host.Address = hostAddr
			}
			if flags.Changed("store") {
				cfg.Host.StoreDir = storeDir
			}
			if flags.Changed("watch") {
				cfg.Host.WatchFile = watch
			}
			if flags.Changed("read-only") {
				cfg.Editor.ReadOnly = readOnly
			}
			if flags.Changed("check-invariants") {
				cfg.Editor.CheckInvariants = checkInvariants
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			upstream, closeUpstream, err := openUpstream(ctx, g)
			if err != nil {
				return err
			}
			defer closeUpstream()

			srv := &http.Server{
				Addr:    cfg.Serve.BindAddress,
				Handler: webserver.NewServer(upstream, cfg.Editor, g.logger).Handler(cfg.Serve.StaticDir, cfg.Serve.MetricsPath),
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			g.logger.Info("serving editor", "address", cfg.Serve.BindAddress, "static", cfg.Serve.StaticDir)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&bind, "bind", "b", "", "the ip:port to bind the webserver to")
	flags.StringVarP(&static, "static", "d", "", "the directory to serve static files from")
	flags.StringVar(&hostAddr, "host-addr", "", "address of a zxhost to edit against")
	flags.StringVar(&storeDir, "store", "", "directory for the in-process graph store")
	flags.StringVar(&watch, "watch", "", "snapshot file whose changes replace the graph")
	flags.BoolVar(&readOnly, "read-only", false, "open sessions as viewers")
	flags.BoolVar(&checkInvariants, "check-invariants", false, "validate the graph after every event")
	return cmd
}

// openUpstream connects to the configured host, or opens a local store and
// starts its file watcher.
func openUpstream(ctx context.Context, g *globals) (webserver.Upstream, func(), error) {
	cfg := g.cfg.Host
	if cfg.Address != "" {
		if cfg.WatchFile != "" {
			return nil, nil, errors.New("--watch needs the in-process store, set ZXHOST_WATCH on the host instead")
		}
		client, err := host.Dial(cfg.Address)
		if err != nil {
			return nil, nil, err
		}
		g.logger.Info("editing against remote host", "address", cfg.Address)
		return client, func() { _ = client.Close() }, nil
	}

	store, err := host.Open(cfg.StoreDir, g.logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.WatchFile != "" {
		if err := watchFile(ctx, store, cfg.WatchFile, cfg.Debounce.Duration, g); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
	}
	return store, func() { _ = store.Close() }, nil
}

// watchFile loads path into store once and then on every change.
func watchFile(ctx context.Context, store *host.Store, path string, debounce time.Duration, g *globals) error {
	replace := func(snap *snapshot.Snapshot) {
		if err := store.Replace(snap, "file"); err != nil {
			g.logger.Warn("snapshot file rejected", "path", path, "error", err)
		}
	}

	if snap, err := snapshot.ReadFile(path); err == nil {
		replace(snap)
	} else if !os.IsNotExist(errors.Cause(err)) {
		return err
	}

	w := host.NewFileWatcher(path, debounce, replace, g.logger)
	go func() {
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			g.logger.Error("file watcher stopped", "error", err)
		}
	}()
	return nil
}
