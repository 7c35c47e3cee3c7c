package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/psidex/zxedit/internal/host"
	"github.com/psidex/zxedit/internal/lib"
	"github.com/psidex/zxedit/internal/snapshot"
)

const (
	// Default host address, set using ZXHOST_BIND_ADDRESS
	defaultBindAddress = "127.0.0.1:50051"

	// Default file watch debounce, set using ZXHOST_WATCH_DEBOUNCE
	defaultDebounce = 200 * time.Millisecond
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	level, err := lib.ParseSLogLevel(env("ZXHOST_LOG_LEVEL", "info"))
	if err != nil {
		level = slog.LevelInfo
	}
	logger := lib.NiceLogger(os.Stderr, level)

	address := env("ZXHOST_BIND_ADDRESS", defaultBindAddress)
	storeDir := os.Getenv("ZXHOST_STORE_DIR")
	watchFile := os.Getenv("ZXHOST_WATCH")
	metricsAddress := os.Getenv("ZXHOST_METRICS_ADDRESS")

	debounce := defaultDebounce
	if v := os.Getenv("ZXHOST_WATCH_DEBOUNCE"); v != "" {
		var d lib.Duration
		if err := d.UnmarshalText([]byte(v)); err != nil {
			logger.Error("bad ZXHOST_WATCH_DEBOUNCE", "error", err)
			os.Exit(1)
		}
		debounce = d.Duration
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := host.Open(storeDir, logger)
	if err != nil {
		logger.Error("failed to open store", "dir", storeDir, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if watchFile != "" {
		replace := func(snap *snapshot.Snapshot) {
			if err := store.Replace(snap, "file"); err != nil {
				logger.Warn("snapshot file rejected", "error", err)
			}
		}
		if snap, err := snapshot.ReadFile(watchFile); err == nil {
			replace(snap)
		}
		go func() {
			w := host.NewFileWatcher(watchFile, debounce, replace, logger)
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("file watcher stopped", "error", err)
			}
		}()
	}

	if metricsAddress != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("serving metrics", "address", metricsAddress)
			if err := http.ListenAndServe(metricsAddress, mux); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	logger.Info("starting host", "address", address, "store", storeDir)

	lis, err := net.Listen("tcp", address)
	if err != nil {
		logger.Error("failed to listen", "error", err)
		os.Exit(1)
	}

	s := host.NewGRPCServer(store, logger)
	go func() {
		<-ctx.Done()
		// Watch streams never finish on their own, so GracefulStop would hang.
		logger.Info("shutting down")
		s.Stop()
	}()

	if err := s.Serve(lis); err != nil {
		logger.Error("failed to serve", "error", err)
	}
}
