package host

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/psidex/zxedit/internal/lib"
	"github.com/psidex/zxedit/internal/snapshot"
)

// FileWatcher reloads a snapshot file whenever it changes on disk and hands
// the parsed snapshot to a callback, typically Store.Replace.
type FileWatcher struct {
	path     string
	debounce time.Duration
	onChange func(*snapshot.Snapshot)
	logger   *slog.Logger
}

func NewFileWatcher(path string, debounce time.Duration, onChange func(*snapshot.Snapshot), logger *slog.Logger) *FileWatcher {
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	return &FileWatcher{path: path, debounce: debounce, onChange: onChange, logger: lib.OrDiscard(logger)}
}

// Run watches until ctx is done. The file's directory is watched rather than
// the file itself so that editors which save by renaming are picked up.
func (w *FileWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create file watcher")
	}
	defer watcher.Close()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}
	w.logger.Info("watching snapshot file", "path", abs)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		case <-timer.C:
			w.reload(abs)
		}
	}
}

func (w *FileWatcher) reload(path string) {
	snap, err := snapshot.ReadFile(path)
	if err == nil {
		err = snap.Validate()
	}
	if err != nil {
		w.logger.Warn("ignoring unreadable snapshot file", "path", path, "error", err)
		return
	}
	w.logger.Info("snapshot file changed", "path", path, "nodes", len(snap.Nodes), "links", len(snap.Links))
	w.onChange(snap)
}
