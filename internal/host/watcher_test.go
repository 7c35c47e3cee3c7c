package host

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/zxedit/internal/snapshot"
)

func TestFileWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	require.NoError(t, nodes(1).WriteFile(path))

	got := make(chan *snapshot.Snapshot, 4)
	w := NewFileWatcher(path, 10*time.Millisecond, func(s *snapshot.Snapshot) { got <- s }, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes": [`), 0644))
	require.NoError(t, nodes(4).WriteFile(path))

	select {
	case s := <-got:
		assert.Len(t, s.Nodes, 4)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not reload the file")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
