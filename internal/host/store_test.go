package host

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/zxedit/internal/snapshot"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func nodes(n int) *snapshot.Snapshot {
	s := &snapshot.Snapshot{Nodes: []snapshot.Node{}, Links: []snapshot.Link{}}
	for i := 0; i < n; i++ {
		s.Nodes = append(s.Nodes, snapshot.Node{Name: snapshot.ID(i), X: float64(i), T: 1})
	}
	return s
}

func TestUndoRedo(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	assert.True(t, errors.Is(s.RequestAction(ctx, ActionUndo), ErrNothingToUndo))

	require.NoError(t, s.PushGraph(ctx, nodes(1), "add vertex"))
	require.NoError(t, s.PushGraph(ctx, nodes(2), "add vertex"))
	cur, head := s.Revision()
	assert.Equal(t, uint64(3), cur)
	assert.Equal(t, uint64(3), head)

	require.NoError(t, s.RequestAction(ctx, ActionUndo))
	assert.Len(t, s.Current().Nodes, 1)
	require.NoError(t, s.RequestAction(ctx, ActionUndo))
	assert.Empty(t, s.Current().Nodes)
	assert.True(t, errors.Is(s.RequestAction(ctx, ActionUndo), ErrNothingToUndo))

	require.NoError(t, s.RequestAction(ctx, ActionRedo))
	assert.Len(t, s.Current().Nodes, 1)

	// A new edit drops the redo branch.
	require.NoError(t, s.PushGraph(ctx, nodes(5), "paste"))
	assert.True(t, errors.Is(s.RequestAction(ctx, ActionRedo), ErrNothingToRedo))
	cur, head = s.Revision()
	assert.Equal(t, uint64(3), cur)
	assert.Equal(t, uint64(3), head)
}

func TestPushGraphRejectsMalformed(t *testing.T) {
	s := openTestStore(t)
	bad := &snapshot.Snapshot{Links: []snapshot.Link{{Source: 0, Target: 1, T: 1}}}
	err := s.PushGraph(context.Background(), bad, "oops")
	assert.True(t, errors.Is(err, snapshot.ErrMalformedSnapshot))
	cur, _ := s.Revision()
	assert.Equal(t, uint64(1), cur)
}

func TestUnknownAction(t *testing.T) {
	s := openTestStore(t)
	assert.True(t, errors.Is(s.RequestAction(context.Background(), "fuse_everything"), ErrUnknownAction))
}

func receive(t *testing.T, ch <-chan Inbound) Inbound {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no update from store")
		return Inbound{}
	}
}

func TestSubscribe(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Subscribe(ctx)

	first := receive(t, ch)
	require.NotNil(t, first.Graph)
	assert.Empty(t, first.Graph.Nodes)
	assert.False(t, first.Operations["to_x"].Active)

	require.NoError(t, s.PushGraph(ctx, nodes(2), "add"))
	edit := receive(t, ch)
	assert.Nil(t, edit.Graph, "editors are not sent their own edits back")

	require.NoError(t, s.PushSelection(ctx, &snapshot.Snapshot{Nodes: []snapshot.Node{{Name: 1}}}))
	sel := receive(t, ch)
	assert.True(t, sel.Operations["to_x"].Active)
	assert.False(t, sel.Operations["to_z"].Active)

	require.NoError(t, s.RequestAction(ctx, ActionUndo))
	undo := receive(t, ch)
	require.NotNil(t, undo.Graph)
	assert.Empty(t, undo.Graph.Nodes)

	cancel()
	assert.Eventually(t, func() bool {
		_, ok := <-ch
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestRewriteCommitsRevision(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.PushGraph(ctx, nodes(1), "add"))

	assert.True(t, errors.Is(s.RequestAction(ctx, "to_x"), ErrNotApplicable))

	require.NoError(t, s.PushSelection(ctx, &snapshot.Snapshot{Nodes: []snapshot.Node{{Name: 0}}}))
	require.NoError(t, s.RequestAction(ctx, "to_x"))
	assert.Equal(t, 2, s.Current().Nodes[0].T)

	require.NoError(t, s.RequestAction(ctx, ActionUndo))
	assert.Equal(t, 1, s.Current().Nodes[0].T)
}

func TestStoreReopens(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, nil)
	require.NoError(t, err)
	require.NoError(t, s.PushGraph(context.Background(), nodes(3), "add"))
	require.NoError(t, s.Close())

	s, err = Open(dir, nil)
	require.NoError(t, err)
	defer s.Close()
	cur, _ := s.Revision()
	assert.Equal(t, uint64(2), cur)
	assert.Len(t, s.Current().Nodes, 3)
	require.NoError(t, s.RequestAction(context.Background(), ActionUndo))
	assert.Empty(t, s.Current().Nodes)
}
