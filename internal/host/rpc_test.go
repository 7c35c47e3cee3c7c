package host

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/psidex/zxedit/internal/lib"
	"github.com/psidex/zxedit/internal/snapshot"
)

func startHost(t *testing.T) (*Store, *Client) {
	t.Helper()
	store := openTestStore(t)
	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(store, nil)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	client, err := Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return store, client
}

func TestClientPushAndAction(t *testing.T) {
	store, client := startHost(t)
	ctx := context.Background()

	require.NoError(t, client.PushGraph(ctx, nodes(2), "add"))
	assert.Len(t, store.Current().Nodes, 2)

	require.NoError(t, client.PushSelection(ctx, &snapshot.Snapshot{Nodes: []snapshot.Node{{Name: 0}}}))
	require.NoError(t, client.RequestAction(ctx, "to_x"))
	assert.Equal(t, 2, store.Current().Nodes[0].T)

	err := client.RequestAction(ctx, "bogus")
	assert.Equal(t, codes.NotFound, status.Code(err))

	require.NoError(t, client.RequestAction(ctx, ActionUndo))
	require.NoError(t, client.RequestAction(ctx, ActionUndo))
	err = client.RequestAction(ctx, ActionUndo)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	bad := &snapshot.Snapshot{Links: []snapshot.Link{{Source: 4, Target: 5, T: 1}}}
	assert.Equal(t, codes.InvalidArgument, status.Code(client.PushGraph(ctx, bad, "bad")))
}

func TestClientWatch(t *testing.T) {
	store, client := startHost(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan Inbound, 8)
	go func() { _ = client.Watch(ctx, func(msg Inbound) { updates <- msg }) }()

	first := receive(t, updates)
	require.NotNil(t, first.Graph)
	assert.Len(t, first.Operations, 4)

	require.NoError(t, store.Replace(nodes(3), "file"))
	next := receive(t, updates)
	require.NotNil(t, next.Graph)
	assert.Len(t, next.Graph.Nodes, 3)
}

func TestWatchRejectsVersionMismatch(t *testing.T) {
	_, client := startHost(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	stream, err := client.conn.NewStream(ctx, &hostServiceDesc.Streams[0], "/zxedit.Host/Watch")
	require.NoError(t, err)
	require.NoError(t, stream.SendMsg(&WatchRequest{ProtocolVersion: lib.ProtocolVersion + 1}))
	require.NoError(t, stream.CloseSend())
	err = stream.RecvMsg(&Inbound{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}
