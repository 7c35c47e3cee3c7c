package host

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/psidex/zxedit/internal/lib"
	"github.com/psidex/zxedit/internal/snapshot"
)

// jsonCodec carries the snapshot structs as JSON so the service needs no
// generated protobuf code.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

type PushGraphRequest struct {
	Graph  *snapshot.Snapshot `json:"graph"`
	Reason string             `json:"reason"`
}

type PushSelectionRequest struct {
	Selection *snapshot.Snapshot `json:"selection"`
}

type ActionRequest struct {
	Action string `json:"action"`
}

type WatchRequest struct {
	ProtocolVersion int64 `json:"protocolVersion"`
}

type Empty struct{}

type hostServer interface {
	PushGraph(context.Context, *PushGraphRequest) (*Empty, error)
	PushSelection(context.Context, *PushSelectionRequest) (*Empty, error)
	RequestAction(context.Context, *ActionRequest) (*Empty, error)
	Watch(*WatchRequest, grpc.ServerStream) error
}

func unary[Req any](call func(hostServer, context.Context, *Req) (*Empty, error), method string) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(hostServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/zxedit.Host/" + method}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(hostServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var hostServiceDesc = grpc.ServiceDesc{
	ServiceName: "zxedit.Host",
	HandlerType: (*hostServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(hostServer.PushGraph, "PushGraph"),
		unary(hostServer.PushSelection, "PushSelection"),
		unary(hostServer.RequestAction, "RequestAction"),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			ServerStreams: true,
			Handler: func(srv interface{}, stream grpc.ServerStream) error {
				in := new(WatchRequest)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(hostServer).Watch(in, stream)
			},
		},
	},
	Metadata: "zxedit/host",
}

// Server exposes a Store over gRPC.
type Server struct {
	store  *Store
	logger *slog.Logger
}

// NewGRPCServer returns a grpc server with the host service registered.
func NewGRPCServer(store *Store, logger *slog.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ForceServerCodec(jsonCodec{}))
	s := grpc.NewServer(opts...)
	s.RegisterService(&hostServiceDesc, &Server{store: store, logger: lib.OrDiscard(logger)})
	return s
}

// toStatus maps store errors onto gRPC codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, snapshot.ErrMalformedSnapshot):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrNothingToUndo), errors.Is(err, ErrNothingToRedo), errors.Is(err, ErrNotApplicable):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ErrUnknownAction):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func (s *Server) PushGraph(ctx context.Context, req *PushGraphRequest) (*Empty, error) {
	if req.Graph == nil {
		return nil, status.Error(codes.InvalidArgument, "missing graph")
	}
	return &Empty{}, toStatus(s.store.PushGraph(ctx, req.Graph, req.Reason))
}

func (s *Server) PushSelection(ctx context.Context, req *PushSelectionRequest) (*Empty, error) {
	return &Empty{}, toStatus(s.store.PushSelection(ctx, req.Selection))
}

func (s *Server) RequestAction(ctx context.Context, req *ActionRequest) (*Empty, error) {
	return &Empty{}, toStatus(s.store.RequestAction(ctx, req.Action))
}

func (s *Server) Watch(req *WatchRequest, stream grpc.ServerStream) error {
	if req.ProtocolVersion != lib.ProtocolVersion {
		return status.Errorf(
			codes.PermissionDenied,
			"version mismatch: expected %d, got %d",
			lib.ProtocolVersion, req.ProtocolVersion,
		)
	}
	ctx := stream.Context()
	s.logger.Info("watcher connected")
	defer s.logger.Info("watcher disconnected")

	for msg := range s.store.Subscribe(ctx) {
		if err := stream.SendMsg(&msg); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// Client talks to a remote host. It satisfies bridge.GraphHost.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to a host at addr. Extra options are appended to the defaults.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{})),
	}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "dial host %s", addr)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(ctx context.Context, method string, req interface{}) error {
	return c.conn.Invoke(ctx, "/zxedit.Host/"+method, req, &Empty{})
}

func (c *Client) PushGraph(ctx context.Context, snap *snapshot.Snapshot, reason string) error {
	return c.invoke(ctx, "PushGraph", &PushGraphRequest{Graph: snap, Reason: reason})
}

func (c *Client) PushSelection(ctx context.Context, snap *snapshot.Snapshot) error {
	return c.invoke(ctx, "PushSelection", &PushSelectionRequest{Selection: snap})
}

func (c *Client) RequestAction(ctx context.Context, action string) error {
	return c.invoke(ctx, "RequestAction", &ActionRequest{Action: action})
}

// Watch streams host updates into fn until ctx is done or the stream fails.
func (c *Client) Watch(ctx context.Context, fn func(Inbound)) error {
	desc := &hostServiceDesc.Streams[0]
	stream, err := c.conn.NewStream(ctx, desc, "/zxedit.Host/Watch")
	if err != nil {
		return err
	}
	if err := stream.SendMsg(&WatchRequest{ProtocolVersion: lib.ProtocolVersion}); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}
	for {
		var msg Inbound
		if err := stream.RecvMsg(&msg); err != nil {
			return err
		}
		fn(msg)
	}
}
