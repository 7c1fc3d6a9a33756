package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// serviceName is the gRPC full service name, chosen the way a .proto
// file would name it even though none exists in this repository.
const serviceName = "occ.Coordinator"

// CoordinatorServer is implemented by Server (server.go), which
// adapts these calls onto a coordinator.Facade.
type CoordinatorServer interface {
	AskPermissionToCommit(context.Context, *AskRequest) (*AskReply, error)
	StageStarted(context.Context, *StageStartedRequest) (*Empty, error)
	StageEnded(context.Context, *StageEndedRequest) (*Empty, error)
	TaskCompleted(context.Context, *TaskCompletedRequest) (*Empty, error)
	StopCoordinator(context.Context, *Empty) (*StopReply, error)
}

// ServiceDesc is a hand-wired grpc.ServiceDesc: the same structure a
// protoc-gen-go-grpc plugin would emit, written directly against the
// coordinator's five RPCs. Registering it exercises exactly the same
// server-side machinery (codec selection, interceptor chain, request
// dispatch) a generated service would.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CoordinatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AskPermissionToCommit", Handler: askPermissionToCommitHandler},
		{MethodName: "StageStarted", Handler: stageStartedHandler},
		{MethodName: "StageEnded", Handler: stageEndedHandler},
		{MethodName: "TaskCompleted", Handler: taskCompletedHandler},
		{MethodName: "StopCoordinator", Handler: stopCoordinatorHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "occ.rpc",
}

func askPermissionToCommitHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(AskRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).AskPermissionToCommit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/AskPermissionToCommit"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).AskPermissionToCommit(ctx, req.(*AskRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func stageStartedHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StageStartedRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).StageStarted(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/StageStarted"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).StageStarted(ctx, req.(*StageStartedRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func stageEndedHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StageEndedRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).StageEnded(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/StageEnded"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).StageEnded(ctx, req.(*StageEndedRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func taskCompletedHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(TaskCompletedRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).TaskCompleted(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/TaskCompleted"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).TaskCompleted(ctx, req.(*TaskCompletedRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func stopCoordinatorHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).StopCoordinator(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/StopCoordinator"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).StopCoordinator(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Client is the hand-wired counterpart of a generated gRPC client
// stub: each method calls cc.Invoke directly with the full method
// name the ServiceDesc above registers handlers under.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established *grpc.ClientConn (or any
// grpc.ClientConnInterface, which eases testing).
func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

func (c *Client) AskPermissionToCommit(ctx context.Context, in *AskRequest, opts ...grpc.CallOption) (*AskReply, error) {
	out := new(AskReply)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/AskPermissionToCommit", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) StageStarted(ctx context.Context, in *StageStartedRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/StageStarted", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) StageEnded(ctx context.Context, in *StageEndedRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/StageEnded", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TaskCompleted(ctx context.Context, in *TaskCompletedRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/TaskCompleted", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) StopCoordinator(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*StopReply, error) {
	out := new(StopReply)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/StopCoordinator", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
