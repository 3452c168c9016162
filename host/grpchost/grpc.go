// Package grpchost exposes a host.Host over gRPC.
//
// Like the CAS service, requests and replies are protobuf well-known types
// (structpb.Struct and wrappers), so no generated code is needed. Argument
// and output payloads travel hex-encoded inside the Struct.
package grpchost

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/edsig/internal/rpcutil"
)

const serviceName = "edsig.host.v1.Host"

// Request field names.
const (
	FieldConstructor = "constructor"
	FieldMessage     = "message"
	FieldInstance    = "instance"
	FieldArgs        = "args"
)

type HostServer interface {
	Instantiate(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	Call(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
}

type UnimplementedHostServer struct{}

func (UnimplementedHostServer) Instantiate(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Instantiate not implemented")
}
func (UnimplementedHostServer) Call(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Call not implemented")
}

func RegisterHostServer(s grpc.ServiceRegistrar, srv HostServer) {
	s.RegisterService(&Host_ServiceDesc, srv)
}

type HostClient interface {
	Instantiate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Call(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type hostClient struct{ cc grpc.ClientConnInterface }

func NewHostClient(cc grpc.ClientConnInterface) HostClient { return &hostClient{cc: cc} }

func (c *hostClient) Instantiate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return rpcutil.Invoke[wrapperspb.StringValue](ctx, c.cc, serviceName, "Instantiate", in, opts...)
}

func (c *hostClient) Call(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return rpcutil.Invoke[wrapperspb.BytesValue](ctx, c.cc, serviceName, "Call", in, opts...)
}

// Host_ServiceDesc is the grpc.ServiceDesc for the Host service.
var Host_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*HostServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Instantiate", Handler: rpcutil.Unary(serviceName, "Instantiate", HostServer.Instantiate)},
		{MethodName: "Call", Handler: rpcutil.Unary(serviceName, "Call", HostServer.Call)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "edsig/host/v1/host.proto",
}
