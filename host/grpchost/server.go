package grpchost

import (
	"context"
	"encoding/hex"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/edsig/host"
)

// Server adapts a host.Host to the Host gRPC service.
type Server struct {
	UnimplementedHostServer
	Host *host.Host
}

func (s *Server) Instantiate(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	if s == nil || s.Host == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing host")
	}
	fields := in.GetFields()
	ctor := fields[FieldConstructor].GetStringValue()
	if ctor == "" {
		return nil, status.Error(codes.InvalidArgument, "missing constructor")
	}
	args, err := decodeArgs(in)
	if err != nil {
		return nil, err
	}

	// The id is echoed back verbatim; the host rejects ids it would not route
	// as given.
	id := fields[FieldInstance].GetStringValue()
	if id == "" {
		id, err = s.Host.Instantiate(ctx, ctor, args)
	} else {
		err = s.Host.InstantiateAs(ctx, id, ctor, args)
	}
	if err != nil {
		return nil, hostErrors.Status(err)
	}
	return wrapperspb.String(id), nil
}

func (s *Server) Call(ctx context.Context, in *structpb.Struct) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Host == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing host")
	}
	fields := in.GetFields()
	id := fields[FieldInstance].GetStringValue()
	msg := fields[FieldMessage].GetStringValue()
	if id == "" || msg == "" {
		return nil, status.Error(codes.InvalidArgument, "missing instance or message")
	}
	args, err := decodeArgs(in)
	if err != nil {
		return nil, err
	}
	out, err := s.Host.Call(ctx, id, msg, args)
	if err != nil {
		return nil, hostErrors.Status(err)
	}
	return wrapperspb.Bytes(out), nil
}

func decodeArgs(in *structpb.Struct) ([]byte, error) {
	raw := in.GetFields()[FieldArgs].GetStringValue()
	if raw == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "args: %v", err)
	}
	return b, nil
}
