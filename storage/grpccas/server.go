package grpccas

import (
	"context"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/edsig/storage"
)

// Server exposes a storage.CAS over the CAS gRPC service. Objects are
// checked against their CID in both directions, so a faulty backend surfaces
// as DataLoss rather than as wrong bytes.
type Server struct {
	UnimplementedCASServer
	CAS storage.CAS
}

func (s *Server) Put(_ context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	cas, err := s.backend()
	if err != nil {
		return nil, err
	}
	data := in.GetValue()
	id, err := cas.Put(data)
	if err != nil {
		return nil, casErrors.Status(err)
	}
	if err := storage.VerifyCID(id, data); err != nil {
		return nil, casErrors.Status(err)
	}
	return wrapperspb.String(id.String()), nil
}

func (s *Server) Get(_ context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	cas, err := s.backend()
	if err != nil {
		return nil, err
	}
	id, err := parseCID(in)
	if err != nil {
		return nil, err
	}
	data, err := cas.Get(id)
	if err == nil {
		err = storage.VerifyCID(id, data)
	}
	if err != nil {
		return nil, casErrors.Status(err)
	}
	return wrapperspb.Bytes(data), nil
}

func (s *Server) Has(_ context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	cas, err := s.backend()
	if err != nil {
		return nil, err
	}
	id, err := parseCID(in)
	if err != nil {
		return nil, err
	}
	return wrapperspb.Bool(cas.Has(id)), nil
}

func (s *Server) backend() (storage.CAS, error) {
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "grpccas: server has no CAS")
	}
	return s.CAS, nil
}

func parseCID(in *wrapperspb.StringValue) (cid.Cid, error) {
	id, err := cid.Decode(in.GetValue())
	if err != nil || !id.Defined() {
		return cid.Undef, casErrors.Status(storage.ErrInvalidCID)
	}
	return id, nil
}
