package grpccas

import (
	"google.golang.org/grpc/codes"

	"xdao.co/edsig/internal/rpcutil"
	"xdao.co/edsig/storage"
)

// casErrors is how storage sentinels travel over the CAS service.
var casErrors = append(rpcutil.Table{
	{Err: storage.ErrNotFound, Code: codes.NotFound},
	{Err: storage.ErrInvalidCID, Code: codes.InvalidArgument},
	{Err: storage.ErrCIDMismatch, Code: codes.DataLoss},
	{Err: storage.ErrImmutable, Code: codes.AlreadyExists},
}, rpcutil.ContextRules...)
