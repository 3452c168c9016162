package grpchost

import (
	"google.golang.org/grpc/codes"

	"xdao.co/edsig/host"
	"xdao.co/edsig/internal/rpcutil"
)

// hostErrors maps host sentinels to status codes. ErrInvalidArgs is listed
// before ErrUnknownEntry so that request validation failures, which carry no
// host message, decode as invalid arguments.
var hostErrors = append(rpcutil.Table{
	{Err: host.ErrUninitialized, Code: codes.NotFound},
	{Err: host.ErrAlreadyInitialized, Code: codes.AlreadyExists},
	{Err: host.ErrInvalidArgs, Code: codes.InvalidArgument},
	{Err: host.ErrUnknownEntry, Code: codes.InvalidArgument},
	{Err: host.ErrAborted, Code: codes.Aborted},
}, rpcutil.ContextRules...)
