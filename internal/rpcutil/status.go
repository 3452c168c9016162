package rpcutil

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Rule pairs a sentinel error with the status code it travels as.
type Rule struct {
	Err  error
	Code codes.Code
}

// Table maps sentinel errors to status codes and back. Several sentinels may
// share a code; the client picks the one whose text prefixes the status
// message, else the first listed.
type Table []Rule

// ContextRules carries context cancellation across the wire.
var ContextRules = Table{
	{Err: context.Canceled, Code: codes.Canceled},
	{Err: context.DeadlineExceeded, Code: codes.DeadlineExceeded},
}

// Status converts err to a status error on the server side. Errors that
// already carry a status pass through; unmatched errors become Internal.
func (t Table) Status(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, r := range t {
		if errors.Is(err, r.Err) {
			return status.Error(r.Code, err.Error())
		}
	}
	return status.Error(codes.Internal, err.Error())
}

// Error converts a status error back to a wrapped sentinel on the client
// side, keeping the server's message. Unmatched errors are returned as is.
func (t Table) Error(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	var sentinel error
	for _, r := range t {
		if r.Code != st.Code() {
			continue
		}
		if strings.HasPrefix(st.Message(), r.Err.Error()) {
			sentinel = r.Err
			break
		}
		if sentinel == nil {
			sentinel = r.Err
		}
	}
	if sentinel == nil {
		return err
	}
	return fmt.Errorf("%w (remote: %s)", sentinel, st.Message())
}
