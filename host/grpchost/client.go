package grpchost

import (
	"context"
	"encoding/hex"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"xdao.co/edsig/internal/rpcutil"
)

// Client calls a remote Host service.
type Client struct {
	cc     *grpc.ClientConn
	client HostClient

	// Timeout bounds each call when non-zero, on top of the caller's context.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration
}

func Dial(target string, opts DialOptions) (*Client, error) {
	cc, err := rpcutil.Dial(target, opts.Timeout)
	if err != nil {
		return nil, err
	}
	return NewClient(cc), nil
}

func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewHostClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Instantiate runs constructor remotely. An empty instance lets the server
// pick an id.
func (c *Client) Instantiate(ctx context.Context, instance, constructor string, args []byte) (string, error) {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldConstructor: structpb.NewStringValue(constructor),
		FieldArgs:        structpb.NewStringValue(hex.EncodeToString(args)),
	}}
	if instance != "" {
		req.Fields[FieldInstance] = structpb.NewStringValue(instance)
	}
	ctx, cancel := rpcutil.WithTimeout(ctx, c.Timeout)
	defer cancel()

	reply, err := c.client.Instantiate(ctx, req)
	if err != nil {
		return "", hostErrors.Error(err)
	}
	return reply.GetValue(), nil
}

// Call runs message against instance remotely and returns its encoded output.
func (c *Client) Call(ctx context.Context, instance, message string, args []byte) ([]byte, error) {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldInstance: structpb.NewStringValue(instance),
		FieldMessage:  structpb.NewStringValue(message),
		FieldArgs:     structpb.NewStringValue(hex.EncodeToString(args)),
	}}
	ctx, cancel := rpcutil.WithTimeout(ctx, c.Timeout)
	defer cancel()

	reply, err := c.client.Call(ctx, req)
	if err != nil {
		return nil, hostErrors.Error(err)
	}
	return reply.GetValue(), nil
}
