package grpccas

import (
	"context"
	"time"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/edsig/internal/rpcutil"
	"xdao.co/edsig/storage"
)

// Client implements storage.CAS over a CAS gRPC service. storage.CAS has no
// context parameter, so every RPC runs under Timeout instead.
type Client struct {
	cc     *grpc.ClientConn
	client CASClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

var _ storage.CAS = (*Client)(nil)

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	var extra []grpc.DialOption
	if opts.MaxMsgBytes > 0 {
		extra = append(extra, grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
			grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
		))
	}
	cc, err := rpcutil.Dial(target, opts.Timeout, extra...)
	if err != nil {
		return nil, err
	}
	return NewClient(cc), nil
}

// NewClient wraps an established connection.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewCASClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Put stores data remotely and checks that the server addressed it the way
// this side would.
func (c *Client) Put(data []byte) (cid.Cid, error) {
	ctx, cancel := rpcutil.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	reply, err := c.client.Put(ctx, wrapperspb.Bytes(data))
	if err != nil {
		return cid.Undef, casErrors.Error(err)
	}
	id, err := cid.Decode(reply.GetValue())
	if err != nil || !id.Defined() {
		return cid.Undef, storage.ErrInvalidCID
	}
	if err := storage.VerifyCID(id, data); err != nil {
		return cid.Undef, err
	}
	return id, nil
}

func (c *Client) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	ctx, cancel := rpcutil.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	reply, err := c.client.Get(ctx, wrapperspb.String(id.String()))
	if err != nil {
		return nil, casErrors.Error(err)
	}
	if err := storage.VerifyCID(id, reply.GetValue()); err != nil {
		return nil, err
	}
	return reply.GetValue(), nil
}

// Has reports false on any transport error.
func (c *Client) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	ctx, cancel := rpcutil.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	reply, err := c.client.Has(ctx, wrapperspb.String(id.String()))
	return err == nil && reply.GetValue()
}
