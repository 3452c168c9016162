package grpchost

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"xdao.co/edsig/abi"
	"xdao.co/edsig/contract"
	"xdao.co/edsig/host"
	"xdao.co/edsig/ledger"
	"xdao.co/edsig/storage/memory"
)

func startServer(t *testing.T) (*Client, HostClient) {
	t.Helper()
	h := host.New(contract.DefaultProgram(), ledger.NewStore(memory.New(), ledger.NewMemoryHeads()))

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterHostServer(srv, &Server{Host: h})
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	client := NewClient(cc)
	t.Cleanup(func() { _ = client.Close() })
	return client, NewHostClient(cc)
}

func TestGRPCHost_RoundTrip(t *testing.T) {
	c, _ := startServer(t)
	ctx := context.Background()

	id, err := c.Instantiate(ctx, "", "new", abi.EncodeBool(true))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	out, err := c.Call(ctx, id, "get", nil)
	require.NoError(t, err)
	require.Equal(t, abi.EncodeBool(true), out)

	_, err = c.Call(ctx, id, "flip", nil)
	require.NoError(t, err)
	out, err = c.Call(ctx, id, abi.SelectorFor("get").String(), nil)
	require.NoError(t, err)
	require.Equal(t, abi.EncodeBool(false), out)

	out, err = c.Call(ctx, id, "verification_test", nil)
	require.NoError(t, err)
	require.Equal(t, abi.EncodeBool(true), out)
}

func TestGRPCHost_ErrorMapping(t *testing.T) {
	c, _ := startServer(t)
	ctx := context.Background()

	_, err := c.Call(ctx, "missing", "get", nil)
	require.ErrorIs(t, err, host.ErrUninitialized)

	id, err := c.Instantiate(ctx, "fixed", "default", nil)
	require.NoError(t, err)
	require.Equal(t, "fixed", id)
	_, err = c.Instantiate(ctx, "fixed", "default", nil)
	require.ErrorIs(t, err, host.ErrAlreadyInitialized)

	_, err = c.Call(ctx, id, "nope", nil)
	require.ErrorIs(t, err, host.ErrUnknownEntry)
	_, err = c.Instantiate(ctx, "", "new", []byte{7})
	require.ErrorIs(t, err, host.ErrInvalidArgs)
}

func TestGRPCHost_MalformedRequests(t *testing.T) {
	_, raw := startServer(t)
	ctx := context.Background()

	_, err := raw.Instantiate(ctx, &structpb.Struct{})
	require.ErrorIs(t, hostErrors.Error(err), host.ErrInvalidArgs)

	_, err = raw.Call(ctx, &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldInstance: structpb.NewStringValue("x"),
		FieldMessage:  structpb.NewStringValue("get"),
		FieldArgs:     structpb.NewStringValue("zz"),
	}})
	require.ErrorIs(t, hostErrors.Error(err), host.ErrInvalidArgs)
}

func TestGRPCHost_InstanceIDRoutesAsReturned(t *testing.T) {
	c, _ := startServer(t)
	ctx := context.Background()

	_, err := c.Instantiate(ctx, " fixed", "new", abi.EncodeBool(true))
	require.ErrorIs(t, err, host.ErrInvalidArgs)
	_, err = c.Call(ctx, "fixed", "get", nil)
	require.ErrorIs(t, err, host.ErrUninitialized, "a rejected id must not be stored trimmed")

	id, err := c.Instantiate(ctx, "fixed", "new", abi.EncodeBool(true))
	require.NoError(t, err)
	out, err := c.Call(ctx, id, "get", nil)
	require.NoError(t, err)
	require.Equal(t, abi.EncodeBool(true), out)
}

func TestGRPCHost_ClientTimeout(t *testing.T) {
	c, _ := startServer(t)
	c.Timeout = time.Nanosecond

	_, err := c.Instantiate(context.Background(), "", "default", nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
