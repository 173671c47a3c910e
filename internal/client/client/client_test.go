package client

import (
	"context"
	"net"
	"strings"
	"testing"

	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

// echoHandler answers every method with the method name, the token it
// saw and the request, or fails with the code named by args["fail"].
func echoHandler(_ any, stream grpc.ServerStream) error {
	method, _ := grpc.MethodFromServerStream(stream)

	in := &structpb.Struct{}
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	switch in.AsMap()["fail"] {
	case "unauthenticated":
		return status.Error(codes.Unauthenticated, "missing token")
	case "unavailable":
		return status.Error(codes.Unavailable, "down")
	case "precondition":
		return status.Error(codes.FailedPrecondition, "paused")
	}

	token := ""
	if md, ok := metadata.FromIncomingContext(stream.Context()); ok {
		if v := md.Get(common.AccessTokenHeaderName); len(v) > 0 {
			token = v[0]
		}
	}

	out, err := structpb.NewStruct(map[string]any{
		"method": method,
		"token":  token,
		"echo":   in.AsMap(),
	})
	if err != nil {
		return err
	}
	return stream.SendMsg(out)
}

func newTestClient(t *testing.T) *SaleClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnknownServiceHandler(echoHandler))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := NewSaleClient("passthrough:///bufconn",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCall_RoutesAndEchoes(t *testing.T) {
	c := newTestClient(t)

	out, err := c.Call(context.Background(), "VestingInfo", map[string]any{"address": "0xabc"})
	require.NoError(t, err)

	assert.Equal(t, "/hypesale.v1.SaleService/VestingInfo", out["method"])
	assert.Equal(t, "", out["token"])
	assert.Equal(t, map[string]any{"address": "0xabc"}, out["echo"])
}

func TestCall_AttachesAccessToken(t *testing.T) {
	c := newTestClient(t)
	c.SetAccessToken("tkn")

	out, err := c.Call(context.Background(), "Pause", nil)
	require.NoError(t, err)
	assert.Equal(t, "tkn", out["token"])
}

func TestCall_ErrorMapping(t *testing.T) {
	c := newTestClient(t)

	tests := []struct {
		fail string
		is   error
		code codes.Code
	}{
		{fail: "unauthenticated", is: ErrUnauthorized},
		{fail: "unavailable", is: ErrUnavailable},
		{fail: "precondition", code: codes.FailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.fail, func(t *testing.T) {
			_, err := c.Call(context.Background(), "Pause", map[string]any{"fail": tt.fail})
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
				return
			}
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestCall_BadArgs(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Call(context.Background(), "Pause", map[string]any{"bad": struct{}{}})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "encode Pause request"))
}
