package rpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"

	"github.com/estuary/occ/go/coordinator"
	"github.com/estuary/occ/go/dispatcher"
	"github.com/estuary/occ/go/occpb"
)

func startTestServer(t *testing.T, signingKey []byte) (*Client, func(stage, task, attempt int64) string) {
	t.Helper()

	disp := dispatcher.New(0, nil)
	disp.Start()
	facade := coordinator.New(disp)

	srv := NewServer(facade, signingKey)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	dialCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	conn, err := grpc.DialContext(dialCtx, lis.Addr().String(), grpc.WithInsecure(), grpc.WithBlock())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	tokens := TokenSource{SigningKey: signingKey, ExecutorID: "executor-1"}
	sign := func(stage, task, attempt int64) string {
		tok, err := tokens.Sign(stage, task, attempt)
		require.NoError(t, err)
		return tok
	}

	return NewClient(conn), sign
}

func TestGRPCRoundTripGrantsAndDenies(t *testing.T) {
	key := []byte("test-signing-key")
	client, sign := startTestServer(t, key)
	ctx := context.Background()

	_, err := client.StageStarted(ctx, &StageStartedRequest{Stage: 5})
	require.NoError(t, err)

	bearer := WithBearer(ctx, sign(5, 9, 100))
	reply, err := client.AskPermissionToCommit(bearer, &AskRequest{Stage: 5, Task: 9, Attempt: 100})
	require.NoError(t, err)
	require.True(t, reply.Granted)

	bearer2 := WithBearer(ctx, sign(5, 9, 101))
	reply, err = client.AskPermissionToCommit(bearer2, &AskRequest{Stage: 5, Task: 9, Attempt: 101})
	require.NoError(t, err)
	require.False(t, reply.Granted)
}

func TestGRPCRejectsMismatchedToken(t *testing.T) {
	key := []byte("test-signing-key")
	client, sign := startTestServer(t, key)
	ctx := context.Background()

	_, err := client.StageStarted(ctx, &StageStartedRequest{Stage: 5})
	require.NoError(t, err)

	// Token signed for a different attempt than the request carries.
	bearer := WithBearer(ctx, sign(5, 9, 999))
	_, err = client.AskPermissionToCommit(bearer, &AskRequest{Stage: 5, Task: 9, Attempt: 100})
	require.Error(t, err)
	require.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestGRPCRejectsMissingToken(t *testing.T) {
	key := []byte("test-signing-key")
	client, _ := startTestServer(t, key)
	ctx := context.Background()

	_, err := client.StageStarted(ctx, &StageStartedRequest{Stage: 5})
	require.NoError(t, err)

	_, err = client.AskPermissionToCommit(ctx, &AskRequest{Stage: 5, Task: 9, Attempt: 100})
	require.Error(t, err)
	require.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestGRPCStopCoordinator(t *testing.T) {
	key := []byte("test-signing-key")
	client, _ := startTestServer(t, key)
	ctx := context.Background()

	reply, err := client.StopCoordinator(ctx, &Empty{})
	require.NoError(t, err)
	require.True(t, reply.Ok)
}

func TestJSONCodecRegisteredAsDefaultProtoSubtype(t *testing.T) {
	// The server and client above only interoperate at all because
	// jsonCodec has replaced the built-in "proto" codec; this is a
	// smoke check that init() ran and registered it under that name.
	require.Equal(t, "proto", jsonCodec{}.Name())
	require.IsType(t, jsonCodec{}, encoding.GetCodec(codecName))
}
