package rpc

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// executorClaims binds a bearer token to the (stage, task, attempt) it
// authorizes a request for: a task executor may only ask permission to
// commit, or report completion, for an attempt the scheduler actually
// assigned it.
type executorClaims struct {
	jwt.RegisteredClaims
	ExecutorID string `json:"executor_id"`
	Stage      int64  `json:"stage"`
	Task       int64  `json:"task"`
	Attempt    int64  `json:"attempt"`
}

// TokenSource mints a bearer token for one (stage, task, attempt), for
// use by a task executor's outgoing calls.
type TokenSource struct {
	SigningKey []byte
	ExecutorID string
}

// Sign returns a compact JWT binding the executor to (stage, task, attempt).
func (t TokenSource) Sign(stage, task, attempt int64) (string, error) {
	claims := executorClaims{
		ExecutorID: t.ExecutorID,
		Stage:      stage,
		Task:       task,
		Attempt:    attempt,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.SigningKey)
}

const bearerMetadataKey = "authorization"

// AuthInterceptor validates the bearer token on every RPC that
// carries a (stage, task, attempt) triple before the request ever
// reaches the Dispatcher: a missing or invalid token is rejected with
// codes.Unauthenticated, and a valid token whose claims name a
// different triple with codes.PermissionDenied. This is a transport-level gate: a rejected
// token is invisible to the Decision Kernel and never changes its
// reply semantics (it never calls handleAskPermissionToCommit at
// all).
type AuthInterceptor struct {
	SigningKey []byte
}

// Unary returns a grpc.UnaryServerInterceptor enforcing the token
// check described above.
func (a AuthInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		stage, task, attempt, ok := tripleOf(req)
		if !ok {
			// StageStarted/StageEnded/StopCoordinator carry no
			// per-attempt identity to authenticate against.
			return handler(ctx, req)
		}

		claims, err := a.authenticate(ctx)
		if err != nil {
			return nil, err
		}
		if claims.Stage != stage || claims.Task != task || claims.Attempt != attempt {
			return nil, status.Errorf(codes.PermissionDenied, "token for executor %s does not authorize stage=%d task=%d attempt=%d", claims.ExecutorID, stage, task, attempt)
		}
		return handler(ctx, req)
	}
}

func (a AuthInterceptor) authenticate(ctx context.Context) (*executorClaims, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok || len(md.Get(bearerMetadataKey)) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing authorization metadata")
	}
	raw := md.Get(bearerMetadataKey)[0]

	claims := new(executorClaims)
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return a.SigningKey, nil
	})
	if err != nil {
		return nil, status.Errorf(codes.Unauthenticated, "invalid bearer token: %v", err)
	}
	return claims, nil
}

func tripleOf(req interface{}) (stage, task, attempt int64, ok bool) {
	switch r := req.(type) {
	case *AskRequest:
		return int64(r.Stage), int64(r.Task), int64(r.Attempt), true
	case *TaskCompletedRequest:
		return int64(r.Stage), int64(r.Task), int64(r.Attempt), true
	default:
		return 0, 0, 0, false
	}
}

// WithBearer attaches a signed token to an outgoing client context.
func WithBearer(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, bearerMetadataKey, token)
}
