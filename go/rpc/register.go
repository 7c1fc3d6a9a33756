package rpc

import (
	grpcprom "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"

	"github.com/estuary/occ/go/coordinator"
)

// NewServer builds a *grpc.Server exposing facade, with the standard
// gRPC Prometheus interceptor (request counts/latencies) and the
// task-authentication interceptor chained ahead of every call.
func NewServer(facade *coordinator.Facade, signingKey []byte) *grpc.Server {
	auth := AuthInterceptor{SigningKey: signingKey}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpcprom.UnaryServerInterceptor,
			auth.Unary(),
		),
	)
	srv.RegisterService(&ServiceDesc, &Server{Facade: facade})
	grpcprom.Register(srv)
	return srv
}
