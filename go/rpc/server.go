package rpc

import (
	"context"

	"github.com/estuary/occ/go/coordinator"
)

// Server adapts a coordinator.Facade onto CoordinatorServer, so
// Register(grpc.ServiceRegistrar, *Server) exposes the Facade to
// remote task executors.
type Server struct {
	Facade *coordinator.Facade
}

// AskPermissionToCommit implements CoordinatorServer.
func (s *Server) AskPermissionToCommit(ctx context.Context, req *AskRequest) (*AskReply, error) {
	granted, err := s.Facade.CanCommit(ctx, req.Stage, req.Task, req.Attempt)
	if err != nil {
		return nil, err
	}
	return &AskReply{Granted: granted}, nil
}

// StageStarted implements CoordinatorServer.
func (s *Server) StageStarted(ctx context.Context, req *StageStartedRequest) (*Empty, error) {
	if err := s.Facade.StageStart(ctx, req.Stage); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

// StageEnded implements CoordinatorServer.
func (s *Server) StageEnded(ctx context.Context, req *StageEndedRequest) (*Empty, error) {
	if err := s.Facade.StageEnd(ctx, req.Stage); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

// TaskCompleted implements CoordinatorServer.
func (s *Server) TaskCompleted(ctx context.Context, req *TaskCompletedRequest) (*Empty, error) {
	if err := s.Facade.TaskCompleted(ctx, req.Stage, req.Task, req.Attempt, req.Reason); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

// StopCoordinator implements CoordinatorServer.
func (s *Server) StopCoordinator(ctx context.Context, _ *Empty) (*StopReply, error) {
	if err := s.Facade.Stop(ctx); err != nil {
		return nil, err
	}
	return &StopReply{Ok: true}, nil
}
