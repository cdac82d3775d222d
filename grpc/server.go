package trpgrpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/blockberries/trp"
	"github.com/blockberries/trp/types"
)

// Compile-time interface check.
var _ TRPServiceServer = (*GRPCServer)(nil)

// GRPCServer exposes a trp.Handler as a TRP gRPC service.
type GRPCServer struct {
	handler trp.Handler
}

// NewGRPCServer creates a gRPC server dispatching to the given
// handler.
func NewGRPCServer(h trp.Handler) *GRPCServer {
	return &GRPCServer{handler: h}
}

// Register adds the TRP service to a gRPC server.
func (s *GRPCServer) Register(gs *grpc.Server) {
	RegisterTRPServiceServer(gs, s)
}

// Serve starts a gRPC server on the given listener.
func (s *GRPCServer) Serve(lis net.Listener, opts ...grpc.ServerOption) error {
	gs := grpc.NewServer(opts...)
	s.Register(gs)
	return gs.Serve(lis)
}

// Resolve handles the Resolve RPC. Handler failures travel inside
// the response envelope, mirroring the JSON-RPC transport's
// result/error split; a non-nil return error here would instead
// surface as an opaque gRPC status.
func (s *GRPCServer) Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error) {
	args, err := decodeArgs(req.Args)
	if err != nil {
		return &ResolveResponse{Error: toWireError(trp.NewError(trp.KindRPC, "invalid args", err.Error()))}, nil
	}
	env, err := decodeArgs(req.Env)
	if err != nil {
		return &ResolveResponse{Error: toWireError(trp.NewError(trp.KindRPC, "invalid env", err.Error()))}, nil
	}

	envelope, err := s.handler.Resolve(ctx, types.ProtoTx{Tir: req.Tir, Args: args}, env)
	if err != nil {
		return &ResolveResponse{Error: toWireError(err)}, nil
	}
	return &ResolveResponse{Tx: &envelope}, nil
}
