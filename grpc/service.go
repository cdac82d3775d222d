package trpgrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

const serviceName = "github.com/blockberries/trp.v1.TRPService"

// TRPServiceServer is the server-side interface for the TRP gRPC
// service.
type TRPServiceServer interface {
	Resolve(context.Context, *ResolveRequest) (*ResolveResponse, error)
}

// RegisterTRPServiceServer registers the TRP service on a gRPC server.
func RegisterTRPServiceServer(s *grpc.Server, srv TRPServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

func handlerResolve(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(ResolveRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(TRPServiceServer).Resolve(ctx, req)
}

// fullMethod builds the full gRPC method path.
func fullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", serviceName, method)
}

// serviceDesc is the manual gRPC service descriptor for TRP.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*TRPServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Resolve", Handler: handlerResolve},
	},
	Metadata: "github.com/blockberries/trp/v1/service.cram",
}
