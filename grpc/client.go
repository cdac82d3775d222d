package trpgrpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/blockberries/trp"
	"github.com/blockberries/trp/types"
)

// Compile-time interface check.
var _ trp.Resolver = (*Client)(nil)

// Client implements trp.Resolver over gRPC. The env args play the
// same role as a JSON-RPC client's configured env_args: sent with
// every resolve call.
type Client struct {
	cc    *grpc.ClientConn
	env   types.Args
	guard *trp.CloseGuard
}

// Dial connects to a remote TRP resolver.
func Dial(ctx context.Context, addr string, env types.Args, opts ...grpc.DialOption) (*Client, error) {
	opts = append(opts, grpc.WithDefaultCallOptions(
		grpc.ForceCodec(CramberryCodec{}),
	))
	cc, err := grpc.DialContext(ctx, addr, opts...)
	if err != nil {
		return nil, trp.NewError(trp.KindNetwork, "Network error", err.Error())
	}
	return &Client{
		cc:    cc,
		env:   env,
		guard: trp.NewCloseGuard(),
	}, nil
}

func (c *Client) Resolve(ctx context.Context, proto types.ProtoTx) (types.TxEnvelope, error) {
	if err := c.guard.Check(); err != nil {
		return types.TxEnvelope{}, err
	}

	req := &ResolveRequest{Tir: proto.Tir}
	var err error
	if req.Args, err = encodeArgs(proto.Args); err != nil {
		return types.TxEnvelope{}, trp.NewError(trp.KindUnknown, "Unknown error", err.Error())
	}
	if req.Env, err = encodeArgs(c.env); err != nil {
		return types.TxEnvelope{}, trp.NewError(trp.KindUnknown, "Unknown error", err.Error())
	}

	resp := new(ResolveResponse)
	if err := c.cc.Invoke(ctx, fullMethod("Resolve"), req, resp); err != nil {
		return types.TxEnvelope{}, trp.NewError(trp.KindNetwork, "Network error", err.Error())
	}

	if resp.Error != nil {
		return types.TxEnvelope{}, resp.Error.toError()
	}
	if resp.Tx == nil {
		return types.TxEnvelope{}, trp.NewError(trp.KindMalformedResponse, "No result found in response", nil)
	}
	return *resp.Tx, nil
}

func (c *Client) Close() error {
	if !c.guard.Close() {
		return nil
	}
	return c.cc.Close()
}
