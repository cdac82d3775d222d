// Package local provides a zero-copy, in-process TRP connection.
//
// For programs that compile the resolver into the same binary as the
// caller, this adapter exposes a trp.Handler through the client-side
// trp.Resolver interface — same close-guard semantics as the remote
// transports, no serialization and no network hop.
package local

import (
	"context"

	"github.com/blockberries/trp"
	"github.com/blockberries/trp/types"
)

// Compile-time interface check.
var _ trp.Resolver = (*Connection)(nil)

// Connection adapts a trp.Handler to the trp.Resolver contract.
type Connection struct {
	handler trp.Handler
	env     types.Args
	guard   *trp.CloseGuard
}

// NewConnection creates an in-process connection to the given
// handler. The env args play the role of a remote client's
// configured env_args: they are passed to the handler with every
// resolve call.
func NewConnection(h trp.Handler, env types.Args) *Connection {
	return &Connection{
		handler: h,
		env:     env,
		guard:   trp.NewCloseGuard(),
	}
}

func (c *Connection) Resolve(ctx context.Context, proto types.ProtoTx) (types.TxEnvelope, error) {
	if err := c.guard.Check(); err != nil {
		return types.TxEnvelope{}, err
	}
	envelope, err := c.handler.Resolve(ctx, proto, c.env)
	if err != nil {
		if _, ok := trp.AsError(err); ok {
			return types.TxEnvelope{}, err
		}
		// Match what a remote caller would see: handler failures
		// surface as server-reported resolution errors.
		return types.TxEnvelope{}, trp.NewError(trp.KindRPC, err.Error(), nil)
	}
	return envelope, nil
}

func (c *Connection) Close() error {
	c.guard.Close()
	return nil
}
