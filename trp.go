// Package trp defines the client side of the Transaction Resolution
// Protocol (TRP) — the contract by which a prototype transaction
// (compiled TIR bytecode plus arguments) is handed to a resolver and
// exchanged for a concrete, signable transaction envelope.
//
// The core [Resolver] interface is transport-agnostic. The jsonrpc
// package implements it over JSON-RPC 2.0 / HTTP (the protocol's
// native transport), the grpc package over gRPC with cramberry
// serialization, and the local package in-process.
package trp

import (
	"context"

	"github.com/blockberries/trp/types"
)

// Resolver is a connection to a TRP resolver endpoint.
//
// Implementations hold no shared mutable state across calls beyond
// their transport handle: concurrent Resolve calls on one instance
// are safe whenever the transport supports concurrent use.
type Resolver interface {
	// Resolve sends a prototype transaction to the resolver and
	// returns the resolved transaction envelope.
	//
	// No timeout is imposed; callers bound latency through ctx.
	// Cancellation of the in-flight call surfaces as a
	// NetworkError-kind failure. Every failure is an *Error whose
	// Kind distinguishes the cause.
	Resolve(ctx context.Context, proto types.ProtoTx) (types.TxEnvelope, error)

	// Close releases the transport resources. Safe to call more
	// than once; after the first call, Resolve fails fast with a
	// ClientClosed-kind error.
	Close() error
}

// Handler is the server side of the resolve contract. It receives the
// prototype transaction together with the environment arguments the
// client was configured with (params.env on the wire).
//
// A Handler error surfaces to the remote caller as an RpcError-kind
// failure carrying the handler's message and data.
type Handler interface {
	Resolve(ctx context.Context, proto types.ProtoTx, env types.Args) (types.TxEnvelope, error)
}

// HandlerFunc adapts a plain function to a Handler.
type HandlerFunc func(ctx context.Context, proto types.ProtoTx, env types.Args) (types.TxEnvelope, error)

func (f HandlerFunc) Resolve(ctx context.Context, proto types.ProtoTx, env types.Args) (types.TxEnvelope, error) {
	return f(ctx, proto, env)
}
