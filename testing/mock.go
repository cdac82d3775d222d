// Package trptest provides test utilities for TRP development: a
// configurable mock handler, a harness that wires a real JSON-RPC
// client to an in-memory server, and a compliance suite for the
// resolver contract.
package trptest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/blockberries/trp"
	"github.com/blockberries/trp/types"
)

// Compile-time interface check.
var _ trp.Handler = (*MockHandler)(nil)

// MockHandler is a configurable trp.Handler for client and server
// testing. Set ResolveFn to script behavior; unconfigured it returns
// a fixed envelope. It records the last call and counts all calls,
// and is safe for concurrent use.
type MockHandler struct {
	// ResolveFn overrides the default behavior when non-nil.
	ResolveFn func(context.Context, types.ProtoTx, types.Args) (types.TxEnvelope, error)

	// ResolveCalls counts Resolve invocations.
	ResolveCalls atomic.Int64

	mu        sync.Mutex
	lastProto types.ProtoTx
	lastEnv   types.Args
}

// DefaultEnvelope is what an unconfigured MockHandler resolves to.
var DefaultEnvelope = types.TxEnvelope{Tx: "mock-tx", Encoding: "hex"}

func (m *MockHandler) Resolve(ctx context.Context, proto types.ProtoTx, env types.Args) (types.TxEnvelope, error) {
	m.ResolveCalls.Add(1)
	m.mu.Lock()
	m.lastProto = proto
	m.lastEnv = env
	m.mu.Unlock()

	if m.ResolveFn != nil {
		return m.ResolveFn(ctx, proto, env)
	}
	return DefaultEnvelope, nil
}

// LastCall returns the prototype and env of the most recent Resolve.
func (m *MockHandler) LastCall() (types.ProtoTx, types.Args) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastProto, m.lastEnv
}
