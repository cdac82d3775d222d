package trp

import "sync/atomic"

// CloseGuard enforces the one-way open → closed client lifecycle.
// Every transport holds one guard per client instance: Check gates
// Resolve, Close wins the transition exactly once.
type CloseGuard struct {
	closed atomic.Bool
}

// NewCloseGuard creates a guard in the open state.
func NewCloseGuard() *CloseGuard {
	return &CloseGuard{}
}

// Check fails fast with a ClientClosed error once the guard is closed.
func (g *CloseGuard) Check() error {
	if g.closed.Load() {
		return NewError(KindClientClosed, "client is closed", nil)
	}
	return nil
}

// Close transitions open → closed. Returns true on the call that wins
// the transition, false on every later call.
func (g *CloseGuard) Close() bool {
	return g.closed.CompareAndSwap(false, true)
}

// Closed reports whether the guard has been closed.
func (g *CloseGuard) Closed() bool {
	return g.closed.Load()
}
