package trptest

import (
	"context"
	"testing"

	"github.com/blockberries/trp"
	"github.com/blockberries/trp/types"
)

// RunResolverCompliance verifies that a transport satisfies the
// observable resolver contract: envelopes and handler errors pass
// through intact, close is idempotent, and resolve fails fast after
// close.
//
// The factory receives the handler the transport must talk to and
// returns a fresh connected resolver; it is called once per subtest.
func RunResolverCompliance(t *testing.T, factory func(t *testing.T, h trp.Handler) trp.Resolver) {
	t.Helper()

	t.Run("resolve_returns_envelope", func(t *testing.T) {
		want := types.TxEnvelope{Tx: "abc123", Bytes: "q80=", Encoding: "base64"}
		r := factory(t, trp.HandlerFunc(func(context.Context, types.ProtoTx, types.Args) (types.TxEnvelope, error) {
			return want, nil
		}))
		defer r.Close()

		got, err := r.Resolve(context.Background(), SampleProto())
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("prototype_passes_through", func(t *testing.T) {
		mock := &MockHandler{}
		r := factory(t, mock)
		defer r.Close()

		if _, err := r.Resolve(context.Background(), SampleProto()); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		proto, _ := mock.LastCall()
		if proto.Tir == nil || *proto.Tir != *SampleProto().Tir {
			t.Errorf("tir did not pass through: %+v", proto.Tir)
		}
		if n, ok := proto.Args["amount"].IntVal(); !ok || n != 1000000 {
			t.Errorf("args did not pass through: %+v", proto.Args)
		}
	})

	t.Run("handler_error_surfaces_as_rpc_error", func(t *testing.T) {
		r := factory(t, trp.HandlerFunc(func(context.Context, types.ProtoTx, types.Args) (types.TxEnvelope, error) {
			return types.TxEnvelope{}, trp.NewError(trp.KindRPC, "bad tir", map[string]any{"field": "tir"})
		}))
		defer r.Close()

		_, err := r.Resolve(context.Background(), SampleProto())
		e, ok := trp.AsError(err)
		if !ok {
			t.Fatalf("expected trp error, got %v", err)
		}
		if e.Kind != trp.KindRPC {
			t.Errorf("expected KindRPC, got %v", e.Kind)
		}
		if e.Message != "bad tir" {
			t.Errorf("unexpected message: %q", e.Message)
		}
		data, ok := e.Data.(map[string]any)
		if !ok || data["field"] != "tir" {
			t.Errorf("unexpected data: %+v", e.Data)
		}
	})

	t.Run("close_is_idempotent", func(t *testing.T) {
		r := factory(t, &MockHandler{})
		if err := r.Close(); err != nil {
			t.Fatalf("first Close: %v", err)
		}
		if err := r.Close(); err != nil {
			t.Fatalf("second Close: %v", err)
		}
	})

	t.Run("resolve_after_close_fails_fast", func(t *testing.T) {
		mock := &MockHandler{}
		r := factory(t, mock)
		if err := r.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}

		_, err := r.Resolve(context.Background(), SampleProto())
		if trp.KindOf(err) != trp.KindClientClosed {
			t.Errorf("expected ClientClosed, got %v", err)
		}
		if mock.ResolveCalls.Load() != 0 {
			t.Error("no call should reach the handler after close")
		}
	})
}
