package trptest

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/blockberries/trp"
	trpjsonrpc "github.com/blockberries/trp/jsonrpc"
	"github.com/blockberries/trp/server"
	"github.com/blockberries/trp/types"
)

// Harness runs a TRP JSON-RPC server around the given handler and
// connects a real client to it, so tests exercise the full wire
// round trip in memory.
type Harness struct {
	t      *testing.T
	ts     *httptest.Server
	client *trpjsonrpc.Client
}

// NewHarness starts the server and connects a client. Both are torn
// down with the test. The client options' Endpoint is filled in by
// the harness; Headers and EnvArgs pass through.
func NewHarness(t *testing.T, h trp.Handler, opts trpjsonrpc.Options) *Harness {
	t.Helper()

	ts := httptest.NewServer(server.New(h))
	t.Cleanup(ts.Close)

	opts.Endpoint = ts.URL
	client, err := trpjsonrpc.New(opts)
	if err != nil {
		t.Fatalf("trptest: new client: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return &Harness{t: t, ts: ts, client: client}
}

// Client returns the connected client.
func (h *Harness) Client() *trpjsonrpc.Client {
	return h.client
}

// URL returns the server's endpoint.
func (h *Harness) URL() string {
	return h.ts.URL
}

// Resolve resolves a prototype and fails the test on error.
func (h *Harness) Resolve(proto types.ProtoTx) types.TxEnvelope {
	h.t.Helper()
	envelope, err := h.client.Resolve(context.Background(), proto)
	if err != nil {
		h.t.Fatalf("Resolve failed: %v", err)
	}
	return envelope
}

// ResolveErr resolves a prototype and fails the test unless it
// errors; the error is returned for inspection.
func (h *Harness) ResolveErr(proto types.ProtoTx) error {
	h.t.Helper()
	_, err := h.client.Resolve(context.Background(), proto)
	if err == nil {
		h.t.Fatal("Resolve unexpectedly succeeded")
	}
	return err
}

// SampleProto builds a well-formed prototype transaction for tests.
func SampleProto() types.ProtoTx {
	return types.ProtoTx{
		Tir: &types.TirEnvelope{
			Version:  "v1alpha1",
			Bytecode: "aGVsbG8=",
			Encoding: "base64",
		},
		Args: types.Args{
			"receiver": types.String("addr1qxyz"),
			"amount":   types.Int(1000000),
		},
	}
}
