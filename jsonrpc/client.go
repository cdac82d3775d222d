// Package trpjsonrpc provides the native TRP transport: JSON-RPC 2.0
// over HTTP POST.
//
// A Client issues one POST per Resolve call and normalizes every
// failure — transport, HTTP status, JSON decoding, server-reported —
// into a trp.Error whose kind the caller can branch on.
package trpjsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/blockberries/trp"
	"github.com/blockberries/trp/types"
)

// Compile-time interface check.
var _ trp.Resolver = (*Client)(nil)

// Requester issues a single HTTP request. *http.Client satisfies it;
// tests substitute their own implementation.
type Requester interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client. Captured by value at construction and
// never mutated afterwards.
type Options struct {
	// Endpoint is the resolver URL. Required.
	Endpoint string
	// Headers are merged into every request on top of the default
	// Content-Type: application/json (which they may override).
	Headers map[string]string
	// EnvArgs are environment-level arguments sent as params.env
	// with every request.
	EnvArgs types.Args
	// HTTPClient overrides the transport. Nil means a fresh
	// *http.Client with default settings.
	HTTPClient Requester
}

// Client resolves prototype transactions against a remote TRP
// endpoint. Create one per logical connection with New and release
// it with Close. Concurrent Resolve calls on one Client are safe.
type Client struct {
	opts  Options
	http  Requester
	guard *trp.CloseGuard
}

// New validates the options and creates a client. An absent endpoint
// is a construction-time ValidationError. No network activity occurs
// until the first Resolve.
func New(opts Options) (*Client, error) {
	if opts.Endpoint == "" {
		return nil, trp.NewError(trp.KindValidation, "the 'endpoint' option is required", nil)
	}

	c := &Client{
		opts: Options{
			Endpoint: opts.Endpoint,
			Headers:  cloneHeaders(opts.Headers),
			EnvArgs:  cloneArgs(opts.EnvArgs),
		},
		http:  opts.HTTPClient,
		guard: trp.NewCloseGuard(),
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c, nil
}

// Resolve sends the prototype transaction to the resolver endpoint
// and returns the resolved envelope. The tir and args fields pass
// through to params verbatim, alongside the configured env args.
func (c *Client) Resolve(ctx context.Context, proto types.ProtoTx) (types.TxEnvelope, error) {
	if err := c.guard.Check(); err != nil {
		return types.TxEnvelope{}, err
	}

	body := Request{
		Version: Version,
		Method:  MethodResolve,
		Params: ResolveParams{
			Tir:  proto.Tir,
			Args: proto.Args,
			Env:  c.opts.EnvArgs,
		},
		ID: uuid.NewString(),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return types.TxEnvelope{}, trp.NewError(trp.KindUnknown, "Unknown error", err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return types.TxEnvelope{}, trp.NewError(trp.KindUnknown, "Unknown error", err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return types.TxEnvelope{}, trp.NewError(trp.KindNetwork, "Network error", err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.TxEnvelope{}, trp.NewError(trp.KindNetwork, "Network error", err.Error())
	}

	// Status is checked before any attempt to parse the body.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.TxEnvelope{}, trp.NewError(trp.KindHTTP,
			fmt.Sprintf("HTTP Error %d", resp.StatusCode),
			trp.HTTPErrorData{Status: resp.StatusCode, Body: string(raw)})
	}

	var rpcResp Response
	if err := json.Unmarshal(raw, &rpcResp); err != nil {
		return types.TxEnvelope{}, trp.NewError(trp.KindDecode, "Error decoding JSON response", err.Error())
	}

	if rpcResp.Error != nil {
		msg := rpcResp.Error.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return types.TxEnvelope{}, trp.NewError(trp.KindRPC, msg, decodeErrorData(rpcResp.Error.Data))
	}

	if rpcResp.Result == nil {
		return types.TxEnvelope{}, trp.NewError(trp.KindMalformedResponse, "No result found in response", nil)
	}

	// The result's internal shape is not validated: whatever fields
	// the server set pass through, absent ones stay zero.
	var envelope types.TxEnvelope
	if err := json.Unmarshal(rpcResp.Result, &envelope); err != nil {
		return types.TxEnvelope{}, trp.NewError(trp.KindDecode, "Error decoding JSON response", err.Error())
	}
	return envelope, nil
}

// Close releases the underlying transport. Safe to call more than
// once; after Close, Resolve fails fast with a ClientClosed error.
func (c *Client) Close() error {
	if !c.guard.Close() {
		return nil
	}
	if hc, ok := c.http.(*http.Client); ok {
		hc.CloseIdleConnections()
	}
	return nil
}

func decodeErrorData(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return string(raw)
	}
	return data
}

func cloneHeaders(h map[string]string) map[string]string {
	if h == nil {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

func cloneArgs(a types.Args) types.Args {
	if a == nil {
		return nil
	}
	out := make(types.Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
