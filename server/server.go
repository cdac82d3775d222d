// Package server exposes a trp.Handler over JSON-RPC 2.0 / HTTP —
// the endpoint a trpjsonrpc.Client talks to.
//
// The server decodes the request envelope, dispatches trp.resolve to
// the handler, and writes back either a result or a JSON-RPC error
// object. Handler failures become error code -32000 with the TRP
// error's message and data; protocol violations use the standard
// -32xxx codes.
package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/blockberries/trp"
	trpjsonrpc "github.com/blockberries/trp/jsonrpc"
	"github.com/blockberries/trp/types"
)

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
	codeResolveError   = -32000
)

// Compile-time interface check.
var _ http.Handler = (*Server)(nil)

// Server serves the TRP resolve contract over HTTP.
type Server struct {
	handler trp.Handler
	limiter *rateLimiter
	metrics *metrics
}

// Option configures a Server.
type Option func(*Server)

// New creates a server dispatching trp.resolve to the given handler.
func New(h trp.Handler, opts ...Option) *Server {
	s := &Server{handler: h}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// rpcRequest is the lenient server-side view of a request envelope:
// params and id stay raw until the method is known.
type rpcRequest struct {
	Version string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id"`
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.limiter != nil && !s.limiter.allow(r.RemoteAddr) {
		s.metrics.countThrottled()
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, nil, &trpjsonrpc.RPCError{Code: codeInvalidRequest, Message: "unreadable request body"})
		return
	}

	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.metrics.countError(codeParseError)
		writeError(w, nil, &trpjsonrpc.RPCError{Code: codeParseError, Message: "parse error"})
		return
	}
	if req.Method != trpjsonrpc.MethodResolve {
		s.metrics.countError(codeMethodNotFound)
		writeError(w, req.ID, &trpjsonrpc.RPCError{Code: codeMethodNotFound, Message: "method not found"})
		return
	}
	s.metrics.countRequest()

	var params trpjsonrpc.ResolveParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.metrics.countError(codeInvalidParams)
			writeError(w, req.ID, &trpjsonrpc.RPCError{Code: codeInvalidParams, Message: "invalid params"})
			return
		}
	}

	proto := types.ProtoTx{Tir: params.Tir, Args: params.Args}
	envelope, err := s.handler.Resolve(r.Context(), proto, params.Env)
	if err != nil {
		rpcErr := rpcErrorFrom(err)
		s.metrics.countError(rpcErr.Code)
		writeError(w, req.ID, rpcErr)
		return
	}

	writeResult(w, req.ID, envelope)
}

// rpcErrorFrom maps a handler failure onto a JSON-RPC error object,
// preserving a TRP error's message and auxiliary data.
func rpcErrorFrom(err error) *trpjsonrpc.RPCError {
	if e, ok := trp.AsError(err); ok {
		out := &trpjsonrpc.RPCError{Code: codeResolveError, Message: e.Message}
		if e.Data != nil {
			if raw, merr := json.Marshal(e.Data); merr == nil {
				out.Data = raw
			}
		}
		return out
	}
	return &trpjsonrpc.RPCError{Code: codeInternalError, Message: err.Error()}
}

func writeResult(w http.ResponseWriter, id json.RawMessage, envelope types.TxEnvelope) {
	raw, err := json.Marshal(envelope)
	if err != nil {
		writeError(w, id, &trpjsonrpc.RPCError{Code: codeInternalError, Message: "internal error"})
		return
	}
	writeResponse(w, trpjsonrpc.Response{Version: trpjsonrpc.Version, ID: id, Result: raw})
}

func writeError(w http.ResponseWriter, id json.RawMessage, rpcErr *trpjsonrpc.RPCError) {
	writeResponse(w, trpjsonrpc.Response{Version: trpjsonrpc.Version, ID: id, Error: rpcErr})
}

func writeResponse(w http.ResponseWriter, resp trpjsonrpc.Response) {
	w.Header().Set("Content-Type", "application/json")
	// Failures surface in the JSON-RPC error object, not the HTTP
	// status: clients check the status before parsing the body.
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
