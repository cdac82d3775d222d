package trpjsonrpc

import (
	"encoding/json"

	"github.com/blockberries/trp/types"
)

// MethodResolve is the JSON-RPC method for transaction resolution.
const MethodResolve = "trp.resolve"

// Version is the JSON-RPC protocol version sent with every request.
const Version = "2.0"

// Request is the JSON-RPC 2.0 request envelope for trp.resolve.
type Request struct {
	Version string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  ResolveParams `json:"params"`
	// ID is a fresh random identifier per call, never reused. The
	// response id is not checked against it.
	ID string `json:"id"`
}

// ResolveParams carries the prototype transaction plus the
// client-wide environment arguments. All three fields are sent
// verbatim; absent values travel as JSON null.
type ResolveParams struct {
	Tir  *types.TirEnvelope `json:"tir"`
	Args types.Args         `json:"args"`
	Env  types.Args         `json:"env"`
}

// Response is the JSON-RPC 2.0 response envelope. Result and Error
// stay raw so that an absent field is distinguishable from a present
// null and the result's internal shape is never validated here.
type Response struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a server-reported resolution error.
type RPCError struct {
	Code    int             `json:"code,omitempty"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}
