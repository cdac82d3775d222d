package trpgrpc

import (
	"encoding/json"

	"github.com/blockberries/trp"
	"github.com/blockberries/trp/types"
)

// Transport-specific wrapper types for the Resolve RPC. The argument
// maps are open-ended JSON objects, so they cross the binary
// boundary as their JSON encoding; everything else has a fixed shape
// and cramberry tags.

// ResolveRequest carries a prototype transaction plus the
// client-wide environment arguments.
type ResolveRequest struct {
	Tir *types.TirEnvelope `cramberry:"1"`
	// Args and Env are JSON-encoded types.Args; nil means absent.
	Args []byte `cramberry:"2"`
	Env  []byte `cramberry:"3"`
}

// ResolveResponse carries either the resolved envelope or a
// resolution failure, mirroring the result/error split of the
// JSON-RPC transport.
type ResolveResponse struct {
	Tx    *types.TxEnvelope `cramberry:"1"`
	Error *WireError        `cramberry:"2"`
}

// WireError is a trp.Error flattened for binary transport.
type WireError struct {
	Kind    uint32 `cramberry:"1"`
	Message string `cramberry:"2"`
	// Data is the JSON encoding of the error's auxiliary data.
	Data []byte `cramberry:"3"`
}

func encodeArgs(args types.Args) ([]byte, error) {
	if args == nil {
		return nil, nil
	}
	return json.Marshal(args)
}

func decodeArgs(raw []byte) (types.Args, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var args types.Args
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// toWireError flattens a handler failure for the response envelope.
func toWireError(err error) *WireError {
	e, ok := trp.AsError(err)
	if !ok {
		e = trp.NewError(trp.KindRPC, err.Error(), nil)
	}
	out := &WireError{Kind: uint32(e.Kind), Message: e.Message}
	if e.Data != nil {
		if raw, merr := json.Marshal(e.Data); merr == nil {
			out.Data = raw
		}
	}
	return out
}

// toError rebuilds the client-side trp.Error.
func (w *WireError) toError() *trp.Error {
	var data any
	if len(w.Data) > 0 {
		if err := json.Unmarshal(w.Data, &data); err != nil {
			data = string(w.Data)
		}
	}
	return trp.NewError(trp.Kind(w.Kind), w.Message, data)
}
