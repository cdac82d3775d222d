package trp

import (
	"errors"
	"fmt"
)

// Kind discriminates the causes a TRP operation can fail with.
// Callers branch on the kind to decide their own retry/backoff
// policy; the client itself never retries.
type Kind int

const (
	// KindUnknown is the catch-all for anything unanticipated.
	KindUnknown Kind = iota
	// KindValidation is a construction-time failure (missing endpoint).
	KindValidation
	// KindNetwork is a transport-level failure before any response
	// was obtained (connection refused, DNS, cancellation).
	KindNetwork
	// KindHTTP is a non-2xx HTTP status. Data is an HTTPErrorData
	// with the status code and raw body text.
	KindHTTP
	// KindDecode means the response body was not valid JSON.
	KindDecode
	// KindRPC is a resolution error reported by the server. Data is
	// the server's error.data, if any.
	KindRPC
	// KindMalformedResponse means the response parsed as JSON but
	// carried neither a result nor an error.
	KindMalformedResponse
	// KindClientClosed is the fail-fast result of resolving on a
	// closed client.
	KindClientClosed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNetwork:
		return "NetworkError"
	case KindHTTP:
		return "HttpError"
	case KindDecode:
		return "DecodeError"
	case KindRPC:
		return "RpcError"
	case KindMalformedResponse:
		return "MalformedResponse"
	case KindClientClosed:
		return "ClientClosed"
	default:
		return "UnknownError"
	}
}

// Error is the single error type for TRP operations: a kind, a
// human-readable message, and optional structured auxiliary data
// (status code and body for HTTP failures, the server's error.data
// for RPC failures, the underlying description otherwise).
type Error struct {
	Kind    Kind
	Message string
	Data    any
}

func (e *Error) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Data)
	}
	return e.Message
}

// NewError creates a TRP error.
func NewError(kind Kind, message string, data any) *Error {
	return &Error{Kind: kind, Message: message, Data: data}
}

// HTTPErrorData is the auxiliary data of a KindHTTP error.
type HTTPErrorData struct {
	Status int
	Body   string
}

func (d HTTPErrorData) String() string {
	return fmt.Sprintf("status %d: %s", d.Status, d.Body)
}

// AsError checks whether err is (or wraps) a TRP *Error and returns it.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err. Non-TRP errors (and nil) report
// KindUnknown.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindUnknown
}
