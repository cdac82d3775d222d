// Package types defines the payload types exchanged over the
// Transaction Resolution Protocol.
//
// These are plain Go structs carrying json tags for the protocol's
// native JSON-RPC encoding. The fixed-shape envelopes additionally
// carry cramberry tags for the binary gRPC transport; the dynamic
// argument maps travel as their JSON encoding on that transport.
package types

// TirEnvelope carries compiled transaction intermediate
// representation (TIR) bytecode.
type TirEnvelope struct {
	Version  string `json:"version" cramberry:"1"`
	Bytecode string `json:"bytecode" cramberry:"2"`
	// Encoding tags how Bytecode is encoded, e.g. "base64" or
	// "hex". Any string is accepted and passed through verbatim.
	Encoding string `json:"encoding" cramberry:"3"`
}

// ProtoTx is a prototype transaction: a TIR envelope paired with the
// arguments that resolve it. Both fields are optional from the
// client's point of view — a nil field travels as JSON null, and it
// is the server's responsibility to reject malformed requests.
type ProtoTx struct {
	Tir  *TirEnvelope `json:"tir"`
	Args Args         `json:"args"`
}
