package types

// TxEnvelope is the resolved, signable transaction returned by a
// resolver. The client performs no validation of its shape: whatever
// the server put in the result field is passed through to the caller.
type TxEnvelope struct {
	// Tx is the resolved transaction representation.
	Tx string `json:"tx" cramberry:"1"`
	// Bytes optionally carries the raw transaction bytes in some
	// encoding.
	Bytes string `json:"bytes,omitempty" cramberry:"2"`
	// Encoding tags how Bytes is encoded, same free-form semantics
	// as TirEnvelope.Encoding.
	Encoding string `json:"encoding,omitempty" cramberry:"3"`
}
