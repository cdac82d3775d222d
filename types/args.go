package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Args maps parameter names to argument values. Keys are unique; no
// ordering guarantee exists beyond what JSON object encoding imposes.
type Args map[string]ArgValue

// ArgValue is a single resolution argument. The protocol accepts
// exactly five scalar kinds — string, integer, boolean, null, and raw
// bytes — so the type is a closed tagged union over them. Construct
// values with [String], [Int], [Bool], [Bytes], and [Null]; the zero
// value encodes as JSON null.
type ArgValue struct {
	str   *string
	num   *int64
	boolv *bool
	bytes []byte
}

// String builds a string argument.
func String(s string) ArgValue { return ArgValue{str: &s} }

// Int builds an integer argument.
func Int(i int64) ArgValue { return ArgValue{num: &i} }

// Bool builds a boolean argument.
func Bool(b bool) ArgValue { return ArgValue{boolv: &b} }

// Bytes builds a raw-bytes argument. It encodes as a base64 JSON
// string, following encoding/json's []byte convention.
func Bytes(b []byte) ArgValue {
	if b == nil {
		b = []byte{}
	}
	return ArgValue{bytes: b}
}

// Null builds an explicit null argument.
func Null() ArgValue { return ArgValue{} }

// StringVal returns the string payload, if this is a string argument.
func (v ArgValue) StringVal() (string, bool) {
	if v.str == nil {
		return "", false
	}
	return *v.str, true
}

// IntVal returns the integer payload, if this is an integer argument.
func (v ArgValue) IntVal() (int64, bool) {
	if v.num == nil {
		return 0, false
	}
	return *v.num, true
}

// BoolVal returns the boolean payload, if this is a boolean argument.
func (v ArgValue) BoolVal() (bool, bool) {
	if v.boolv == nil {
		return false, false
	}
	return *v.boolv, true
}

// BytesVal returns the bytes payload, if this is a bytes argument.
func (v ArgValue) BytesVal() ([]byte, bool) {
	if v.bytes == nil {
		return nil, false
	}
	return v.bytes, true
}

// IsNull reports whether this is a null argument.
func (v ArgValue) IsNull() bool {
	return v.str == nil && v.num == nil && v.boolv == nil && v.bytes == nil
}

// MarshalJSON emits the bare scalar: the client passes argument
// values through to the wire with no transformation.
func (v ArgValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.str != nil:
		return json.Marshal(*v.str)
	case v.num != nil:
		return strconv.AppendInt(nil, *v.num, 10), nil
	case v.boolv != nil:
		return strconv.AppendBool(nil, *v.boolv), nil
	case v.bytes != nil:
		return json.Marshal(v.bytes)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON maps a JSON scalar back onto the closed union. This
// is the boundary where values are validated: JSON strings decode as
// string arguments (base64 bytes are indistinguishable from strings
// on the wire and stay strings until the consumer decodes them),
// integral numbers as integers, and anything else — fractional
// numbers, objects, arrays — is rejected.
func (v *ArgValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case nil:
		*v = Null()
	case string:
		*v = String(val)
	case bool:
		*v = Bool(val)
	case float64:
		n := int64(val)
		if float64(n) != val {
			return fmt.Errorf("unsupported argument value %s: not an integer", data)
		}
		*v = Int(n)
	default:
		return fmt.Errorf("unsupported argument value %s: not a scalar", data)
	}
	return nil
}
