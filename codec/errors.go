package codec

import (
	"errors"
	"fmt"
)

// Sentinel errors. Match them with errors.Is; the concrete error returned by
// the binary codec is an *EncodeError or *DecodeError wrapping one of these.
var (
	ErrTruncatedInput  = errors.New("truncated input")
	ErrInvalidUTF8     = errors.New("invalid UTF-8")
	ErrLengthMismatch  = errors.New("length mismatch")
	ErrMalformedPrefix = errors.New("malformed prefix")
	ErrMessageTooLarge = errors.New("message too large")
	ErrFieldTooLarge   = errors.New("field too large")
	ErrUnsupportedType = errors.New("unsupported value type")
)

// EncodeError reports a record that cannot be represented on the wire.
// It is a capacity or content violation of the input; retrying the same
// record fails the same way.
type EncodeError struct {
	Field string // Schema field name, empty for whole-message errors
	Size  uint64 // Offending length or count
	Err   error
}

func (e *EncodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("codec: encode: %v (%d bytes)", e.Err, e.Size)
	}
	return fmt.Sprintf("codec: encode %s: %v (%d)", e.Field, e.Err, e.Size)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError reports structurally invalid input.
type DecodeError struct {
	Field  string // Schema field being read, empty for the header
	Offset int    // Byte offset in the input where the problem was found
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("codec: decode at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("codec: decode %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
