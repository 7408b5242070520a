package wire

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated      = errors.New("bankproto: truncated buffer")
	ErrNegativeLength = errors.New("bankproto: negative length prefix")
	ErrTooLarge       = errors.New("bankproto: field too large")
	ErrInvalidUTF8    = errors.New("bankproto: invalid utf-8")
	ErrBadWidth       = errors.New("bankproto: unsupported field width")
	ErrNotNumber      = errors.New("bankproto: payload is not a decimal number")
	ErrCorrupt        = errors.New("bankproto: corrupt outbox entry")
)

// EncodingError reports a value that has no representation on the wire.
type EncodingError struct {
	Field string
	Err   error
}

func (e *EncodingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("encode: %v", e.Err)
	}
	return fmt.Sprintf("encode %s: %v", e.Field, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// DecodingError reports a read that would leave the buffer or whose bytes
// do not form the requested type. Offset is relative to the message body.
type DecodingError struct {
	Offset int
	Need   int // bytes the read required; 0 when not a bounds failure
	Have   int // bytes available from Offset
	Err    error
}

func (e *DecodingError) Error() string {
	if e.Need > 0 {
		return fmt.Sprintf("decode at offset %d: need %d bytes, have %d: %v", e.Offset, e.Need, e.Have, e.Err)
	}
	return fmt.Sprintf("decode at offset %d: %v", e.Offset, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

func truncated(b []byte, off, n int) *DecodingError {
	have := len(b) - off
	if have < 0 {
		have = 0
	}
	return &DecodingError{Offset: off, Need: n, Have: have, Err: ErrTruncated}
}
