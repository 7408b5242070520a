package bankproto

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/bankproto/internal/wire"
)

type (
	// EncodingError reports a field value with no wire representation.
	EncodingError = wire.EncodingError
	// DecodingError reports a truncated buffer, an out-of-bounds offset or a
	// payload that does not parse as the expected type.
	DecodingError = wire.DecodingError
)

var (
	ErrTruncated      = wire.ErrTruncated
	ErrNegativeLength = wire.ErrNegativeLength
	ErrTooLarge       = wire.ErrTooLarge
	ErrInvalidUTF8    = wire.ErrInvalidUTF8
	ErrBadWidth       = wire.ErrBadWidth
	ErrNotNumber      = wire.ErrNotNumber

	ErrRawString     = errors.New("bankproto: strings have no raw encoding")
	ErrUnknownStatus = errors.New("bankproto: unrecognized status code")
	ErrServiceTag    = errors.New("bankproto: unexpected service tag")
	ErrTrailingBytes = errors.New("bankproto: trailing bytes after last field")
	ErrNoDecoder     = errors.New("bankproto: nil payload decoder")
)

// ProtocolViolation is returned for a response whose status token is not a
// known code, or a request whose tag does not match the expected service.
// It is terminal for that message; nothing after the status is decoded.
type ProtocolViolation struct {
	Status string // raw status token, empty for request-side violations
	Tag    ServiceTag
	Err    error
}

func (e *ProtocolViolation) Error() string {
	switch {
	case errors.Is(e.Err, ErrServiceTag):
		return fmt.Sprintf("protocol violation: %v %d", e.Err, e.Tag)
	case e.Status != "":
		return fmt.Sprintf("protocol violation: %v %q", e.Err, e.Status)
	default:
		return fmt.Sprintf("protocol violation: %v", e.Err)
	}
}

func (e *ProtocolViolation) Unwrap() error { return e.Err }

// OutboxError is returned when an outbox write reached the provider and failed.
type OutboxError struct {
	Key string
	Op  string // "put", "get" or "delete"
	Err error
}

func (e *OutboxError) Error() string {
	return fmt.Sprintf("outbox %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *OutboxError) Unwrap() error { return e.Err }
