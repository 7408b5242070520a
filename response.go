package bankproto

import (
	"strconv"

	"github.com/unkn0wn-root/bankproto/internal/wire"
)

// Outcome is the result of interpreting a response. It is one of
// Success[T], Failure or Malformed.
type Outcome interface {
	outcome()
}

// Success is an ACK response with its decoded payload.
type Success[T any] struct {
	Value T
}

// Failure is a NAK response with the server's error text.
type Failure struct {
	Message string
}

// Malformed is a response whose status token is not a known code.
type Malformed struct {
	Status string
	Err    *ProtocolViolation
}

func (Success[T]) outcome() {}
func (Failure) outcome()    {}
func (Malformed) outcome()  {}

// PayloadDecoder decodes an ACK payload at off and reports the bytes consumed.
type PayloadDecoder[T any] func(b []byte, off int) (T, int, error)

// IntPayload decodes a length-prefixed decimal text integer.
func IntPayload(b []byte, off int) (int32, int, error) { return wire.ReadMessageInt(b, off) }

// StringPayload decodes a length-prefixed string.
func StringPayload(b []byte, off int) (string, int, error) { return wire.ReadMessageString(b, off) }

// Interpret reads the status token at offset 0 and decodes the single field
// after it: an error string for NAK, decode's payload for ACK. Any other
// token yields Malformed and nothing past the status is read. The error is
// non-nil only for *DecodingError; a nil decode is reported as one wrapping
// ErrNoDecoder.
func Interpret[T any](resp []byte, decode PayloadDecoder[T]) (Outcome, error) {
	if decode == nil {
		return nil, &DecodingError{Offset: ResponseTypeSize, Err: ErrNoDecoder}
	}
	token, err := wire.ReadFixedWidth(resp, 0, ResponseTypeSize)
	if err != nil {
		return nil, err
	}
	code, err := strconv.Atoi(token)
	if err != nil {
		return malformed(token), nil
	}

	switch Status(code) {
	case StatusNAK:
		msg, _, err := wire.ReadMessageString(resp, ResponseTypeSize)
		if err != nil {
			return nil, err
		}
		return Failure{Message: msg}, nil
	case StatusACK:
		v, _, err := decode(resp, ResponseTypeSize)
		if err != nil {
			return nil, err
		}
		return Success[T]{Value: v}, nil
	default:
		return malformed(token), nil
	}
}

func malformed(token string) Malformed {
	return Malformed{
		Status: token,
		Err:    &ProtocolViolation{Status: token, Err: ErrUnknownStatus},
	}
}

// EncodeResponse builds a response body: status as zero-padded decimal text
// of width ResponseTypeSize, then payload under its own policy.
func EncodeResponse(status Status, payload Field) ([]byte, error) {
	if status < 0 {
		return nil, &EncodingError{Field: "status", Err: ErrUnknownStatus}
	}
	tok := strconv.Itoa(int(status))
	if len(tok) > ResponseTypeSize {
		return nil, &EncodingError{Field: "status", Err: ErrTooLarge}
	}
	b := make([]byte, 0, ResponseTypeSize+payload.sizeHint())
	for i := len(tok); i < ResponseTypeSize; i++ {
		b = append(b, '0')
	}
	b = append(b, tok...)
	return payload.AppendTo(b)
}

// EncodeAck builds an ACK response carrying v as decimal text.
func EncodeAck(v int32) ([]byte, error) {
	return EncodeResponse(StatusACK, Int32(v).With(PolicyText))
}

// EncodeNak builds a NAK response carrying msg.
func EncodeNak(msg string) ([]byte, error) {
	return EncodeResponse(StatusNAK, String(msg))
}
