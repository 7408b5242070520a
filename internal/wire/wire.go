// Package wire holds the field-level encoding of the banking protocol.
//
// Every multi-byte number is big-endian. A length-prefixed field is
//
//	len(i32 be) | payload(len)
//
// Request bodies are id(i32) | tag(i32) | field*; response bodies are
// status(fixed-width decimal text) | field. Appenders follow the append
// idiom and never mutate bytes already in b. Readers never mutate b and
// never index past len(b).
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

const (
	IntSize    = 4 // raw Int32 / Float32 width
	PrefixSize = 4 // length prefix width
)

func AppendInt32(b []byte, v int32) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(v))
}

func AppendFloat32(b []byte, v float32) []byte {
	return binary.BigEndian.AppendUint32(b, math.Float32bits(v))
}

// AppendString appends len(s) followed by the UTF-8 bytes of s.
// On error b is returned unchanged.
func AppendString(b []byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return b, &EncodingError{Field: "string", Err: ErrInvalidUTF8}
	}
	if len(s) > math.MaxInt32 {
		return b, &EncodingError{Field: "string", Err: ErrTooLarge}
	}
	b = AppendInt32(b, int32(len(s)))
	return append(b, s...), nil
}

// AppendBytes is AppendString for opaque payloads.
func AppendBytes(b []byte, p []byte) ([]byte, error) {
	if len(p) > math.MaxInt32 {
		return b, &EncodingError{Field: "bytes", Err: ErrTooLarge}
	}
	b = AppendInt32(b, int32(len(p)))
	return append(b, p...), nil
}

// AppendPrefixedInt32 wraps the 4-byte value in a length prefix of 4.
func AppendPrefixedInt32(b []byte, v int32) []byte {
	return AppendInt32(AppendInt32(b, IntSize), v)
}

func AppendPrefixedFloat32(b []byte, v float32) []byte {
	return AppendFloat32(AppendInt32(b, IntSize), v)
}

// AppendDecimalInt32 appends v as length-prefixed decimal text.
func AppendDecimalInt32(b []byte, v int32) []byte {
	s := strconv.FormatInt(int64(v), 10)
	b = AppendInt32(b, int32(len(s)))
	return append(b, s...)
}

// AppendDecimalFloat32 uses the shortest text that parses back to v.
func AppendDecimalFloat32(b []byte, v float32) []byte {
	s := strconv.FormatFloat(float64(v), 'g', -1, 32)
	b = AppendInt32(b, int32(len(s)))
	return append(b, s...)
}

// StringSize is the encoded width of s as a length-prefixed field.
func StringSize(s string) int { return PrefixSize + len(s) }

func need(b []byte, off, n int) error {
	if off < 0 || off > len(b) || n > len(b)-off {
		return truncated(b, off, n)
	}
	return nil
}

// ReadInt reads width bytes at off as a big-endian integer. Widths 1 and 2
// are zero-extended; width 4 keeps its sign.
func ReadInt(b []byte, off, width int) (int32, error) {
	if width != 1 && width != 2 && width != 4 {
		return 0, &DecodingError{Offset: off, Err: fmt.Errorf("%w: %d", ErrBadWidth, width)}
	}
	if err := need(b, off, width); err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return int32(b[off]), nil
	case 2:
		return int32(binary.BigEndian.Uint16(b[off:])), nil
	default:
		return int32(binary.BigEndian.Uint32(b[off:])), nil
	}
}

func ReadInt32(b []byte, off int) (int32, error) { return ReadInt(b, off, IntSize) }

func ReadFloat32(b []byte, off int) (float32, error) {
	if err := need(b, off, IntSize); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b[off:])), nil
}

// ReadBytes returns the payload of the length-prefixed field at off and the
// number of bytes the field occupies (prefix included). The payload aliases b.
func ReadBytes(b []byte, off int) ([]byte, int, error) {
	return readPrefixed(b, off, 0)
}

// ReadBytesMax is ReadBytes with an upper bound on the declared length.
// limit <= 0 disables the bound.
func ReadBytesMax(b []byte, off, limit int) ([]byte, int, error) {
	return readPrefixed(b, off, limit)
}

func readPrefixed(b []byte, off, limit int) ([]byte, int, error) {
	if err := need(b, off, PrefixSize); err != nil {
		return nil, 0, err
	}
	n := int(int32(binary.BigEndian.Uint32(b[off:])))
	if n < 0 {
		return nil, 0, &DecodingError{Offset: off, Err: ErrNegativeLength}
	}
	if limit > 0 && n > limit {
		return nil, 0, &DecodingError{Offset: off, Err: fmt.Errorf("%w: %d > %d", ErrTooLarge, n, limit)}
	}
	start := off + PrefixSize
	if n > len(b)-start {
		return nil, 0, truncated(b, start, n)
	}
	return b[start : start+n : start+n], PrefixSize + n, nil
}

// ReadString reads a length-prefixed UTF-8 field at off.
func ReadString(b []byte, off int) (string, int, error) {
	return ReadStringMax(b, off, 0)
}

func ReadStringMax(b []byte, off, limit int) (string, int, error) {
	p, n, err := readPrefixed(b, off, limit)
	if err != nil {
		return "", 0, err
	}
	if !utf8.Valid(p) {
		return "", 0, &DecodingError{Offset: off + PrefixSize, Err: ErrInvalidUTF8}
	}
	return string(p), n, nil
}

// ReadFixedWidth reads width raw bytes as text. It is used for the status
// token, which carries no length prefix.
func ReadFixedWidth(b []byte, off, width int) (string, error) {
	if width <= 0 {
		return "", &DecodingError{Offset: off, Err: fmt.Errorf("%w: %d", ErrBadWidth, width)}
	}
	if err := need(b, off, width); err != nil {
		return "", err
	}
	return string(b[off : off+width]), nil
}

func ReadMessageString(b []byte, off int) (string, int, error) {
	return ReadString(b, off)
}

// ReadMessageInt reads a length-prefixed decimal text field as an int32.
func ReadMessageInt(b []byte, off int) (int32, int, error) {
	s, n, err := ReadString(b, off)
	if err != nil {
		return 0, 0, err
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, 0, &DecodingError{Offset: off, Err: fmt.Errorf("%w: %q", ErrNotNumber, s)}
	}
	return int32(v), n, nil
}

// ReadMessageFloat reads a length-prefixed decimal text field as a float32.
func ReadMessageFloat(b []byte, off int) (float32, int, error) {
	s, n, err := ReadString(b, off)
	if err != nil {
		return 0, 0, err
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, 0, &DecodingError{Offset: off, Err: fmt.Errorf("%w: %q", ErrNotNumber, s)}
	}
	return float32(v), n, nil
}
