package bankproto

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/unkn0wn-root/bankproto/internal/wire"
)

// Message is one complete request body:
//
//	id(i32 be) | tag(i32 be) | field*
//
// The transport prepends its own length/id header. A Message is immutable;
// Bytes returns a copy and WriteTo hands the bytes to a writer without one.
type Message struct {
	b []byte
}

func (m Message) Len() int      { return len(m.b) }
func (m Message) IsZero() bool  { return len(m.b) == 0 }
func (m Message) Bytes() []byte { return append([]byte(nil), m.b...) }

func (m Message) ID() RequestID {
	if len(m.b) < HeaderSize {
		return 0
	}
	return RequestID(int32(binary.BigEndian.Uint32(m.b)))
}

func (m Message) Tag() ServiceTag {
	if len(m.b) < HeaderSize {
		return 0
	}
	return ServiceTag(int32(binary.BigEndian.Uint32(m.b[wire.IntSize:])))
}

func (m Message) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(m.b)
	return int64(n), err
}

// BuildRequest encodes id and tag as raw Int32 followed by fields in order,
// each under its own Policy. Output is deterministic for equal inputs.
// Field values are not validated beyond representability.
func BuildRequest(id RequestID, tag ServiceTag, fields ...Field) (Message, error) {
	size := HeaderSize
	for _, f := range fields {
		size += f.sizeHint()
	}
	b := make([]byte, 0, size)
	b = wire.AppendInt32(b, int32(id))
	b = wire.AppendInt32(b, int32(tag))

	var err error
	for i, f := range fields {
		if b, err = f.AppendTo(b); err != nil {
			return Message{}, fmt.Errorf("build %s request: field %d: %w", tag, i, err)
		}
	}
	return Message{b: b}, nil
}

// Request is a decoded request body.
type Request struct {
	ID     RequestID
	Tag    ServiceTag
	Fields []Field
}

// ParseRequest decodes b using specs as the field layout. Every byte of b
// must be consumed.
func ParseRequest(b []byte, specs ...FieldSpec) (Request, error) {
	return parseRequest(b, 0, specs)
}

// ParseRequestLimit is ParseRequest with an upper bound on any declared
// string length, for bodies from untrusted peers. limit <= 0 disables it.
func ParseRequestLimit(b []byte, limit int, specs ...FieldSpec) (Request, error) {
	return parseRequest(b, limit, specs)
}

func parseRequest(b []byte, limit int, specs []FieldSpec) (Request, error) {
	id, err := wire.ReadInt32(b, 0)
	if err != nil {
		return Request{}, err
	}
	tag, err := wire.ReadInt32(b, wire.IntSize)
	if err != nil {
		return Request{}, err
	}

	req := Request{ID: RequestID(id), Tag: ServiceTag(tag), Fields: make([]Field, 0, len(specs))}
	off := HeaderSize
	for i, s := range specs {
		f, n, err := s.read(b, off, limit)
		if err != nil {
			return Request{}, fmt.Errorf("parse %s request: field %d: %w", req.Tag, i, err)
		}
		req.Fields = append(req.Fields, f)
		off += n
	}
	if off != len(b) {
		return Request{}, &DecodingError{Offset: off, Err: ErrTrailingBytes}
	}
	return req, nil
}
