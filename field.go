package bankproto

import (
	"fmt"
	"math"

	"github.com/unkn0wn-root/bankproto/internal/wire"
)

// Kind is the value type carried by a Field.
type Kind uint8

const (
	KindInt32 Kind = iota + 1
	KindFloat32
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindFloat32:
		return "float32"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Policy decides how a Field is laid out on the wire. It is chosen per field
// and never inferred from the value.
//
//	PolicyPrefixed  len(i32) | payload   numbers: len=4 and the 4-byte binary value
//	PolicyRaw       4-byte binary value  numbers only
//	PolicyText      len(i32) | decimal text
//
// Request message fields use PolicyPrefixed. Response payloads use PolicyText.
type Policy uint8

const (
	PolicyPrefixed Policy = iota
	PolicyRaw
	PolicyText
)

func (p Policy) String() string {
	switch p {
	case PolicyPrefixed:
		return "prefixed"
	case PolicyRaw:
		return "raw"
	case PolicyText:
		return "text"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// Field is one typed value of a message. Fields are comparable, so decoded
// fields can be checked against the originals with Equal. == also works
// except for NaN floats.
type Field struct {
	kind   Kind
	policy Policy
	i      int32
	f      float32
	s      string
}

func Int32(v int32) Field     { return Field{kind: KindInt32, i: v} }
func Float32(v float32) Field { return Field{kind: KindFloat32, f: v} }
func String(s string) Field   { return Field{kind: KindString, s: s} }

// With returns a copy of f encoded under p.
func (f Field) With(p Policy) Field {
	f.policy = p
	return f
}

func (f Field) Kind() Kind      { return f.kind }
func (f Field) Policy() Policy  { return f.policy }
func (f Field) Int() int32      { return f.i }
func (f Field) Float() float32  { return f.f }
func (f Field) Text() string    { return f.s }
func (f Field) Spec() FieldSpec { return FieldSpec{Kind: f.kind, Policy: f.policy} }

// Equal reports whether f and g have the same kind, policy and value. Floats
// compare by bit pattern, so a NaN equals itself after a round trip.
func (f Field) Equal(g Field) bool {
	if f.kind != g.kind || f.policy != g.policy {
		return false
	}
	switch f.kind {
	case KindInt32:
		return f.i == g.i
	case KindFloat32:
		return math.Float32bits(f.f) == math.Float32bits(g.f)
	default:
		return f.s == g.s
	}
}

func (f Field) Value() any {
	switch f.kind {
	case KindInt32:
		return f.i
	case KindFloat32:
		return f.f
	case KindString:
		return f.s
	}
	return nil
}

// sizeHint is the encoded width, exact for every layout except decimal
// text numbers, where it is an upper bound.
func (f Field) sizeHint() int {
	switch {
	case f.kind == KindString:
		return wire.StringSize(f.s)
	case f.policy == PolicyRaw:
		return wire.IntSize
	case f.policy == PolicyText:
		return wire.PrefixSize + 16
	default:
		return wire.PrefixSize + wire.IntSize
	}
}

// AppendTo appends f to b under its policy.
func (f Field) AppendTo(b []byte) ([]byte, error) {
	switch f.kind {
	case KindInt32:
		switch f.policy {
		case PolicyRaw:
			return wire.AppendInt32(b, f.i), nil
		case PolicyText:
			return wire.AppendDecimalInt32(b, f.i), nil
		default:
			return wire.AppendPrefixedInt32(b, f.i), nil
		}
	case KindFloat32:
		switch f.policy {
		case PolicyRaw:
			return wire.AppendFloat32(b, f.f), nil
		case PolicyText:
			return wire.AppendDecimalFloat32(b, f.f), nil
		default:
			return wire.AppendPrefixedFloat32(b, f.f), nil
		}
	case KindString:
		if f.policy == PolicyRaw {
			return b, &EncodingError{Field: "string", Err: ErrRawString}
		}
		return wire.AppendString(b, f.s)
	default:
		return b, &EncodingError{Field: f.kind.String(), Err: fmt.Errorf("unknown field kind")}
	}
}

// FieldSpec describes a field's layout for decoding.
type FieldSpec struct {
	Kind   Kind
	Policy Policy
}

// read decodes one field at off. limit bounds declared lengths (<= 0: none).
func (s FieldSpec) read(b []byte, off, limit int) (Field, int, error) {
	switch s.Kind {
	case KindInt32, KindFloat32:
		return s.readNumber(b, off)
	case KindString:
		if s.Policy == PolicyRaw {
			return Field{}, 0, &DecodingError{Offset: off, Err: ErrRawString}
		}
		v, n, err := wire.ReadStringMax(b, off, limit)
		if err != nil {
			return Field{}, 0, err
		}
		return String(v).With(s.Policy), n, nil
	default:
		return Field{}, 0, &DecodingError{Offset: off, Err: fmt.Errorf("unknown field kind %s", s.Kind)}
	}
}

func (s FieldSpec) readNumber(b []byte, off int) (Field, int, error) {
	var (
		f   Field
		n   int
		err error
	)
	switch s.Policy {
	case PolicyRaw:
		n = wire.IntSize
		f, err = s.readBinary(b, off)
	case PolicyText:
		if s.Kind == KindInt32 {
			var v int32
			v, n, err = wire.ReadMessageInt(b, off)
			f = Int32(v)
		} else {
			var v float32
			v, n, err = wire.ReadMessageFloat(b, off)
			f = Float32(v)
		}
	default:
		var p []byte
		p, n, err = wire.ReadBytes(b, off)
		if err == nil && len(p) != wire.IntSize {
			err = &DecodingError{Offset: off, Err: fmt.Errorf("%w: %s payload of %d bytes", ErrBadWidth, s.Kind, len(p))}
		}
		if err == nil {
			f, err = s.readBinary(p, 0)
		}
	}
	if err != nil {
		return Field{}, 0, err
	}
	return f.With(s.Policy), n, nil
}

func (s FieldSpec) readBinary(b []byte, off int) (Field, error) {
	if s.Kind == KindInt32 {
		v, err := wire.ReadInt32(b, off)
		return Int32(v), err
	}
	v, err := wire.ReadFloat32(b, off)
	return Float32(v), err
}
