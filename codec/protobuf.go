package codec

import "google.golang.org/protobuf/proto"

// Protobuf stores proto messages. Encoding is deterministic so repeated
// writes of the same message produce the same bytes.
type Protobuf[T proto.Message] struct {
	new func() T // constructor, e.g. func() *wrapperspb.BytesValue { return &wrapperspb.BytesValue{} }
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: true}.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}
