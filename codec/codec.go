// Package codec turns outbox values into bytes and back. The outbox wraps
// the encoded bytes in its own envelope, so a codec need not be
// self-describing.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
