package codec

// Bytes is an identity codec for []byte values. Wrap it with Map to store a
// value that is already its own encoding, such as a request body.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }
func (Bytes) Decode(b []byte) ([]byte, error) { return b, nil }
