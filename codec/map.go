package codec

// Map adapts a Codec[W] into a Codec[V] through a pair of conversions, so a
// value can be stored in another shape (a proto message, a raw body).
type Map[V, W any] struct {
	Inner Codec[W]
	To    func(V) (W, error)
	From  func(W) (V, error)
}

func (m Map[V, W]) Encode(v V) ([]byte, error) {
	w, err := m.To(v)
	if err != nil {
		return nil, err
	}
	return m.Inner.Encode(w)
}

func (m Map[V, W]) Decode(b []byte) (V, error) {
	w, err := m.Inner.Decode(b)
	if err != nil {
		var zero V
		return zero, err
	}
	return m.From(w)
}
