package codec

import "io"

// OptionCodec encodes an optional T, represented as *T, as an "is none" flag
// followed by the value when present. The nested value goes through the
// codec registered for T.
type OptionCodec[T any] struct{}

func (OptionCodec[T]) Encode(r *Registry, w io.Writer, v *T) error {
	if err := Encode(r, w, v == nil); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return Encode(r, w, *v)
}

func (OptionCodec[T]) Decode(r *Registry, rd io.Reader) (*T, error) {
	none, err := Decode[bool](r, rd)
	if err != nil {
		return nil, err
	}
	if none {
		return nil, nil
	}

	value, err := Decode[T](r, rd)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
