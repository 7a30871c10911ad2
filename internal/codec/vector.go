package codec

import "io"

// maxPrealloc bounds the capacity reserved from an untrusted length prefix.
const maxPrealloc = 4096

// VectorCodec encodes a []T as an int32 element count followed by each
// element through the codec registered for T.
type VectorCodec[T any] struct{}

func (VectorCodec[T]) Encode(r *Registry, w io.Writer, v []T) error {
	if len(v) > math32 {
		return InvalidArgument(TypeName[[]T](), "length %d does not fit in int32", len(v))
	}

	if err := Encode(r, w, int32(len(v))); err != nil {
		return err
	}
	for _, item := range v {
		if err := Encode(r, w, item); err != nil {
			return err
		}
	}
	return nil
}

func (VectorCodec[T]) Decode(r *Registry, rd io.Reader) ([]T, error) {
	length, err := Decode[int32](r, rd)
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, InvalidArgument(TypeName[[]T](), "negative length %d", length)
	}

	// TryGet once instead of per element.
	c, err := TryGet[T](r)
	if err != nil {
		return nil, err
	}

	values := make([]T, 0, min(int(length), maxPrealloc))
	for i := int32(0); i < length; i++ {
		item, err := c.Decode(r, rd)
		if err != nil {
			return nil, err
		}
		values = append(values, item)
	}
	return values, nil
}
