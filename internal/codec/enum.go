package codec

import (
	"fmt"
	"io"
)

// EnumCodec encodes an int32-backed enum. Names lists the defined values;
// anything else, including the generated Undefined value, fails to encode,
// and a value outside Names fails to decode.
type EnumCodec[T ~int32] struct {
	Names map[T]string
}

func (c EnumCodec[T]) Encode(r *Registry, w io.Writer, v T) error {
	if _, ok := c.Names[v]; !ok {
		return EncodeError(TypeName[T](), fmt.Errorf("undefined enum value %d", int32(v)))
	}
	return Encode(r, w, int32(v))
}

func (c EnumCodec[T]) Decode(r *Registry, rd io.Reader) (T, error) {
	raw, err := Decode[int32](r, rd)
	if err != nil {
		return 0, err
	}
	v := T(raw)
	if _, ok := c.Names[v]; !ok {
		return 0, DecodeError(TypeName[T](), fmt.Errorf("unknown enum value %d", raw))
	}
	return v, nil
}
