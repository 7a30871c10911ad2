package codec

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// StringCodec encodes strings as an "is empty" flag, followed for non-empty
// strings by the int32 UTF-8 byte length and the raw bytes.
type StringCodec struct{}

func (StringCodec) Encode(r *Registry, w io.Writer, v string) error {
	if v == "" {
		return Encode(r, w, true)
	}
	if len(v) > math32 {
		return InvalidArgument("string", "length %d does not fit in int32", len(v))
	}

	if err := Encode(r, w, false); err != nil {
		return err
	}
	if err := Encode(r, w, int32(len(v))); err != nil {
		return err
	}
	return writeFull(w, "string", []byte(v))
}

func (StringCodec) Decode(r *Registry, rd io.Reader) (string, error) {
	empty, err := Decode[bool](r, rd)
	if err != nil {
		return "", err
	}
	if empty {
		return "", nil
	}

	length, err := Decode[int32](r, rd)
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", InvalidArgument("string", "negative length %d", length)
	}

	// Read incrementally rather than trusting the length for allocation.
	data, err := io.ReadAll(io.LimitReader(rd, int64(length)))
	if err != nil {
		return "", IOError("string", err)
	}
	if len(data) != int(length) {
		return "", IOError("string", io.ErrUnexpectedEOF)
	}
	if !utf8.Valid(data) {
		return "", DecodeError("string", fmt.Errorf("invalid UTF-8 in %d byte string", length))
	}

	return string(data), nil
}

const math32 = 1<<31 - 1
