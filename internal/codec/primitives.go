package codec

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

var be = binary.BigEndian

// Int8Codec encodes an int8 as one byte.
type Int8Codec struct{}

func (Int8Codec) Encode(_ *Registry, w io.Writer, v int8) error {
	return writeFull(w, "int8", []byte{byte(v)})
}

func (Int8Codec) Decode(_ *Registry, r io.Reader) (int8, error) {
	var buf [1]byte
	if err := readFull(r, "int8", buf[:]); err != nil {
		return 0, err
	}
	return int8(buf[0]), nil
}

// Uint8Codec encodes a uint8 as one byte.
type Uint8Codec struct{}

func (Uint8Codec) Encode(_ *Registry, w io.Writer, v uint8) error {
	return writeFull(w, "uint8", []byte{v})
}

func (Uint8Codec) Decode(_ *Registry, r io.Reader) (uint8, error) {
	var buf [1]byte
	if err := readFull(r, "uint8", buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// Int16Codec encodes an int16 as two big-endian bytes.
type Int16Codec struct{}

func (Int16Codec) Encode(_ *Registry, w io.Writer, v int16) error {
	var buf [2]byte
	be.PutUint16(buf[:], uint16(v))
	return writeFull(w, "int16", buf[:])
}

func (Int16Codec) Decode(_ *Registry, r io.Reader) (int16, error) {
	var buf [2]byte
	if err := readFull(r, "int16", buf[:]); err != nil {
		return 0, err
	}
	return int16(be.Uint16(buf[:])), nil
}

// Int32Codec encodes an int32 as four big-endian bytes.
type Int32Codec struct{}

func (Int32Codec) Encode(_ *Registry, w io.Writer, v int32) error {
	var buf [4]byte
	be.PutUint32(buf[:], uint32(v))
	return writeFull(w, "int32", buf[:])
}

func (Int32Codec) Decode(_ *Registry, r io.Reader) (int32, error) {
	var buf [4]byte
	if err := readFull(r, "int32", buf[:]); err != nil {
		return 0, err
	}
	return int32(be.Uint32(buf[:])), nil
}

// Int64Codec encodes an int64 as eight big-endian bytes.
type Int64Codec struct{}

func (Int64Codec) Encode(_ *Registry, w io.Writer, v int64) error {
	var buf [8]byte
	be.PutUint64(buf[:], uint64(v))
	return writeFull(w, "int64", buf[:])
}

func (Int64Codec) Decode(_ *Registry, r io.Reader) (int64, error) {
	var buf [8]byte
	if err := readFull(r, "int64", buf[:]); err != nil {
		return 0, err
	}
	return int64(be.Uint64(buf[:])), nil
}

// Float32Codec encodes a float32 as its IEEE 754 bits, big-endian.
type Float32Codec struct{}

func (Float32Codec) Encode(_ *Registry, w io.Writer, v float32) error {
	var buf [4]byte
	be.PutUint32(buf[:], math.Float32bits(v))
	return writeFull(w, "float32", buf[:])
}

func (Float32Codec) Decode(_ *Registry, r io.Reader) (float32, error) {
	var buf [4]byte
	if err := readFull(r, "float32", buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(be.Uint32(buf[:])), nil
}

// Float64Codec encodes a float64 as its IEEE 754 bits, big-endian.
type Float64Codec struct{}

func (Float64Codec) Encode(_ *Registry, w io.Writer, v float64) error {
	var buf [8]byte
	be.PutUint64(buf[:], math.Float64bits(v))
	return writeFull(w, "float64", buf[:])
}

func (Float64Codec) Decode(_ *Registry, r io.Reader) (float64, error) {
	var buf [8]byte
	if err := readFull(r, "float64", buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(be.Uint64(buf[:])), nil
}

// BoolCodec encodes true as 1 and false as 0.
// Decoding accepts only those two bytes; anything else is a decode error.
type BoolCodec struct{}

func (BoolCodec) Encode(_ *Registry, w io.Writer, v bool) error {
	b := byte(0)
	if v {
		b = 1
	}
	return writeFull(w, "bool", []byte{b})
}

func (BoolCodec) Decode(_ *Registry, r io.Reader) (bool, error) {
	var buf [1]byte
	if err := readFull(r, "bool", buf[:]); err != nil {
		return false, err
	}
	switch buf[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, DecodeError("bool", fmt.Errorf("invalid boolean byte 0x%02x", buf[0]))
	}
}
