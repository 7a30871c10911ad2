// Package codec implements the value serialization layer of the protocol:
// fixed-width primitives, strings, optional values, sequences, and a registry
// that lets generated record codecs encode fields of any registered type
// without knowing it statically.
//
// All multi-byte values are big-endian.
package codec

import (
	"io"
	"reflect"
)

// Codec writes values of exactly one type to a byte sink and reads them back.
// The registry is passed in so composite codecs can delegate nested values.
type Codec[T any] interface {
	Encode(r *Registry, w io.Writer, v T) error
	Decode(r *Registry, rd io.Reader) (T, error)
}

// TypeName returns the name used for T in errors and diagnostics.
func TypeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

func writeFull(w io.Writer, subject string, b []byte) error {
	if _, err := w.Write(b); err != nil {
		return IOError(subject, err)
	}
	return nil
}

func readFull(r io.Reader, subject string, b []byte) error {
	if _, err := io.ReadFull(r, b); err != nil {
		return IOError(subject, err)
	}
	return nil
}
