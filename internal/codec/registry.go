package codec

import (
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/pkg/errors"
)

// Registry maps a value type to its codec.
//
// A registry is populated once, before any connection uses it, and is
// read-only afterwards; concurrent lookups need no locking. Codecs are never
// removed.
type Registry struct {
	codecs map[reflect.Type]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[reflect.Type]any),
	}
}

// Register adds the codec for T and returns it.
// Registering a second codec for the same type is a configuration error and
// panics.
func Register[T any](r *Registry, c Codec[T]) Codec[T] {
	key := reflect.TypeFor[T]()
	if _, exists := r.codecs[key]; exists {
		panic(fmt.Sprintf("codec: type %s registered twice", key))
	}
	r.codecs[key] = c
	return c
}

// Get returns the codec registered for T.
func Get[T any](r *Registry) (Codec[T], bool) {
	c, ok := r.codecs[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	typed, ok := c.(Codec[T])
	return typed, ok
}

// TryGet is like Get but reports a missing codec as a NoCodec error.
func TryGet[T any](r *Registry) (Codec[T], error) {
	c, ok := Get[T](r)
	if !ok {
		return nil, NoCodec(TypeName[T]())
	}
	return c, nil
}

// Encode writes v with the codec registered for T.
func Encode[T any](r *Registry, w io.Writer, v T) error {
	c, err := TryGet[T](r)
	if err != nil {
		return err
	}
	return c.Encode(r, w, v)
}

// Decode reads a T with the codec registered for T.
func Decode[T any](r *Registry, rd io.Reader) (T, error) {
	c, err := TryGet[T](r)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.Decode(r, rd)
}

// EncodeField is Encode with the failing field attributed in the error.
// Generated record codecs call it once per field.
func EncodeField[T any](r *Registry, w io.Writer, field string, v T) error {
	if err := Encode(r, w, v); err != nil {
		return errors.WithMessagef(err, "field %s", field)
	}
	return nil
}

// DecodeField is Decode with the failing field attributed in the error.
func DecodeField[T any](r *Registry, rd io.Reader, field string, dst *T) error {
	v, err := Decode[T](r, rd)
	if err != nil {
		return errors.WithMessagef(err, "field %s", field)
	}
	*dst = v
	return nil
}

// Len returns the number of registered codecs.
func (r *Registry) Len() int {
	return len(r.codecs)
}

// Types returns the names of all registered types, sorted.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.codecs))
	for key := range r.codecs {
		names = append(names, key.String())
	}
	sort.Strings(names)
	return names
}

// RegisterPrimitives registers the fixed-width codecs, the string codec, and
// sequence codecs for each of them. It must run before any record codec is
// used, since records decode their fields through the registry.
func RegisterPrimitives(r *Registry) {
	Register[int8](r, Int8Codec{})
	Register[uint8](r, Uint8Codec{})
	Register[int16](r, Int16Codec{})
	Register[int32](r, Int32Codec{})
	Register[int64](r, Int64Codec{})
	Register[float32](r, Float32Codec{})
	Register[float64](r, Float64Codec{})
	Register[bool](r, BoolCodec{})
	Register[string](r, StringCodec{})

	Register[[]int8](r, VectorCodec[int8]{})
	Register[[]uint8](r, VectorCodec[uint8]{})
	Register[[]int16](r, VectorCodec[int16]{})
	Register[[]int32](r, VectorCodec[int32]{})
	Register[[]int64](r, VectorCodec[int64]{})
	Register[[]float32](r, VectorCodec[float32]{})
	Register[[]float64](r, VectorCodec[float64]{})
	Register[[]bool](r, VectorCodec[bool]{})
	Register[[]string](r, VectorCodec[string]{})
}
