package codec

import (
	"errors"
	"fmt"
)

// Kind classifies codec failures.
type Kind int

const (
	KindNoCodec Kind = iota + 1
	KindIO
	KindInvalidArgument
	KindEncode
	KindDecode
	KindDowncast
)

// Sentinel errors matched by errors.Is against an *Error of the same kind.
var (
	ErrNoCodec         = errors.New("no codec registered")
	ErrIO              = errors.New("i/o error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEncode          = errors.New("encode error")
	ErrDecode          = errors.New("decode error")
	ErrDowncast        = errors.New("downcast error")
)

var kindSentinels = map[Kind]error{
	KindNoCodec:         ErrNoCodec,
	KindIO:              ErrIO,
	KindInvalidArgument: ErrInvalidArgument,
	KindEncode:          ErrEncode,
	KindDecode:          ErrDecode,
	KindDowncast:        ErrDowncast,
}

// Error is the error type returned by the serialization stack.
// Subject names the type or packet the failure is attributed to.
type Error struct {
	Kind    Kind
	Subject string
	Err     error
}

func (e *Error) Error() string {
	base := kindSentinels[e.Kind].Error()
	switch {
	case e.Kind == KindNoCodec:
		return fmt.Sprintf("%s for `%s`", base, e.Subject)
	case e.Err != nil && e.Subject != "":
		return fmt.Sprintf("%s (%s): %v", base, e.Subject, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", base, e.Err)
	default:
		return fmt.Sprintf("%s: %s", base, e.Subject)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// NoCodec reports that no codec is registered for the named type.
func NoCodec(subject string) error {
	return &Error{Kind: KindNoCodec, Subject: subject}
}

// IOError wraps a failure of the underlying reader or writer.
func IOError(subject string, err error) error {
	return &Error{Kind: KindIO, Subject: subject, Err: err}
}

// InvalidArgument reports a value that cannot be represented on the wire.
func InvalidArgument(subject, format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Subject: subject, Err: fmt.Errorf(format, args...)}
}

// EncodeError wraps a downstream encode failure.
func EncodeError(subject string, err error) error {
	return &Error{Kind: KindEncode, Subject: subject, Err: err}
}

// DecodeError wraps a downstream decode failure.
func DecodeError(subject string, err error) error {
	return &Error{Kind: KindDecode, Subject: subject, Err: err}
}

// DowncastError reports a value whose runtime type does not match the codec
// registered for its packet id.
func DowncastError(subject string) error {
	return &Error{Kind: KindDowncast, Subject: subject}
}
