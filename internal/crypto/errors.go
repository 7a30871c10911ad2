package crypto

import (
	"errors"
	"fmt"
)

// Kind classifies cipher failures. The built-in contexts never fail; the kinds
// exist for contexts backed by real ciphers.
type Kind int

const (
	KindEncrypt Kind = iota + 1
	KindDecrypt
)

var (
	ErrEncrypt = errors.New("encrypt error")
	ErrDecrypt = errors.New("decrypt error")
)

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) sentinel() error {
	if e.Kind == KindEncrypt {
		return ErrEncrypt
	}
	return ErrDecrypt
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v", e.sentinel(), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return e.sentinel() == target }

func EncryptError(err error) error {
	return &Error{Kind: KindEncrypt, Err: err}
}

func DecryptError(err error) error {
	return &Error{Kind: KindDecrypt, Err: err}
}
