// Package crypto holds the per-connection payload ciphers. Contexts are
// stateful: every byte transformed depends on all bytes before it in the same
// direction, so each direction must see its bytes exactly once and in order.
package crypto

// Context transforms frame payloads in place.
//
// Encrypt and Decrypt keep independent state. A connection may call Encrypt
// from its sending goroutine while its reader calls Decrypt, but never calls
// the same method concurrently.
type Context interface {
	Name() string
	Encrypt(buf []byte) error
	Decrypt(buf []byte) error
}
