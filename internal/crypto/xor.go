package crypto

import (
	"crypto/rand"
	"fmt"

	"github.com/pkg/errors"
)

// Mode selects which side of the connection a XorContext serves. The two
// modes swap the initial tables so that one side's encrypt state equals the
// peer's decrypt state.
type Mode int

const (
	ModeServer Mode = iota
	ModeClient
)

func (m Mode) String() string {
	switch m {
	case ModeServer:
		return "server"
	case ModeClient:
		return "client"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// KeySize is the length of keys produced by GenerateKey.
const KeySize = 4

// GenerateKey returns a fresh random key for the encryption handshake.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	return key, nil
}

type xorState struct {
	table [8]byte
	index byte
}

// XorContext is the protocol's feedback stream cipher. Each direction keeps an
// 8-byte table and a rotating index; every processed plaintext byte is stored
// back into the slot it was combined with and selects the next slot.
type XorContext struct {
	mode    Mode
	encrypt xorState
	decrypt xorState
}

// NewXorContext derives both tables from key. Any key length works, including
// an empty one; the bytes are folded into a single seed.
func NewXorContext(mode Mode, key []byte) *XorContext {
	var seed byte
	for _, b := range key {
		seed ^= b
	}

	c := &XorContext{mode: mode}
	for i := byte(0); i < 8; i++ {
		plain := seed ^ i<<3
		masked := plain ^ 0x57
		if mode == ModeServer {
			c.encrypt.table[i] = plain
			c.decrypt.table[i] = masked
		} else {
			c.encrypt.table[i] = masked
			c.decrypt.table[i] = plain
		}
	}
	return c
}

func (c *XorContext) Name() string { return "xor/" + c.mode.String() }

func (c *XorContext) Mode() Mode { return c.mode }

func (c *XorContext) Encrypt(buf []byte) error {
	s := &c.encrypt
	for i, in := range buf {
		buf[i] = in ^ s.table[s.index]
		s.table[s.index] = in
		s.index ^= in & 7
	}
	return nil
}

func (c *XorContext) Decrypt(buf []byte) error {
	s := &c.decrypt
	for i, in := range buf {
		s.table[s.index] ^= in
		out := s.table[s.index]
		buf[i] = out
		s.index ^= out & 7
	}
	return nil
}
