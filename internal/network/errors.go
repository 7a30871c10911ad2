package network

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies connection failures. Every kind is terminal for the
// connection it occurs on.
type Kind int

const (
	KindSocketEndOfFile Kind = iota + 1
	KindInvalidPacketSize
	KindDecode
	KindRecv
	KindSend
)

var (
	ErrSocketEndOfFile   = errors.New("socket EOF")
	ErrInvalidPacketSize = errors.New("invalid packet size")
	ErrDecode            = errors.New("decode error")
	ErrRecv              = errors.New("receive error")
	ErrSend              = errors.New("send error")

	// ErrDisconnected is returned by operations on a connection that has
	// already reached StateDisconnected.
	ErrDisconnected = errors.New("connection is disconnected")
)

var kindSentinels = map[Kind]error{
	KindSocketEndOfFile:   ErrSocketEndOfFile,
	KindInvalidPacketSize: ErrInvalidPacketSize,
	KindDecode:            ErrDecode,
	KindRecv:              ErrRecv,
	KindSend:              ErrSend,
}

// Error is the error type produced by the framing and I/O paths.
type Error struct {
	Kind Kind
	// Size is the offending frame length for KindInvalidPacketSize.
	Size int
	// PacketID is set for KindDecode.
	PacketID int32
	Err      error
}

func (e *Error) Error() string {
	base := kindSentinels[e.Kind]
	switch e.Kind {
	case KindSocketEndOfFile:
		return base.Error()
	case KindInvalidPacketSize:
		return fmt.Sprintf("%v: %d bytes", base, e.Size)
	case KindDecode:
		return fmt.Sprintf("%v: packet %d: %v", base, e.PacketID, e.Err)
	default:
		return fmt.Sprintf("%v: %v", base, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return kindSentinels[e.Kind] == target }

func socketEOF() error {
	return &Error{Kind: KindSocketEndOfFile}
}

func invalidPacketSize(size int) error {
	return &Error{Kind: KindInvalidPacketSize, Size: size}
}

func decodeError(id int32, err error) error {
	return &Error{Kind: KindDecode, PacketID: id, Err: err}
}

func recvError(err error) error {
	return &Error{Kind: KindRecv, Err: err}
}

func sendError(err error) error {
	return &Error{Kind: KindSend, Err: err}
}
