// Package packet binds payload types to wire ids and dispatches packet
// encoding and decoding to the codecs registered for them.
package packet

// Packet is a typed payload carried by one frame.
//
// PacketID selects the payload type on the wire. ModelID is a classification
// tag used for routing and diagnostics; framing ignores it.
type Packet interface {
	PacketName() string
	PacketID() int32
	ModelID() int32
}

// As downcasts p to the concrete payload type T.
func As[T Packet](p Packet) (T, bool) {
	v, ok := p.(T)
	return v, ok
}
