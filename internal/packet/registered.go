package packet

import (
	"io"

	"github.com/Assasans/protanki-server/internal/codec"
)

// registered dispatches encode and decode for one packet id to the typed
// codec of its payload.
type registered interface {
	name() string
	modelID() int32
	encode(r *codec.Registry, w io.Writer, p Packet) error
	decode(r *codec.Registry, rd io.Reader) (Packet, error)
}

type registeredPacket[T Packet] struct {
	packetName string
	model      int32
	codec      codec.Codec[T]
}

func (e *registeredPacket[T]) name() string { return e.packetName }

func (e *registeredPacket[T]) modelID() int32 { return e.model }

func (e *registeredPacket[T]) encode(r *codec.Registry, w io.Writer, p Packet) error {
	v, ok := As[T](p)
	if !ok {
		return codec.DowncastError(p.PacketName())
	}
	return e.codec.Encode(r, w, v)
}

func (e *registeredPacket[T]) decode(r *codec.Registry, rd io.Reader) (Packet, error) {
	v, err := e.codec.Decode(r, rd)
	if err != nil {
		return nil, err
	}
	return v, nil
}
