package packet

import (
	"fmt"
	"math"
)

// UnknownModelID is reported by packets whose id has no registered codec.
const UnknownModelID int32 = math.MinInt32

// UnknownPacket carries the decrypted, undecoded payload of a frame whose id
// has no registered codec. Sending one writes Payload verbatim.
type UnknownPacket struct {
	ID      int32
	Payload []byte
}

func NewUnknownPacket(id int32, payload []byte) *UnknownPacket {
	return &UnknownPacket{ID: id, Payload: payload}
}

func (*UnknownPacket) PacketName() string { return "UnknownPacket" }

func (p *UnknownPacket) PacketID() int32 { return p.ID }

func (*UnknownPacket) ModelID() int32 { return UnknownModelID }

func (p *UnknownPacket) String() string {
	return fmt.Sprintf("UnknownPacket{id: %d, payload: %d bytes}", p.ID, len(p.Payload))
}
