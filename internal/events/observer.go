package events

import (
	"context"
	"time"

	"github.com/Assasans/protanki-server/internal/network"
	"github.com/Assasans/protanki-server/internal/packet"
	"github.com/Assasans/protanki-server/internal/packet/packets"
)

// Observer publishes connection lifecycle events to a Bus. It implements
// network.Observer.
type Observer struct {
	bus    *Bus
	ctx    context.Context
	source string
}

// NewObserver returns an observer emitting on bus with ctx. source tags every
// event (for example "server" or "client").
func NewObserver(ctx context.Context, bus *Bus, source string) *Observer {
	return &Observer{bus: bus, ctx: ctx, source: source}
}

func (o *Observer) emit(t EventType, payload any) {
	o.bus.Emit(o.ctx, Event{Type: t, Source: o.source, Time: time.Now(), Payload: payload})
}

func connectionPayload(c *network.Connection) ConnectionPayload {
	info := c.Info()
	return ConnectionPayload{
		ConnID:   info.ID,
		Remote:   info.Remote,
		Cipher:   info.Cipher,
		FramesIn: info.Stats.FramesIn,
		BytesIn:  info.Stats.BytesIn,
	}
}

// Opened reports a new connection. The network layer has no hook for this,
// so the connection handler calls it.
func (o *Observer) Opened(c *network.Connection) {
	o.emit(EventConnectionOpened, connectionPayload(c))
}

func (o *Observer) PacketReceived(c *network.Connection, p packet.Packet, size int) {
	switch p := p.(type) {
	case packets.C2SSessionEncryptionInitialized:
		lang := ""
		if p.Lang != nil {
			lang = *p.Lang
		}
		o.emit(EventHandshakeCompleted, HandshakePayload{ConnID: c.ID().String(), Lang: lang})
	case packets.C2SAuthUsernameLogin:
		login := ""
		if p.Login != nil {
			login = *p.Login
		}
		o.emit(EventLoginAttempt, LoginPayload{ConnID: c.ID().String(), Login: login})
	case *packet.UnknownPacket:
		o.emit(EventUnknownPacket, UnknownPacketPayload{ConnID: c.ID().String(), PacketID: p.ID, Size: size})
	}
}

func (o *Observer) PacketSent(*network.Connection, packet.Packet, int) {}

func (o *Observer) Disconnected(c *network.Connection, err error) {
	payload := connectionPayload(c)
	if err != nil {
		payload.Error = err.Error()
	}
	o.emit(EventConnectionClosed, payload)
}
