package network

import "github.com/Assasans/protanki-server/internal/packet"

// Observer is notified of a connection's traffic. Methods run on the goroutine
// that produced the event and must not block.
//
// size is the full frame length, header included.
type Observer interface {
	PacketReceived(c *Connection, p packet.Packet, size int)
	PacketSent(c *Connection, p packet.Packet, size int)
	Disconnected(c *Connection, err error)
}

type observers []Observer

func (o observers) PacketReceived(c *Connection, p packet.Packet, size int) {
	for _, obs := range o {
		obs.PacketReceived(c, p, size)
	}
}

func (o observers) PacketSent(c *Connection, p packet.Packet, size int) {
	for _, obs := range o {
		obs.PacketSent(c, p, size)
	}
}

func (o observers) Disconnected(c *Connection, err error) {
	for _, obs := range o {
		obs.Disconnected(c, err)
	}
}
