package network

import (
	"io"
	"net"
)

// Socket is the byte transport a Connection frames packets over. Any net.Conn
// satisfies it, TLS included; WebSocketSocket adapts a websocket.
//
// Read may return fewer bytes than requested. Write may also accept fewer
// bytes without an error; the connection retries the remainder.
type Socket interface {
	io.ReadWriteCloser
	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}
