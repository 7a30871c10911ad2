package network

import (
	"context"
	"io"
	"net"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// WebSocketSocket carries the frame stream inside binary websocket messages.
// Message boundaries carry no meaning: the stream is the concatenation of all
// message payloads, so frames may span messages.
type WebSocketSocket struct {
	conn   *websocket.Conn
	reader io.Reader
}

func NewWebSocketSocket(conn *websocket.Conn) *WebSocketSocket {
	return &WebSocketSocket{conn: conn}
}

func (s *WebSocketSocket) Read(p []byte) (int, error) {
	for {
		if s.reader == nil {
			kind, r, err := s.conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, err
			}
			if kind != websocket.BinaryMessage {
				continue
			}
			s.reader = r
		}

		n, err := s.reader.Read(p)
		if errors.Is(err, io.EOF) {
			s.reader = nil
			if n == 0 {
				continue
			}
			err = nil
		}
		return n, err
	}
}

// Write sends p as one binary message.
func (s *WebSocketSocket) Write(p []byte) (int, error) {
	if err := s.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *WebSocketSocket) Close() error { return s.conn.Close() }

func (s *WebSocketSocket) LocalAddr() net.Addr { return s.conn.LocalAddr() }

func (s *WebSocketSocket) RemoteAddr() net.Addr { return s.conn.RemoteAddr() }

// WebSocketHandler upgrades HTTP requests and hands the resulting connections
// to the server. An empty allowedOrigins accepts any origin.
func WebSocketHandler(ctx context.Context, s *Server, handler ConnHandler, allowedOrigins []string) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  recvBufferTail * 4,
		WriteBufferSize: recvBufferTail * 4,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
			return
		}
		s.Handle(ctx, s.NewConnection(NewWebSocketSocket(conn)), handler)
	})
}
