package network

import (
	"context"
	"crypto/tls"
	"net"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Assasans/protanki-server/internal/packet"
)

// ReuseAddrListenConfig returns a net.ListenConfig that sets SO_REUSEADDR
// before binding, so a restarted server can rebind a port in TIME_WAIT.
func ReuseAddrListenConfig() net.ListenConfig {
	return net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var opErr error
			err := c.Control(func(fd uintptr) {
				opErr = setReuseAddr(fd)
			})
			if err != nil {
				return err
			}
			return opErr
		},
	}
}

// ConnHandler owns an accepted connection until it returns.
type ConnHandler func(ctx context.Context, c *Connection) error

// Server accepts game clients and wraps each socket in a Connection.
type Server struct {
	addr      string
	tlsConfig *tls.Config
	packets   *packet.Registry
	connOpts  []Option
	conns     *ConnectionRegistry
	logger    zerolog.Logger

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup
}

// NewServer returns a server for addr. tlsConfig may be nil for plain TCP.
// connOpts are applied to every accepted connection.
func NewServer(addr string, tlsConfig *tls.Config, packets *packet.Registry, connOpts ...Option) *Server {
	return &Server{
		addr:      addr,
		tlsConfig: tlsConfig,
		packets:   packets,
		connOpts:  connOpts,
		conns:     NewConnectionRegistry(),
		logger:    log.With().Str("component", "server").Logger(),
	}
}

// Listen binds the listening socket.
func (s *Server) Listen(ctx context.Context) error {
	lc := ReuseAddrListenConfig()
	l, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.addr)
	}
	if s.tlsConfig != nil {
		l = tls.NewListener(l, s.tlsConfig)
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	s.logger.Info().
		Str("addr", l.Addr().String()).
		Bool("tls", s.tlsConfig != nil).
		Msg("game server listening")
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Packets returns the registry used to decode and encode frames.
func (s *Server) Packets() *packet.Registry {
	return s.packets
}

// Connections returns the registry of live connections.
func (s *Server) Connections() *ConnectionRegistry {
	return s.conns
}

// Accept waits for the next client and returns its connection.
func (s *Server) Accept() (*Connection, error) {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l == nil {
		return nil, errors.New("server is not listening")
	}

	raw, err := l.Accept()
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("remote", raw.RemoteAddr().String()).Msg("accepted socket")
	return s.NewConnection(raw), nil
}

// NewConnection wraps a socket accepted by some other transport with the
// server's packet registry and connection options.
func (s *Server) NewConnection(socket Socket) *Connection {
	return NewConnection(socket, s.packets, s.connOpts...)
}

// Serve accepts clients until ctx is cancelled, running handler for each on
// its own goroutine. Listen must have been called.
func (s *Server) Serve(ctx context.Context, handler ConnHandler) error {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l == nil {
		return errors.New("server is not listening")
	}

	go func() {
		<-ctx.Done()
		l.Close()
	}()

	for {
		c, err := s.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("game server stopping")
				s.conns.CloseAll()
				s.wg.Wait()
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			s.logger.Error().Err(err).Msg("failed to accept connection")
			continue
		}

		s.Handle(ctx, c, handler)
	}
}

// Handle registers c and runs handler for it on a new goroutine.
func (s *Server) Handle(ctx context.Context, c *Connection, handler ConnHandler) {
	s.conns.Register(c)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.conns.Unregister(c.ID())

		if err := handler(ctx, c); err != nil {
			c.Logger().Warn().Err(err).Msg("connection handler failed")
		}
	}()
}

// Close stops accepting and closes every live connection.
func (s *Server) Close() error {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()

	s.conns.CloseAll()
	if l == nil {
		return nil
	}
	return l.Close()
}
