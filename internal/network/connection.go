// Package network frames protocol packets over byte sockets and accepts
// client connections.
package network

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"iter"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Assasans/protanki-server/internal/crypto"
	"github.com/Assasans/protanki-server/internal/packet"
)

const (
	// HeaderSize is the frame length field plus the packet id.
	HeaderSize = 8
	// MaxFrameSize caps the declared length of a single frame.
	MaxFrameSize = 64 * 1024

	recvBufferSize = 16 * 1024
	recvBufferTail = 1024
)

// State is the lifecycle state of a Connection.
type State int32

const (
	StateConnected State = iota
	StateDisconnected
)

func (s State) String() string {
	if s == StateConnected {
		return "connected"
	}
	return "disconnected"
}

// PacketHandler is called by Run for every received packet.
type PacketHandler func(ctx context.Context, c *Connection, p packet.Packet) error

// Stats are traffic counters for one connection.
type Stats struct {
	FramesIn  uint64 `json:"frames_in"`
	FramesOut uint64 `json:"frames_out"`
	BytesIn   uint64 `json:"bytes_in"`
	BytesOut  uint64 `json:"bytes_out"`
}

// Connection frames packets over a Socket.
//
// Receiving is driven by Next, Packets or Run and must happen on one goroutine
// at a time. Send may be called from any goroutine; it encodes, encrypts and
// queues the frame without touching the socket. The queue is drained by Run's
// writer or by Flush.
type Connection struct {
	id       uuid.UUID
	socket   Socket
	registry *packet.Registry
	logger   zerolog.Logger
	observer observers

	state     atomic.Int32
	closed    chan struct{}
	closeOnce sync.Once

	cipherMu sync.RWMutex
	cipher   crypto.Context

	// Receive state, owned by the reading goroutine.
	recvBuf  []byte
	recvFill int
	readErr  error

	// sendMu orders Send calls: frames are encrypted and queued under it.
	sendMu    sync.Mutex
	sendBuf   []byte
	sendSpare []byte
	flushMu   sync.Mutex
	wake      chan struct{}

	connectedAt  time.Time
	lastActivity atomic.Int64
	framesIn     atomic.Uint64
	framesOut    atomic.Uint64
	bytesIn      atomic.Uint64
	bytesOut     atomic.Uint64
}

// NewConnection wraps socket. The packet registry must be fully populated and
// is only read from then on.
func NewConnection(socket Socket, registry *packet.Registry, opts ...Option) *Connection {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.cipher == nil {
		o.cipher = crypto.NewEmptyContext()
	}
	base := log.Logger
	if o.logger != nil {
		base = *o.logger
	}

	now := time.Now()
	c := &Connection{
		id:          uuid.New(),
		socket:      socket,
		registry:    registry,
		observer:    o.observers,
		closed:      make(chan struct{}),
		cipher:      o.cipher,
		recvBuf:     make([]byte, recvBufferSize),
		sendBuf:     make([]byte, 0, recvBufferSize),
		wake:        make(chan struct{}, 1),
		connectedAt: now,
	}
	c.lastActivity.Store(now.UnixNano())
	c.logger = base.With().
		Str("component", "connection").
		Str("conn_id", c.id.String()).
		Str("remote", addrString(socket.RemoteAddr())).
		Logger()
	return c
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}

func (c *Connection) ID() uuid.UUID { return c.id }

func (c *Connection) State() State { return State(c.state.Load()) }

func (c *Connection) RemoteAddr() net.Addr { return c.socket.RemoteAddr() }

func (c *Connection) LocalAddr() net.Addr { return c.socket.LocalAddr() }

func (c *Connection) ConnectedAt() time.Time { return c.connectedAt }

// LastActivity returns the time a frame was last received or queued.
func (c *Connection) LastActivity() time.Time {
	return time.Unix(0, c.lastActivity.Load())
}

func (c *Connection) touch() {
	c.lastActivity.Store(time.Now().UnixNano())
}

func (c *Connection) Stats() Stats {
	return Stats{
		FramesIn:  c.framesIn.Load(),
		FramesOut: c.framesOut.Load(),
		BytesIn:   c.bytesIn.Load(),
		BytesOut:  c.bytesOut.Load(),
	}
}

// Logger returns the connection's logger.
func (c *Connection) Logger() *zerolog.Logger { return &c.logger }

// Cipher returns the active cipher context.
func (c *Connection) Cipher() crypto.Context {
	c.cipherMu.RLock()
	defer c.cipherMu.RUnlock()
	return c.cipher
}

// SetCipher replaces the cipher context. Frames queued before the call keep
// the encryption they were queued with; every later Send uses ctx.
func (c *Connection) SetCipher(ctx crypto.Context) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.cipherMu.Lock()
	c.cipher = ctx
	c.cipherMu.Unlock()

	c.logger.Debug().Str("cipher", ctx.Name()).Msg("cipher changed")
}

// Next blocks until the next packet is decoded. The first error moves the
// connection to StateDisconnected and is returned once; later calls return
// ErrDisconnected.
func (c *Connection) Next() (packet.Packet, error) {
	if c.State() == StateDisconnected {
		return nil, ErrDisconnected
	}

	p, err := c.recv()
	if err != nil {
		if c.State() == StateDisconnected {
			// Closed locally while reading.
			return nil, ErrDisconnected
		}
		c.fail(err)
		return nil, err
	}
	return p, nil
}

// Packets returns the received packets as a sequence. A terminal error is
// yielded as the last element; a local Close ends the sequence silently.
func (c *Connection) Packets() iter.Seq2[packet.Packet, error] {
	return func(yield func(packet.Packet, error) bool) {
		for {
			p, err := c.Next()
			if errors.Is(err, ErrDisconnected) {
				return
			}
			if !yield(p, err) || err != nil {
				return
			}
		}
	}
}

func (c *Connection) recv() (packet.Packet, error) {
	for {
		p, err := c.parseFrame()
		if err != nil || p != nil {
			return p, err
		}
		if c.readErr != nil {
			return nil, c.readErr
		}

		if len(c.recvBuf)-c.recvFill < recvBufferTail {
			c.recvBuf = append(c.recvBuf, make([]byte, recvBufferTail)...)
		}

		n, err := c.socket.Read(c.recvBuf[c.recvFill:])
		c.recvFill += n
		c.bytesIn.Add(uint64(n))
		if err != nil {
			// Bytes that arrived with the error are still parsed first.
			if errors.Is(err, io.EOF) {
				c.readErr = socketEOF()
			} else {
				c.readErr = recvError(err)
			}
		}
	}
}

// parseFrame decodes one frame from the front of the receive buffer. It
// returns a nil packet and nil error when more bytes are needed.
func (c *Connection) parseFrame() (packet.Packet, error) {
	if c.recvFill < HeaderSize {
		return nil, nil
	}

	length := binary.BigEndian.Uint32(c.recvBuf[0:4])
	if length < HeaderSize || length > MaxFrameSize {
		return nil, invalidPacketSize(int(length))
	}
	size := int(length)

	if c.recvFill < size {
		if len(c.recvBuf) < size {
			c.recvBuf = append(c.recvBuf, make([]byte, size-len(c.recvBuf))...)
		}
		return nil, nil
	}

	id := int32(binary.BigEndian.Uint32(c.recvBuf[4:8]))
	payload := c.recvBuf[HeaderSize:size]
	if err := c.Cipher().Decrypt(payload); err != nil {
		return nil, recvError(err)
	}

	rd := bytes.NewReader(payload)
	p, ok, err := c.registry.Decode(rd, id)
	if err != nil {
		return nil, decodeError(id, err)
	}
	if !ok {
		p = packet.NewUnknownPacket(id, bytes.Clone(payload))
	} else if rd.Len() > 0 {
		c.logger.Warn().
			Int32("packet_id", id).
			Int("left", rd.Len()).
			Msg("packet decoder did not read whole packet")
	}

	c.logger.Trace().
		Int32("packet_id", id).
		Int32("model_id", p.ModelID()).
		Str("packet", p.PacketName()).
		Int("payload", size-HeaderSize).
		Msg("<")

	copy(c.recvBuf, c.recvBuf[size:c.recvFill])
	c.recvFill -= size

	c.framesIn.Add(1)
	c.touch()
	c.observer.PacketReceived(c, p, size)
	return p, nil
}

// Send frames p, encrypts its payload and queues it. It does not wait for the
// socket; frames go out in the order Send was called.
func (c *Connection) Send(p packet.Packet) error {
	if c.State() == StateDisconnected {
		return ErrDisconnected
	}

	var buf bytes.Buffer
	buf.Write(make([]byte, HeaderSize))
	if u, ok := p.(*packet.UnknownPacket); ok {
		buf.Write(u.Payload)
	} else if err := c.registry.Encode(&buf, p); err != nil {
		return sendError(err)
	}

	frame := buf.Bytes()
	if len(frame) > MaxFrameSize {
		return invalidPacketSize(len(frame))
	}
	binary.BigEndian.PutUint32(frame[0:4], uint32(len(frame)))
	binary.BigEndian.PutUint32(frame[4:8], uint32(p.PacketID()))

	c.sendMu.Lock()
	if err := c.Cipher().Encrypt(frame[HeaderSize:]); err != nil {
		c.sendMu.Unlock()
		return sendError(err)
	}
	c.sendBuf = append(c.sendBuf, frame...)
	c.sendMu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}

	c.logger.Trace().
		Int32("packet_id", p.PacketID()).
		Int32("model_id", p.ModelID()).
		Str("packet", p.PacketName()).
		Int("payload", len(frame)-HeaderSize).
		Msg(">")

	c.framesOut.Add(1)
	c.touch()
	c.observer.PacketSent(c, p, len(frame))
	return nil
}

// Flush writes all queued frames to the socket, retrying partial writes.
func (c *Connection) Flush() error {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	for {
		c.sendMu.Lock()
		pending := c.sendBuf
		c.sendBuf = c.sendSpare[:0]
		c.sendMu.Unlock()

		if len(pending) == 0 {
			c.sendSpare = pending
			return nil
		}

		out := pending
		for len(out) > 0 {
			n, err := c.socket.Write(out)
			c.bytesOut.Add(uint64(n))
			out = out[n:]
			if err != nil {
				return sendError(err)
			}
		}
		c.sendSpare = pending[:0]
	}
}

func (c *Connection) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.closed:
			return nil
		case <-c.wake:
		}

		if err := c.Flush(); err != nil {
			c.fail(err)
			return err
		}
	}
}

// Run drives the connection until it disconnects or ctx is cancelled: one
// goroutine reads and dispatches packets to handler, another drains the send
// queue. The socket is closed on return. A local Close or cancellation is not
// reported as an error.
func (c *Connection) Run(ctx context.Context, handler PacketHandler) error {
	c.logger.Info().Msg("connection established")

	group, child := errgroup.WithContext(ctx)

	group.Go(func() error {
		for p, err := range c.Packets() {
			if err != nil {
				return err
			}
			if err := handler(child, c, p); err != nil {
				return err
			}
		}
		return nil
	})

	group.Go(func() error {
		return c.writeLoop(child)
	})

	group.Go(func() error {
		select {
		case <-child.Done():
		case <-c.closed:
		}
		c.Close()
		return nil
	})

	err := group.Wait()
	c.Close()

	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrSocketEndOfFile) {
		c.logger.Info().Msg("connection closed")
		return nil
	}
	c.logger.Warn().Err(err).Msg("connection closed with error")
	return err
}

// fail moves the connection to StateDisconnected because of err.
func (c *Connection) fail(err error) {
	if errors.Is(err, ErrSocketEndOfFile) {
		c.logger.Debug().Msg("peer closed the connection")
	} else {
		c.logger.Error().Err(err).Msg("connection error")
	}
	c.shutdown(err)
}

// Close disconnects and closes the socket. Queued frames that were not
// flushed are dropped. Safe to call more than once.
func (c *Connection) Close() error {
	return c.shutdown(nil)
}

func (c *Connection) shutdown(cause error) error {
	var err error
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateDisconnected))
		close(c.closed)
		err = c.socket.Close()
		c.observer.Disconnected(c, cause)
	})
	return err
}
