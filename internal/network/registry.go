package network

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Assasans/protanki-server/internal/packet"
)

// ConnectionInfo is a point-in-time description of a live connection.
type ConnectionInfo struct {
	ID           string    `json:"id"`
	Remote       string    `json:"remote"`
	Local        string    `json:"local"`
	State        string    `json:"state"`
	Cipher       string    `json:"cipher"`
	ConnectedAt  time.Time `json:"connected_at"`
	LastActivity time.Time `json:"last_activity"`
	Stats        Stats     `json:"stats"`
}

// Info describes c.
func (c *Connection) Info() ConnectionInfo {
	return ConnectionInfo{
		ID:           c.id.String(),
		Remote:       addrString(c.RemoteAddr()),
		Local:        addrString(c.LocalAddr()),
		State:        c.State().String(),
		Cipher:       c.Cipher().Name(),
		ConnectedAt:  c.connectedAt,
		LastActivity: c.LastActivity(),
		Stats:        c.Stats(),
	}
}

// ConnectionRegistry tracks live connections by id.
type ConnectionRegistry struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*Connection
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		conns: make(map[uuid.UUID]*Connection),
	}
}

// Register adds a connection to the registry.
func (r *ConnectionRegistry) Register(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conns[c.ID()] = c
	log.Debug().Str("conn_id", c.ID().String()).Msg("connection registered")
}

// Unregister removes a connection from the registry and closes it.
func (r *ConnectionRegistry) Unregister(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.conns[id]; ok {
		c.Close()
		delete(r.conns, id)
		log.Debug().Str("conn_id", id.String()).Msg("connection unregistered")
	}
}

func (r *ConnectionRegistry) Get(id uuid.UUID) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[id]
	return c, ok
}

// Snapshot describes every registered connection, oldest first.
func (r *ConnectionRegistry) Snapshot() []ConnectionInfo {
	r.mu.RLock()
	infos := make([]ConnectionInfo, 0, len(r.conns))
	for _, c := range r.conns {
		infos = append(infos, c.Info())
	}
	r.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ConnectedAt.Before(infos[j].ConnectedAt)
	})
	return infos
}

func (r *ConnectionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// CloseAll closes and removes every connection.
func (r *ConnectionRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.conns {
		c.Close()
		delete(r.conns, id)
	}

	log.Info().Msg("all connections closed")
}

// CleanStale closes connections with no traffic for longer than timeout.
func (r *ConnectionRegistry) CleanStale(timeout time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cleaned := 0
	cutoff := time.Now().Add(-timeout)

	for id, c := range r.conns {
		if c.LastActivity().Before(cutoff) {
			c.Close()
			delete(r.conns, id)
			cleaned++
			log.Warn().
				Str("conn_id", id.String()).
				Time("last_activity", c.LastActivity()).
				Msg("cleaned stale connection")
		}
	}

	return cleaned
}

// Broadcast queues p on every registered connection and returns how many
// accepted it.
func (r *ConnectionRegistry) Broadcast(p packet.Packet) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sent := 0
	for id, c := range r.conns {
		if err := c.Send(p); err != nil {
			log.Warn().Err(err).Str("conn_id", id.String()).Msg("failed to broadcast packet")
			continue
		}
		sent++
	}
	return sent
}
