// Package metrics exports connection and packet counters to prometheus.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Assasans/protanki-server/internal/network"
	"github.com/Assasans/protanki-server/internal/packet"
)

// Config configures a Collector.
type Config struct {
	// Namespace prefixes every metric (default "protanki").
	Namespace string
	// Registry receives the collectors (default prometheus.DefaultRegisterer).
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// Collector records traffic for every connection it observes. It implements
// network.Observer.
type Collector struct {
	activeConnections prometheus.Gauge
	connectionsTotal  prometheus.Counter
	disconnects       *prometheus.CounterVec
	packets           *prometheus.CounterVec
	bytes             *prometheus.CounterVec
	frameSize         *prometheus.HistogramVec
}

func New(opts ...Option) *Collector {
	cfg := Config{
		Namespace: "protanki",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Collector{
		activeConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "active_connections",
			Help:      "Number of connected clients",
		}),
		connectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "connections_total",
			Help:      "Total number of accepted connections",
		}),
		disconnects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "disconnects_total",
			Help:      "Disconnections by cause",
		}, []string{"reason"}),
		packets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "packets_total",
			Help:      "Packets by direction and name",
		}, []string{"direction", "packet"}),
		bytes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "frame_bytes_total",
			Help:      "Frame bytes by direction, headers included",
		}, []string{"direction"}),
		frameSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "frame_size_bytes",
			Help:      "Frame size distribution",
			Buckets:   prometheus.ExponentialBuckets(8, 4, 8),
		}, []string{"direction"}),
	}
}

// Opened counts a new connection.
func (m *Collector) Opened(*network.Connection) {
	m.connectionsTotal.Inc()
	m.activeConnections.Inc()
}

func (m *Collector) record(direction string, p packet.Packet, size int) {
	m.packets.WithLabelValues(direction, p.PacketName()).Inc()
	m.bytes.WithLabelValues(direction).Add(float64(size))
	m.frameSize.WithLabelValues(direction).Observe(float64(size))
}

func (m *Collector) PacketReceived(_ *network.Connection, p packet.Packet, size int) {
	m.record("in", p, size)
}

func (m *Collector) PacketSent(_ *network.Connection, p packet.Packet, size int) {
	m.record("out", p, size)
}

func (m *Collector) Disconnected(_ *network.Connection, err error) {
	m.activeConnections.Dec()
	m.disconnects.WithLabelValues(Reason(err)).Inc()
}

// Reason classifies a terminal connection error for the disconnects metric.
func Reason(err error) string {
	switch {
	case err == nil:
		return "closed"
	case errors.Is(err, network.ErrSocketEndOfFile):
		return "eof"
	case errors.Is(err, network.ErrInvalidPacketSize):
		return "invalid_size"
	case errors.Is(err, network.ErrDecode):
		return "decode"
	case errors.Is(err, network.ErrRecv):
		return "recv"
	case errors.Is(err, network.ErrSend):
		return "send"
	default:
		return "other"
	}
}
