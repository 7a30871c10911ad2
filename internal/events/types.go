// Package events carries connection lifecycle events between the network
// layer and the process's sinks (telemetry, logs).
package events

import "time"

// EventType names an event.
type EventType string

const (
	EventConnectionOpened   EventType = "connection_opened"
	EventConnectionClosed   EventType = "connection_closed"
	EventHandshakeCompleted EventType = "handshake_completed"
	EventLoginAttempt       EventType = "login_attempt"
	EventUnknownPacket      EventType = "unknown_packet"
	EventConfigChanged      EventType = "config_changed"
	EventHealthChanged      EventType = "health_changed"
	EventHeartbeat          EventType = "heartbeat"
	EventShutdown           EventType = "shutdown"
)

// Event is a single published event.
type Event struct {
	Type    EventType
	Source  string
	Time    time.Time
	Payload any
}

// ConnectionPayload describes a connection when it opens or closes.
type ConnectionPayload struct {
	ConnID   string `json:"conn_id"`
	Remote   string `json:"remote"`
	Cipher   string `json:"cipher"`
	FramesIn uint64 `json:"frames_in,omitempty"`
	BytesIn  uint64 `json:"bytes_in,omitempty"`
	// Error is the terminal error, empty for a clean close.
	Error string `json:"error,omitempty"`
}

// HandshakePayload is emitted when a client confirms encryption.
type HandshakePayload struct {
	ConnID string `json:"conn_id"`
	Lang   string `json:"lang"`
}

// LoginPayload is emitted for every login request.
type LoginPayload struct {
	ConnID string `json:"conn_id"`
	Login  string `json:"login"`
}

// UnknownPacketPayload is emitted for frames with no registered codec.
type UnknownPacketPayload struct {
	ConnID   string `json:"conn_id"`
	PacketID int32  `json:"packet_id"`
	Size     int    `json:"size"`
}

// ConfigChangedPayload is emitted when a configuration field is updated.
type ConfigChangedPayload struct {
	Section string `json:"section"`
	Key     string `json:"key"`
	Value   any    `json:"value"`
}

// HealthPayload is emitted when a health check changes status.
type HealthPayload struct {
	Check    string `json:"check"`
	Status   string `json:"status"`
	Previous string `json:"previous"`
	Message  string `json:"message"`
}

// HeartbeatPayload is emitted periodically while the server runs.
type HeartbeatPayload struct {
	Connections int  `json:"connections"`
	Packets     int  `json:"packets"`
	Healthy     bool `json:"healthy"`
}
