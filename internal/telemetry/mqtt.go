// Package telemetry publishes connection lifecycle events to an MQTT broker.
package telemetry

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Assasans/protanki-server/internal/config"
	"github.com/Assasans/protanki-server/internal/events"
	"github.com/Assasans/protanki-server/internal/util"
)

// Topic suffixes under the configured prefix.
const (
	TopicConnections = "connections"
	TopicAuth        = "auth"
	TopicProtocol    = "protocol"
	TopicStatus      = "status"
)

// ErrDisabled is returned by NewPublisher when MQTT is disabled.
var ErrDisabled = errors.New("MQTT is disabled")

// Publisher forwards bus events to MQTT as JSON messages.
type Publisher struct {
	cfg    config.MQTTConfig
	bus    *events.Bus
	client mqtt.Client
	logger zerolog.Logger

	// metadata is merged into every message.
	metadata map[string]any
}

// NewPublisher configures a client for cfg without connecting.
func NewPublisher(cfg config.MQTTConfig, bus *events.Bus, version string) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	sysInfo := util.GetSystemInfo()
	p := newPublisher(cfg, bus, map[string]any{
		"hostname":    sysInfo.Hostname,
		"platform":    sysInfo.Platform,
		"app_version": version,
	})

	scheme := "tcp"
	if cfg.UseTLS {
		scheme = "ssl"
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.BrokerURL, cfg.Port))

	if cfg.ClientID != "" {
		opts.SetClientID(cfg.ClientID)
	} else {
		opts.SetClientID(fmt.Sprintf("protanki-%s", sysInfo.Hostname))
	}

	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetCleanSession(true)

	if cfg.UseTLS {
		tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
		if cfg.CertFile != "" && cfg.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
			if err != nil {
				return nil, errors.Wrap(err, "failed to load MQTT TLS certificate")
			}
			tlsConfig.Certificates = []tls.Certificate{cert}
		}
		opts.SetTLSConfig(tlsConfig)
	}

	opts.SetOnConnectHandler(func(mqtt.Client) {
		p.logger.Info().Msg("MQTT connected")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		p.logger.Warn().Err(err).Msg("MQTT connection lost")
	})

	p.client = mqtt.NewClient(opts)
	return p, nil
}

func newPublisher(cfg config.MQTTConfig, bus *events.Bus, metadata map[string]any) *Publisher {
	return &Publisher{
		cfg:      cfg,
		bus:      bus,
		metadata: metadata,
		logger:   log.With().Str("component", "telemetry").Logger(),
	}
}

// Start connects to the broker, forwards events until ctx is cancelled, then
// announces the shutdown and disconnects.
func (p *Publisher) Start(ctx context.Context) error {
	p.logger.Info().
		Str("broker", p.cfg.BrokerURL).
		Int("port", p.cfg.Port).
		Msg("connecting to MQTT broker")

	token := p.client.Connect()
	if token.Wait() && token.Error() != nil {
		return errors.Wrap(token.Error(), "MQTT connect failed")
	}

	p.subscribe()
	p.publish(TopicStatus, map[string]any{"event": "started"})

	<-ctx.Done()

	p.unsubscribe()
	p.publish(TopicStatus, map[string]any{"event": "shutdown"})
	p.client.Disconnect(5000)
	p.logger.Info().Msg("MQTT disconnected")
	return nil
}

var routes = map[events.EventType]string{
	events.EventConnectionOpened:   TopicConnections,
	events.EventConnectionClosed:   TopicConnections,
	events.EventHandshakeCompleted: TopicAuth,
	events.EventLoginAttempt:       TopicAuth,
	events.EventUnknownPacket:      TopicProtocol,
	events.EventConfigChanged:      TopicStatus,
	events.EventHealthChanged:      TopicStatus,
	events.EventHeartbeat:          TopicStatus,
}

func (p *Publisher) subscribe() {
	for eventType := range routes {
		p.bus.Subscribe(eventType, "mqtt", p.onEvent)
	}
}

func (p *Publisher) unsubscribe() {
	for eventType := range routes {
		p.bus.Unsubscribe(eventType, "mqtt")
	}
}

func (p *Publisher) onEvent(_ context.Context, event events.Event) error {
	topic, ok := routes[event.Type]
	if !ok {
		return nil
	}
	p.publish(topic, map[string]any{
		"event":   string(event.Type),
		"source":  event.Source,
		"payload": event.Payload,
	})
	return nil
}

func (p *Publisher) topic(suffix string) string {
	if p.cfg.TopicPrefix == "" {
		return suffix
	}
	return p.cfg.TopicPrefix + "/" + suffix
}

// publish sends payload merged with the metadata to the topic suffix.
func (p *Publisher) publish(suffix string, payload map[string]any) {
	if !p.client.IsConnected() {
		return
	}

	topic := p.topic(suffix)
	data, err := json.Marshal(p.buildMessage(payload))
	if err != nil {
		p.logger.Warn().Err(err).Str("topic", topic).Msg("failed to marshal MQTT message")
		return
	}

	token := p.client.Publish(topic, 1, false, data)
	go func() {
		token.Wait()
		if token.Error() != nil {
			p.logger.Warn().Err(token.Error()).Str("topic", topic).Msg("MQTT publish failed")
		}
	}()
}

func (p *Publisher) buildMessage(payload map[string]any) map[string]any {
	msg := make(map[string]any, len(p.metadata)+len(payload)+1)
	for k, v := range p.metadata {
		msg[k] = v
	}
	for k, v := range payload {
		msg[k] = v
	}
	msg["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	return msg
}
