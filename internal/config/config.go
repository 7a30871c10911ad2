// Package config handles configuration loading, validation, and persistence
// for the protanki server and reference client.
package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultConfigDir  = "config"
	DefaultConfigFile = "config.json"
	DefaultGamePort   = 1337
	DefaultAPIPort    = 5000
)

// Config is the root configuration structure.
type Config struct {
	mu   sync.RWMutex
	path string

	ServerData      ServerData      `json:"server"`
	ClientData      ClientData      `json:"client"`
	ApplicationData ApplicationData `json:"application"`
}

// ServerData configures the game server listener.
type ServerData struct {
	ListenAddress   string          `json:"listen_address"`
	Port            int             `json:"port"`
	TLS             TLSConfig       `json:"tls"`
	WebSocket       WebSocketConfig `json:"websocket"`
	StaleTimeoutSec int             `json:"stale_timeout_sec"`
	// Dependencies is the resource manifest sent to clients after the
	// handshake.
	Dependencies string `json:"dependencies"`
}

// Addr returns the host:port the game server binds.
func (s ServerData) Addr() string {
	return net.JoinHostPort(s.ListenAddress, strconv.Itoa(s.Port))
}

// TLSConfig holds certificate settings for the game listener.
type TLSConfig struct {
	Enabled bool   `json:"enabled"`
	// AutoGenerate creates a self-signed certificate when the files are
	// missing.
	AutoGenerate bool   `json:"auto_generate"`
	CertFile     string `json:"cert_file"`
	KeyFile      string `json:"key_file"`
}

// WebSocketConfig enables the websocket transport on the API server.
type WebSocketConfig struct {
	Enabled        bool     `json:"enabled"`
	Path           string   `json:"path"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// ClientData configures the reference client used by the connect command.
type ClientData struct {
	Address            string `json:"address"`
	Language           string `json:"language"`
	UsernameEnv        string `json:"username_env"`
	PasswordEnv        string `json:"password_env"`
	UseTLS             bool   `json:"use_tls"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify"`
}

// ApplicationData contains process-level configuration.
type ApplicationData struct {
	API     APIConfig     `json:"api"`
	MQTT    MQTTConfig    `json:"mqtt"`
	Journal JournalConfig `json:"journal"`
	Metrics MetricsConfig `json:"metrics"`
	Health  HealthConfig  `json:"health"`
	Logging LoggingConfig `json:"logging"`
}

// APIConfig holds admin API settings.
type APIConfig struct {
	Enabled        bool     `json:"enabled"`
	Port           int      `json:"port"`
	AllowedOrigins []string `json:"allowed_origins"`
	RateLimitRPS   int      `json:"rate_limit_rps"`
	// Token protects every /api endpoint except /api/public. Empty disables
	// the check.
	Token string `json:"token"`
}

// MQTTConfig holds MQTT telemetry settings.
type MQTTConfig struct {
	Enabled     bool   `json:"enabled"`
	BrokerURL   string `json:"broker_url"`
	Port        int    `json:"port"`
	UseTLS      bool   `json:"use_tls"`
	CertFile    string `json:"cert_file"`
	KeyFile     string `json:"key_file"`
	ClientID    string `json:"client_id"`
	TopicPrefix string `json:"topic_prefix"`
}

// JournalConfig controls the packet journal database.
type JournalConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
	// RetentionDays removes older rows on startup and daily at
	// CleanupTime ("HH:MM", local time). Zero keeps everything.
	RetentionDays int    `json:"retention_days"`
	CleanupTime   string `json:"cleanup_time"`
}

// MetricsConfig controls the prometheus collectors.
type MetricsConfig struct {
	Enabled bool `json:"enabled"`
}

// HealthConfig controls the self health checks. Zero intervals disable them.
type HealthConfig struct {
	CheckIntervalSec     int `json:"check_interval_sec"`
	HeartbeatIntervalSec int `json:"heartbeat_interval_sec"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `json:"level"`
	Directory  string `json:"directory"`
	MaxBackups int    `json:"max_backups"`
	Console    bool   `json:"console"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ServerData: ServerData{
			ListenAddress: "0.0.0.0",
			Port:          DefaultGamePort,
			TLS: TLSConfig{
				AutoGenerate: true,
				CertFile:     "config/server.crt",
				KeyFile:      "config/server.key",
			},
			WebSocket: WebSocketConfig{
				Path: "/ws",
			},
			StaleTimeoutSec: 300,
			Dependencies:    `{"resources":[]}`,
		},
		ClientData: ClientData{
			Address:     fmt.Sprintf("127.0.0.1:%d", DefaultGamePort),
			Language:    "ru",
			UsernameEnv: "PT_USERNAME",
			PasswordEnv: "PT_PASSWORD",
		},
		ApplicationData: ApplicationData{
			API: APIConfig{
				Enabled:      true,
				Port:         DefaultAPIPort,
				RateLimitRPS: 20,
			},
			MQTT: MQTTConfig{
				BrokerURL:   "localhost",
				Port:        1883,
				TopicPrefix: "protanki",
			},
			Journal: JournalConfig{
				Path:          "data/journal.db",
				RetentionDays: 7,
				CleanupTime:   "04:00",
			},
			Metrics: MetricsConfig{
				Enabled: true,
			},
			Health: HealthConfig{
				CheckIntervalSec:     30,
				HeartbeatIntervalSec: 60,
			},
			Logging: LoggingConfig{
				Level:      "info",
				Directory:  "logs",
				MaxBackups: 5,
				Console:    true,
			},
		},
	}
}

// Load reads configuration from a JSON file, creating it with defaults when
// it does not exist.
func Load(configDir string) (*Config, error) {
	configPath := filepath.Join(configDir, DefaultConfigFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", configPath).Msg("config file not found, creating default")
			cfg := DefaultConfig()
			cfg.path = configPath
			if saveErr := cfg.Save(); saveErr != nil {
				return nil, errors.Wrap(saveErr, "failed to save default config")
			}
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", configPath)
	}

	cfg.path = configPath
	log.Info().Str("path", configPath).Msg("configuration loaded")

	// Persist fields added since the file was written.
	if saveErr := cfg.Save(); saveErr != nil {
		log.Warn().Err(saveErr).Msg("failed to re-save config with updated defaults")
	}

	return cfg, nil
}

// Save writes the current configuration to disk.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	log.Debug().Str("path", c.path).Msg("configuration saved")
	return nil
}

func (c *Config) GetServerData() ServerData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ServerData
}

func (c *Config) GetClientData() ClientData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ClientData
}

func (c *Config) GetApplicationData() ApplicationData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ApplicationData
}

// Clone returns a deep copy of c bound to the same file.
func (c *Config) Clone() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	clone := &Config{path: c.path}
	// The sections only hold JSON-encodable values, so a round trip copies
	// the slices too.
	data, err := json.Marshal(c)
	if err == nil {
		err = json.Unmarshal(data, clone)
	}
	if err != nil {
		panic(fmt.Sprintf("config: clone: %v", err))
	}
	return clone
}

// Apply replaces the sections of c with those of other.
func (c *Config) Apply(other *Config) {
	updated := other.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ServerData = updated.ServerData
	c.ClientData = updated.ClientData
	c.ApplicationData = updated.ApplicationData
}

// UpdateField sets one JSON field of a section ("server", "client" or
// "application") by its JSON name.
func (c *Config) UpdateField(section, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var target any
	switch section {
	case "server":
		target = &c.ServerData
	case "client":
		target = &c.ClientData
	case "application":
		target = &c.ApplicationData
	default:
		return errors.Errorf("unknown config section %q", section)
	}

	data, err := json.Marshal(target)
	if err != nil {
		return errors.Wrap(err, "failed to marshal section")
	}
	m := make(map[string]any)
	if err := json.Unmarshal(data, &m); err != nil {
		return errors.Wrap(err, "failed to unmarshal section")
	}
	if _, ok := m[key]; !ok {
		return errors.Errorf("unknown field %s.%s", section, key)
	}

	m[key] = value

	updated, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "failed to marshal section")
	}
	if err := json.Unmarshal(updated, target); err != nil {
		return errors.Wrapf(err, "failed to update field %s.%s", section, key)
	}
	return nil
}

// Path returns the config file path.
func (c *Config) Path() string {
	return c.path
}
