package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	result := Validate(DefaultConfig())
	if !result.IsValid() {
		t.Fatalf("default config invalid: %v", result.Errors)
	}
	if result.Err() != nil {
		t.Fatal("Err on a valid result")
	}
}

func TestLoadCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path() != filepath.Join(dir, DefaultConfigFile) {
		t.Errorf("path = %s", cfg.Path())
	}
	if _, err := os.Stat(cfg.Path()); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if cfg.GetServerData().Port != DefaultGamePort {
		t.Errorf("port = %d", cfg.GetServerData().Port)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	partial := `{"server": {"port": 4000}, "client": {"language": "en"}}`
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(partial), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	server := cfg.GetServerData()
	if server.Port != 4000 || server.ListenAddress != "0.0.0.0" {
		t.Errorf("server = %+v", server)
	}
	if cfg.GetClientData().Language != "en" || cfg.GetClientData().UsernameEnv != "PT_USERNAME" {
		t.Errorf("client = %+v", cfg.GetClientData())
	}

	// The re-saved file carries the defaults.
	data, err := os.ReadFile(cfg.Path())
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["application"]; !ok {
		t.Error("application section missing from re-saved file")
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("malformed config loaded")
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerData{ListenAddress: "::1", Port: 1337}
	if got := s.Addr(); got != "[::1]:1337" {
		t.Errorf("Addr = %s", got)
	}
}

func TestUpdateField(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.UpdateField("server", "port", 2000); err != nil {
		t.Fatal(err)
	}
	if cfg.GetServerData().Port != 2000 {
		t.Errorf("port = %d", cfg.GetServerData().Port)
	}

	if err := cfg.UpdateField("client", "language", "de"); err != nil {
		t.Fatal(err)
	}
	if cfg.GetClientData().Language != "de" {
		t.Errorf("language = %s", cfg.GetClientData().Language)
	}

	if err := cfg.UpdateField("server", "no_such_field", 1); err == nil {
		t.Error("unknown field accepted")
	}
	if err := cfg.UpdateField("nowhere", "port", 1); err == nil {
		t.Error("unknown section accepted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad port", func(c *Config) { c.ServerData.Port = 70000 }, "server.port"},
		{"tls without cert", func(c *Config) {
			c.ServerData.TLS = TLSConfig{Enabled: true}
		}, "server.tls.cert_file"},
		{"websocket path", func(c *Config) {
			c.ServerData.WebSocket = WebSocketConfig{Enabled: true, Path: "ws"}
		}, "server.websocket.path"},
		{"client address", func(c *Config) { c.ClientData.Address = "nowhere" }, "client.address"},
		{"mqtt broker", func(c *Config) {
			c.ApplicationData.MQTT.Enabled = true
			c.ApplicationData.MQTT.BrokerURL = " "
		}, "application.mqtt.broker_url"},
		{"rate limit", func(c *Config) { c.ApplicationData.API.RateLimitRPS = -1 }, "application.api.rate_limit_rps"},
		{"journal path", func(c *Config) {
			c.ApplicationData.Journal.Enabled = true
			c.ApplicationData.Journal.Path = ""
		}, "application.journal.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			result := Validate(cfg)
			if result.IsValid() {
				t.Fatal("config accepted")
			}
			found := false
			for _, e := range result.Errors {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for %s in %v", tt.field, result.Errors)
			}
		})
	}
}

func TestValidateWarnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ServerData.Port = 80
	cfg.ApplicationData.Logging.Level = "loud"
	cfg.ApplicationData.API.Token = "secret"

	result := Validate(cfg)
	if !result.IsValid() {
		t.Fatalf("errors: %v", result.Errors)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestSetupWizard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.path = filepath.Join(t.TempDir(), DefaultConfigFile)

	// Listen address, port, tls, websocket, client address, language, api
	// port, journal, mqtt.
	input := strings.Join([]string{"", "2500", "no", "yes", "", "en", "", "y", "n"}, "\n") + "\n"
	var out bytes.Buffer
	if err := RunSetupWizard(cfg, strings.NewReader(input), &out); err != nil {
		t.Fatalf("wizard: %v\n%s", err, out.String())
	}

	if cfg.ServerData.Port != 2500 || !cfg.ServerData.WebSocket.Enabled || cfg.ServerData.TLS.Enabled {
		t.Errorf("server = %+v", cfg.ServerData)
	}
	if cfg.ClientData.Language != "en" || !cfg.ApplicationData.Journal.Enabled {
		t.Errorf("client = %+v, journal = %+v", cfg.ClientData, cfg.ApplicationData.Journal)
	}
	if _, err := os.Stat(cfg.path); err != nil {
		t.Errorf("config not saved: %v", err)
	}
}
