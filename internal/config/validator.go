package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationResult holds the results of configuration validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) AddError(field, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

func (r *ValidationResult) AddWarning(field, message string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Message: message})
}

// Err returns the first error, or nil when the configuration is valid.
func (r *ValidationResult) Err() error {
	if r.IsValid() {
		return nil
	}
	return r.Errors[0]
}

// LogWarnings writes every warning to the global logger.
func (r *ValidationResult) LogWarnings() {
	for _, w := range r.Warnings {
		log.Warn().Str("field", w.Field).Msg(w.Message)
	}
}

// Validate checks the whole configuration.
func Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	validateServerData(&cfg.ServerData, result)
	validateClientData(&cfg.ClientData, result)
	validateApplicationData(&cfg.ApplicationData, result)

	return result
}

func validateServerData(data *ServerData, result *ValidationResult) {
	if data.ListenAddress != "" && net.ParseIP(data.ListenAddress) == nil {
		result.AddWarning("server.listen_address",
			fmt.Sprintf("%q is not an IP address and will be resolved", data.ListenAddress))
	}
	validatePort(data.Port, "server.port", result)

	if data.TLS.Enabled && !data.TLS.AutoGenerate {
		if strings.TrimSpace(data.TLS.CertFile) == "" {
			result.AddError("server.tls.cert_file", "certificate file is required when TLS is enabled")
		} else if _, err := os.Stat(data.TLS.CertFile); os.IsNotExist(err) {
			result.AddError("server.tls.cert_file", fmt.Sprintf("file does not exist: %s", data.TLS.CertFile))
		}
		if strings.TrimSpace(data.TLS.KeyFile) == "" {
			result.AddError("server.tls.key_file", "key file is required when TLS is enabled")
		}
	}

	if data.WebSocket.Enabled && !strings.HasPrefix(data.WebSocket.Path, "/") {
		result.AddError("server.websocket.path", "path must start with /")
	}

	if data.StaleTimeoutSec < 0 {
		result.AddError("server.stale_timeout_sec", "must not be negative")
	} else if data.StaleTimeoutSec > 0 && data.StaleTimeoutSec < 10 {
		result.AddWarning("server.stale_timeout_sec",
			"stale timeout less than 10 seconds may drop idle clients")
	}
}

func validateClientData(data *ClientData, result *ValidationResult) {
	if _, _, err := net.SplitHostPort(data.Address); err != nil {
		result.AddError("client.address", fmt.Sprintf("invalid address %q: %v", data.Address, err))
	}
	if strings.TrimSpace(data.UsernameEnv) == "" {
		result.AddError("client.username_env", "username environment variable name is required")
	}
	if strings.TrimSpace(data.PasswordEnv) == "" {
		result.AddError("client.password_env", "password environment variable name is required")
	}
	if data.Language == "" {
		result.AddWarning("client.language", "no language is sent during the handshake")
	}
	if data.InsecureSkipVerify && !data.UseTLS {
		result.AddWarning("client.insecure_skip_verify", "has no effect without use_tls")
	}
}

func validateApplicationData(data *ApplicationData, result *ValidationResult) {
	if data.API.Enabled {
		validatePort(data.API.Port, "application.api.port", result)
		if data.API.RateLimitRPS < 0 {
			result.AddError("application.api.rate_limit_rps", "must not be negative")
		}
		if data.API.Token == "" {
			result.AddWarning("application.api.token", "admin API is unauthenticated")
		}
	}

	if data.MQTT.Enabled {
		if strings.TrimSpace(data.MQTT.BrokerURL) == "" {
			result.AddError("application.mqtt.broker_url", "MQTT broker URL is required when enabled")
		}
		if data.MQTT.Port < 1 || data.MQTT.Port > 65535 {
			result.AddError("application.mqtt.port", "invalid MQTT port")
		}
	}

	if data.Journal.Enabled && strings.TrimSpace(data.Journal.Path) == "" {
		result.AddError("application.journal.path", "journal path is required when enabled")
	}
	if data.Journal.RetentionDays < 0 {
		result.AddError("application.journal.retention_days", "must not be negative")
	}
	if data.Journal.CleanupTime != "" {
		if _, err := time.Parse("15:04", data.Journal.CleanupTime); err != nil {
			result.AddWarning("application.journal.cleanup_time",
				fmt.Sprintf("%q is not HH:MM, 04:00 will be used", data.Journal.CleanupTime))
		}
	}

	if data.Health.CheckIntervalSec < 0 {
		result.AddError("application.health.check_interval_sec", "must not be negative")
	}
	if data.Health.HeartbeatIntervalSec < 0 {
		result.AddError("application.health.heartbeat_interval_sec", "must not be negative")
	}

	switch strings.ToLower(data.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled", "":
	default:
		result.AddWarning("application.logging.level",
			fmt.Sprintf("unknown level %q, info will be used", data.Logging.Level))
	}
}

func validatePort(port int, field string, result *ValidationResult) {
	if port < 1 || port > 65535 {
		result.AddError(field, fmt.Sprintf("invalid port number: %d (must be 1-65535)", port))
		return
	}
	if port < 1024 {
		result.AddWarning(field,
			fmt.Sprintf("port %d is a privileged port, may require elevated permissions", port))
	}
}

// IsPortAvailable checks if a port is available for binding.
func IsPortAvailable(port int) bool {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	ln.Close()
	return true
}
