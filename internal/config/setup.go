package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RunSetupWizard prompts for the most common settings on in, writing prompts
// to out, then validates and saves cfg.
func RunSetupWizard(cfg *Config, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	p := prompter{reader: reader, out: out}

	fmt.Fprintln(out, "protanki setup")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "── Game Server ──")
	cfg.ServerData.ListenAddress = p.askString("Listen address", cfg.ServerData.ListenAddress)
	cfg.ServerData.Port = p.askInt("Game port", cfg.ServerData.Port)
	cfg.ServerData.TLS.Enabled = p.askBool("Enable TLS", cfg.ServerData.TLS.Enabled)
	cfg.ServerData.WebSocket.Enabled = p.askBool("Enable websocket transport", cfg.ServerData.WebSocket.Enabled)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "── Reference Client ──")
	cfg.ClientData.Address = p.askString("Server address", cfg.ClientData.Address)
	cfg.ClientData.Language = p.askString("Language", cfg.ClientData.Language)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "── Application ──")
	cfg.ApplicationData.API.Port = p.askInt("Admin API port", cfg.ApplicationData.API.Port)
	cfg.ApplicationData.Journal.Enabled = p.askBool("Enable packet journal", cfg.ApplicationData.Journal.Enabled)
	cfg.ApplicationData.MQTT.Enabled = p.askBool("Enable MQTT telemetry", cfg.ApplicationData.MQTT.Enabled)
	if cfg.ApplicationData.MQTT.Enabled {
		cfg.ApplicationData.MQTT.BrokerURL = p.askString("MQTT broker host", cfg.ApplicationData.MQTT.BrokerURL)
		cfg.ApplicationData.MQTT.Port = p.askInt("MQTT broker port", cfg.ApplicationData.MQTT.Port)
	}

	result := Validate(cfg)
	if !result.IsValid() {
		fmt.Fprintln(out, "\nConfiguration has errors:")
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  - [%s] %s\n", e.Field, e.Message)
		}
		return errors.New("configuration validation failed")
	}
	result.LogWarnings()

	if err := cfg.Save(); err != nil {
		return errors.Wrap(err, "failed to save configuration")
	}

	fmt.Fprintf(out, "\nConfiguration saved to %s\n", cfg.Path())
	return nil
}

type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func (p prompter) line() string {
	input, _ := p.reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func (p prompter) askString(prompt, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(p.out, "  %s [%s]: ", prompt, defaultVal)
	} else {
		fmt.Fprintf(p.out, "  %s: ", prompt)
	}

	if input := p.line(); input != "" {
		return input
	}
	return defaultVal
}

func (p prompter) askInt(prompt string, defaultVal int) int {
	fmt.Fprintf(p.out, "  %s [%d]: ", prompt, defaultVal)

	input := p.line()
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil {
		fmt.Fprintf(p.out, "    Invalid number, using default: %d\n", defaultVal)
		return defaultVal
	}
	return val
}

func (p prompter) askBool(prompt string, defaultVal bool) bool {
	defaultStr := "no"
	if defaultVal {
		defaultStr = "yes"
	}
	fmt.Fprintf(p.out, "  %s [%s]: ", prompt, defaultStr)

	input := strings.ToLower(p.line())
	if input == "" {
		return defaultVal
	}
	return input == "yes" || input == "y" || input == "true" || input == "1"
}
