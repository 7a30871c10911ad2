package cli

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Assasans/protanki-server/internal/config"
	"github.com/Assasans/protanki-server/internal/events"
	"github.com/Assasans/protanki-server/internal/network"
	"github.com/Assasans/protanki-server/internal/packet"
	"github.com/Assasans/protanki-server/internal/packet/packets"
)

func newConsole(t *testing.T) (*Console, *config.Config, *network.Server) {
	t.Helper()
	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	registry := packet.NewRegistry()
	packets.Register(registry)
	game := network.NewServer("127.0.0.1:0", nil, registry, network.WithLogger(zerolog.Nop()))
	return NewConsole(cfg, events.NewBus(), game), cfg, game
}

func run(t *testing.T, c *Console, input string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	err := c.Run(ctx, strings.NewReader(input), &out)
	return out.String(), err
}

func TestConsoleCommands(t *testing.T) {
	c, cfg, _ := newConsole(t)

	out, err := run(t, c, "status\npackets\nbogus\nsetconfig client language en\nsetconfig server port 70000\nquit\nstatus\n")
	if !errors.Is(err, ErrQuit) {
		t.Fatalf("Run = %v, want ErrQuit", err)
	}

	for _, want := range []string{
		"Connections:  0",
		"s2c.session.InitializeEncryption",
		"Unknown command: 'bogus'",
		"Config updated: client.language = en",
		"Error: config validation error [server.port]",
		"Shutting down...",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if cfg.GetClientData().Language != "en" {
		t.Errorf("language = %s", cfg.GetClientData().Language)
	}
	if cfg.GetServerData().Port != config.DefaultGamePort {
		t.Errorf("invalid port applied: %d", cfg.GetServerData().Port)
	}
}

func TestConsoleEndOfInput(t *testing.T) {
	c, _, _ := newConsole(t)
	if _, err := run(t, c, "help\n"); err != nil {
		t.Fatalf("Run = %v, want nil at end of input", err)
	}
}

func TestConsoleKick(t *testing.T) {
	c, _, game := newConsole(t)

	server, client := net.Pipe()
	defer client.Close()
	conn := game.NewConnection(server)
	game.Connections().Register(conn)

	out, _ := run(t, c, "conns\nkick nope\nkick "+conn.ID().String()+"\n")
	if !strings.Contains(out, conn.ID().String()) {
		t.Errorf("connection table missing id:\n%s", out)
	}
	if !strings.Contains(out, "invalid connection id") {
		t.Errorf("bad id accepted:\n%s", out)
	}
	if game.Connections().Count() != 0 {
		t.Error("connection still registered")
	}
	if conn.State() != network.StateDisconnected {
		t.Errorf("state = %s", conn.State())
	}
}
