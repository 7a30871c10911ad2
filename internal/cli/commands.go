// Package cli implements the interactive operator console of the game
// server and the table renderers shared with the command-line tool.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/Assasans/protanki-server/internal/config"
	"github.com/Assasans/protanki-server/internal/events"
	"github.com/Assasans/protanki-server/internal/network"
	"github.com/Assasans/protanki-server/internal/packet"
)

// ErrQuit is returned by Run when the operator asks to stop the server.
var ErrQuit = errors.New("quit requested")

// Console reads operator commands line by line.
type Console struct {
	cfg  *config.Config
	bus  *events.Bus
	game *network.Server
	out  io.Writer
}

func NewConsole(cfg *config.Config, bus *events.Bus, game *network.Server) *Console {
	return &Console{
		cfg:  cfg,
		bus:  bus,
		game: game,
	}
}

// Run executes commands read from in until ctx is cancelled, in is exhausted
// or the operator quits. Input is read on a separate goroutine, so a blocked
// read does not delay cancellation.
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	c.out = out
	fmt.Fprintln(out, "\nprotanki console ready. Type 'help' for available commands.")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(out, "protanki> ")
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			parts := strings.Fields(line)
			if len(parts) == 0 {
				continue
			}
			err := c.execute(ctx, strings.ToLower(parts[0]), parts[1:])
			if errors.Is(err, ErrQuit) {
				return err
			}
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
		}
	}
}

func (c *Console) execute(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help", "h", "?":
		c.printHelp()
	case "status", "s":
		c.printStatus()
	case "conns", "connections":
		WriteConnectionTable(c.out, c.game.Connections().Snapshot())
	case "packets":
		WritePacketTable(c.out, c.game.Packets().Entries())
	case "kick":
		return c.cmdKick(args)
	case "setconfig":
		return c.cmdSetConfig(ctx, args)
	case "quit", "exit", "q":
		fmt.Fprintln(c.out, "Shutting down...")
		return ErrQuit
	default:
		fmt.Fprintf(c.out, "Unknown command: '%s'. Type 'help' for available commands.\n", cmd)
	}
	return nil
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
  status                       Show listener and connection summary
  conns                        List live connections
  packets                      List registered packets
  kick <conn-id>               Disconnect a client
  setconfig <sec> <key> <val>  Update a configuration value
  quit                         Stop the server
  help                         Show this help message`)
}

func (c *Console) printStatus() {
	listen := "-"
	if addr := c.game.Addr(); addr != nil {
		listen = addr.String()
	}
	fmt.Fprintf(c.out, "\n  Listening:    %s\n", listen)
	fmt.Fprintf(c.out, "  Connections:  %d\n", c.game.Connections().Count())
	fmt.Fprintf(c.out, "  Packets:      %d\n\n", c.game.Packets().Len())
}

func (c *Console) cmdKick(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: kick <conn-id>")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return errors.Errorf("invalid connection id: %s", args[0])
	}

	registry := c.game.Connections()
	if _, ok := registry.Get(id); !ok {
		return errors.Errorf("connection %s not found", id)
	}
	registry.Unregister(id)
	fmt.Fprintf(c.out, "Disconnected %s\n", id)
	return nil
}

// cmdSetConfig updates one field. The value is parsed as JSON so numbers and
// booleans keep their type; anything else is taken as a string.
func (c *Console) cmdSetConfig(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errors.New("usage: setconfig <section> <key> <value>")
	}
	section, key := args[0], args[1]
	raw := strings.Join(args[2:], " ")

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}

	candidate := c.cfg.Clone()
	if err := candidate.UpdateField(section, key, value); err != nil {
		return err
	}
	if err := config.Validate(candidate).Err(); err != nil {
		return err
	}
	c.cfg.Apply(candidate)
	if err := c.cfg.Save(); err != nil {
		return err
	}

	c.bus.Emit(ctx, events.Event{
		Type:    events.EventConfigChanged,
		Source:  "cli",
		Time:    time.Now(),
		Payload: events.ConfigChangedPayload{Section: section, Key: key, Value: value},
	})
	fmt.Fprintf(c.out, "Config updated: %s.%s = %v\n", section, key, value)
	return nil
}

// WritePacketTable renders entries as a table.
func WritePacketTable(w io.Writer, entries []packet.Entry) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"ID", "Model", "Name"})
	tw.SetBorder(true)
	tw.SetAutoWrapText(false)

	for _, e := range entries {
		tw.Append([]string{
			fmt.Sprintf("%d", e.ID),
			fmt.Sprintf("%d", e.ModelID),
			e.Name,
		})
	}
	tw.Render()
}

// WriteConnectionTable renders live connections as a table.
func WriteConnectionTable(w io.Writer, conns []network.ConnectionInfo) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"ID", "Remote", "State", "Cipher", "Frames In", "Frames Out", "Idle"})
	tw.SetBorder(true)
	tw.SetAutoWrapText(false)

	now := time.Now()
	for _, info := range conns {
		tw.Append([]string{
			info.ID,
			info.Remote,
			info.State,
			info.Cipher,
			fmt.Sprintf("%d", info.Stats.FramesIn),
			fmt.Sprintf("%d", info.Stats.FramesOut),
			now.Sub(info.LastActivity).Truncate(time.Second).String(),
		})
	}
	tw.Render()
}
