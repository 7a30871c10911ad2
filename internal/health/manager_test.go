package health

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Assasans/protanki-server/internal/config"
	"github.com/Assasans/protanki-server/internal/events"
	"github.com/Assasans/protanki-server/internal/journal"
	"github.com/Assasans/protanki-server/internal/network"
	"github.com/Assasans/protanki-server/internal/packet"
	"github.com/Assasans/protanki-server/internal/packet/packets"
	"github.com/Assasans/protanki-server/internal/util"
)

func newGame() *network.Server {
	registry := packet.NewRegistry()
	packets.Register(registry)
	return network.NewServer("127.0.0.1:0", nil, registry, network.WithLogger(zerolog.Nop()))
}

func resultFor(t *testing.T, m *Manager, name string) Result {
	t.Helper()
	for _, r := range m.Results() {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no result for %s", name)
	return Result{}
}

func TestListenerCheck(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus()
	changes := make(chan events.HealthPayload, 4)
	bus.Subscribe(events.EventHealthChanged, "test", func(_ context.Context, e events.Event) error {
		changes <- e.Payload.(events.HealthPayload)
		return nil
	})

	game := newGame()
	m := NewManager(config.DefaultConfig(), bus, game, nil)
	m.memoryPercent = func() float64 { return 10 }

	m.RunOnce(ctx)
	if r := resultFor(t, m, "listener"); r.Status != StatusFailing {
		t.Fatalf("listener = %+v", r)
	}
	if m.Healthy() {
		t.Error("healthy without a listener")
	}
	select {
	case p := <-changes:
		if p.Check != "listener" || p.Status != string(StatusFailing) || p.Previous != "" {
			t.Errorf("payload = %+v", p)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no health_changed event")
	}

	if err := game.Listen(ctx); err != nil {
		t.Fatal(err)
	}
	defer game.Close()

	m.RunOnce(ctx)
	if r := resultFor(t, m, "listener"); r.Status != StatusOK {
		t.Fatalf("listener = %+v", r)
	}
	if !m.Healthy() {
		t.Error("unhealthy with a listener")
	}
	select {
	case p := <-changes:
		if p.Check != "listener" || p.Status != string(StatusOK) || p.Previous != string(StatusFailing) {
			t.Errorf("payload = %+v", p)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no recovery event")
	}
}

func TestMemoryAndDiskThresholds(t *testing.T) {
	m := NewManager(config.DefaultConfig(), events.NewBus(), newGame(), nil)

	tests := []struct {
		used float64
		want Status
	}{
		{50, StatusOK},
		{90, StatusDegraded},
		{97.5, StatusFailing},
	}
	for _, tt := range tests {
		m.memoryPercent = func() float64 { return tt.used }
		if got, _ := m.checkMemory(context.Background()); got != tt.want {
			t.Errorf("memory %.1f%% = %s, want %s", tt.used, got, tt.want)
		}

		m.diskUsage = func(string) (util.DiskUsage, error) {
			return util.DiskUsage{Total: 100, Free: 100 - uint64(tt.used), UsedPercent: tt.used}, nil
		}
		if got, _ := m.checkDisk(context.Background()); got != tt.want {
			t.Errorf("disk %.1f%% = %s, want %s", tt.used, got, tt.want)
		}
	}

	m.diskUsage = func(string) (util.DiskUsage, error) {
		return util.DiskUsage{}, errors.New("no such filesystem")
	}
	if got, _ := m.checkDisk(context.Background()); got != StatusDegraded {
		t.Errorf("disk error = %s", got)
	}
}

func TestJournalBacklogCheck(t *testing.T) {
	db, err := journal.OpenDatabase(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	j, err := journal.New(db, 1)
	if err != nil {
		t.Fatal(err)
	}

	check := backlogCheck(j)
	if status, _ := check(context.Background()); status != StatusOK {
		t.Fatalf("empty journal = %s", status)
	}

	server, client := net.Pipe()
	defer client.Close()
	conn := newGame().NewConnection(server)
	defer conn.Close()
	for range 3 {
		j.PacketSent(conn, packets.S2CAuthLoginFailed{}, 8)
	}
	if status, msg := check(context.Background()); status != StatusDegraded {
		t.Errorf("after drops = %s (%s)", status, msg)
	}
	if status, _ := check(context.Background()); status != StatusOK {
		t.Errorf("no new drops = %s", status)
	}
}

func TestStartEmitsHeartbeat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ApplicationData.Health = config.HealthConfig{CheckIntervalSec: 1, HeartbeatIntervalSec: 1}

	bus := events.NewBus()
	beats := make(chan events.HeartbeatPayload, 1)
	bus.Subscribe(events.EventHeartbeat, "test", func(_ context.Context, e events.Event) error {
		select {
		case beats <- e.Payload.(events.HeartbeatPayload):
		default:
		}
		return nil
	})

	game := newGame()
	m := NewManager(cfg, bus, game, nil)
	m.memoryPercent = func() float64 { return 10 }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Start(ctx)
	}()

	select {
	case beat := <-beats:
		if beat.Packets != game.Packets().Len() {
			t.Errorf("heartbeat = %+v", beat)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no heartbeat")
	}

	cancel()
	<-done
}
