package scheduler

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Assasans/protanki-server/internal/config"
	"github.com/Assasans/protanki-server/internal/journal"
	"github.com/Assasans/protanki-server/internal/network"
	"github.com/Assasans/protanki-server/internal/packet"
	"github.com/Assasans/protanki-server/internal/packet/packets"
)

func TestNextRun(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		clock string
		want  time.Time
	}{
		{"13:15", time.Date(2024, 3, 10, 13, 15, 0, 0, time.UTC)},
		{"04:00", time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC)},
		{"12:30", time.Date(2024, 3, 11, 12, 30, 0, 0, time.UTC)},
		{"", time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC)},
		{"25:00", time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC)},
		{"noon", time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := NextRun(tt.clock, now); !got.Equal(tt.want) {
			t.Errorf("NextRun(%q) = %v, want %v", tt.clock, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func newGame() *network.Server {
	registry := packet.NewRegistry()
	packets.Register(registry)
	return network.NewServer("127.0.0.1:0", nil, registry, network.WithLogger(zerolog.Nop()))
}

func TestPruneJournal(t *testing.T) {
	db, err := journal.OpenDatabase(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	j, err := journal.New(db, 0)
	if err != nil {
		t.Fatal(err)
	}

	game := newGame()
	server, client := net.Pipe()
	defer client.Close()
	conn := game.NewConnection(server)
	defer conn.Close()

	j.PacketSent(conn, packets.S2CAuthLoginFailed{}, 8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := j.Run(ctx); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.ApplicationData.Journal.RetentionDays = 1
	s := NewScheduler(cfg, game, j)

	if removed := s.PruneJournal(time.Now()); removed != 0 {
		t.Errorf("fresh frame pruned: %d", removed)
	}
	if removed := s.PruneJournal(time.Now().AddDate(0, 0, 2)); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	cfg.ApplicationData.Journal.RetentionDays = 0
	if removed := s.PruneJournal(time.Now().AddDate(1, 0, 0)); removed != 0 {
		t.Errorf("retention disabled but removed %d", removed)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewScheduler(cfg, newGame(), nil)
	s.collectStats()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Start(ctx)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
