package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Assasans/protanki-server/internal/config"
	"github.com/Assasans/protanki-server/internal/events"
	"github.com/Assasans/protanki-server/internal/health"
	"github.com/Assasans/protanki-server/internal/journal"
	"github.com/Assasans/protanki-server/internal/metrics"
	"github.com/Assasans/protanki-server/internal/network"
	"github.com/Assasans/protanki-server/internal/packet"
	"github.com/Assasans/protanki-server/internal/packet/packets"
)

type fixture struct {
	cfg  *config.Config
	bus  *events.Bus
	game *network.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	registry := packet.NewRegistry()
	packets.Register(registry)
	return &fixture{
		cfg:  cfg,
		bus:  events.NewBus(),
		game: network.NewServer("127.0.0.1:0", nil, registry, network.WithLogger(zerolog.Nop())),
	}
}

func (f *fixture) handler(opts ...Option) http.Handler {
	return NewServer(f.cfg, f.bus, f.game, opts...).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body
}

// serveConnection registers a pipe-backed connection with the game server
// and returns it with a channel closed when its handler returns.
func (f *fixture) serveConnection(t *testing.T) (*network.Connection, <-chan struct{}) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() { client.Close() })

	conn := f.game.NewConnection(server)
	done := make(chan struct{})
	f.game.Handle(context.Background(), conn, func(ctx context.Context, c *network.Connection) error {
		defer close(done)
		return c.Run(ctx, func(context.Context, *network.Connection, packet.Packet) error { return nil })
	})
	return conn, done
}

func TestPublicEndpoints(t *testing.T) {
	f := newFixture(t)
	f.cfg.ApplicationData.API.Token = "secret"
	h := f.handler(WithVersion("1.2.3"))

	rec := do(t, h, http.MethodGet, "/api/public/ping", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("ping = %d", rec.Code)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}

	rec = do(t, h, http.MethodGet, "/api/public/version", "")
	if body := decode(t, rec); body["version"] != "1.2.3" {
		t.Errorf("version = %v", body)
	}

	if rec := do(t, h, http.MethodGet, "/api/nowhere", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route = %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := do(t, f.handler(), http.MethodGet, "/api/public/health", "")
	if body := decode(t, rec); rec.Code != http.StatusOK || body["healthy"] != true {
		t.Errorf("without checks = %d %v", rec.Code, body)
	}

	// The game server never listens, so the listener check fails.
	m := health.NewManager(f.cfg, f.bus, f.game, nil)
	m.RunOnce(context.Background())

	rec = do(t, f.handler(WithHealth(m)), http.MethodGet, "/api/public/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("failing check = %d", rec.Code)
	}
	body := decode(t, rec)
	checks, _ := body["checks"].([]any)
	if body["healthy"] != false || len(checks) == 0 {
		t.Errorf("body = %v", body)
	}
}

func TestTokenAuth(t *testing.T) {
	f := newFixture(t)
	f.cfg.ApplicationData.API.Token = "secret"
	h := f.handler()

	tests := []struct {
		name   string
		header []string
		want   int
	}{
		{"missing", nil, http.StatusUnauthorized},
		{"not bearer", []string{"Authorization", "Basic secret"}, http.StatusUnauthorized},
		{"wrong", []string{"Authorization", "Bearer nope"}, http.StatusUnauthorized},
		{"valid", []string{"Authorization", "Bearer secret"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, h, http.MethodGet, "/api/packets", "", tt.header...); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestStatusAndPackets(t *testing.T) {
	f := newFixture(t)
	h := f.handler()

	rec := do(t, h, http.MethodGet, "/api/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["connections"] != float64(0) || body["packets"] != float64(f.game.Packets().Len()) {
		t.Errorf("status = %v", body)
	}
	if _, ok := body["journal_dropped"]; ok {
		t.Error("journal reported while disabled")
	}

	body = decode(t, do(t, h, http.MethodGet, "/api/packets", ""))
	list, _ := body["packets"].([]any)
	if len(list) != f.game.Packets().Len() || body["total"] != float64(len(list)) {
		t.Fatalf("packets = %v", body)
	}
	first, _ := list[0].(map[string]any)
	if first["name"] == "" || first["id"] == nil {
		t.Errorf("first entry = %v", first)
	}
}

func TestConnections(t *testing.T) {
	f := newFixture(t)
	h := f.handler()
	conn, done := f.serveConnection(t)
	id := conn.ID().String()

	body := decode(t, do(t, h, http.MethodGet, "/api/connections", ""))
	if body["total"] != float64(1) {
		t.Fatalf("connections = %v", body)
	}

	rec := do(t, h, http.MethodGet, "/api/connections/"+id, "")
	if rec.Code != http.StatusOK || decode(t, rec)["id"] != id {
		t.Fatalf("get = %d %s", rec.Code, rec.Body.String())
	}

	if rec := do(t, h, http.MethodGet, "/api/connections/not-a-uuid", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id = %d", rec.Code)
	}

	if rec := do(t, h, http.MethodDelete, "/api/connections/"+id, ""); rec.Code != http.StatusOK {
		t.Fatalf("delete = %d", rec.Code)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("connection handler did not return after close")
	}

	if rec := do(t, h, http.MethodGet, "/api/connections/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/api/connections/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d", rec.Code)
	}
}

func TestJournalEndpoints(t *testing.T) {
	f := newFixture(t)

	if rec := do(t, f.handler(), http.MethodGet, "/api/journal/frames", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("disabled journal = %d", rec.Code)
	}

	db, err := journal.OpenDatabase(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	j, err := journal.New(db, 0)
	if err != nil {
		t.Fatal(err)
	}

	conn, _ := f.serveConnection(t)
	defer conn.Close()
	j.Opened(conn)
	j.PacketReceived(conn, packets.C2SSessionEncryptionInitialized{}, 9)
	j.PacketSent(conn, packets.S2CSessionResourcesResourcesLoaded{}, 8)
	j.PacketSent(conn, packets.S2CSessionResourcesResourcesLoaded{}, 8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := j.Run(ctx); err != nil {
		t.Fatal(err)
	}

	h := f.handler(WithJournal(j))
	body := decode(t, do(t, h, http.MethodGet, "/api/journal/frames?limit=2&conn="+conn.ID().String(), ""))
	if body["count"] != float64(2) {
		t.Errorf("frames = %v", body)
	}
	body = decode(t, do(t, h, http.MethodGet, "/api/journal/frames?conn=someone-else", ""))
	if body["count"] != float64(0) {
		t.Errorf("filtered frames = %v", body)
	}

	body = decode(t, do(t, h, http.MethodGet, "/api/journal/counts", ""))
	counts, _ := body["counts"].([]any)
	if len(counts) != 2 {
		t.Errorf("counts = %v", body)
	}
}

func TestConfigEndpoints(t *testing.T) {
	f := newFixture(t)
	f.cfg.ApplicationData.API.Token = "secret"
	auth := []string{"Authorization", "Bearer secret"}
	h := f.handler()

	changed := make(chan events.Event, 1)
	f.bus.Subscribe(events.EventConfigChanged, "test", func(_ context.Context, e events.Event) error {
		changed <- e
		return nil
	})

	body := decode(t, do(t, h, http.MethodGet, "/api/config", "", auth...))
	app, _ := body["application"].(map[string]any)
	apiSection, _ := app["api"].(map[string]any)
	if apiSection["token"] != "********" {
		t.Errorf("token not redacted: %v", apiSection)
	}

	rec := do(t, h, http.MethodPatch, "/api/config/client", `{"key": "language", "value": "en"}`, auth...)
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d %s", rec.Code, rec.Body.String())
	}
	if f.cfg.GetClientData().Language != "en" {
		t.Errorf("language = %s", f.cfg.GetClientData().Language)
	}
	select {
	case e := <-changed:
		payload, _ := e.Payload.(events.ConfigChangedPayload)
		if payload.Section != "client" || payload.Key != "language" {
			t.Errorf("payload = %+v", payload)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config_changed not emitted")
	}

	reloaded, err := config.Load(filepath.Dir(f.cfg.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.GetClientData().Language != "en" {
		t.Error("update not persisted")
	}

	rec = do(t, h, http.MethodPatch, "/api/config/server", `{"key": "port", "value": 70000}`, auth...)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid port = %d", rec.Code)
	}
	if f.cfg.GetServerData().Port != config.DefaultGamePort {
		t.Errorf("rejected value applied: %d", f.cfg.GetServerData().Port)
	}

	if rec := do(t, h, http.MethodPatch, "/api/config/server", `{"key": "nope", "value": 1}`, auth...); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPatch, "/api/config/server", `{"value": 1}`, auth...); rec.Code != http.StatusBadRequest {
		t.Errorf("missing key = %d", rec.Code)
	}
}

func TestMetricsAndWebSocketMounts(t *testing.T) {
	f := newFixture(t)
	f.cfg.ApplicationData.API.Token = "secret"

	reg := prometheus.NewRegistry()
	collector := metrics.New(metrics.WithRegistry(reg))
	conn, _ := f.serveConnection(t)
	defer conn.Close()
	collector.Opened(conn)

	ws := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := f.handler(WithMetrics(reg), WithWebSocket("/ws", ws))

	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "protanki_active_connections 1") {
		t.Errorf("metrics = %d\n%s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/ws", ""); rec.Code != http.StatusTeapot {
		t.Errorf("websocket route = %d", rec.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1)
	now := time.Now()

	if !rl.Allow("a", now) || !rl.Allow("a", now) {
		t.Fatal("burst rejected")
	}
	if rl.Allow("a", now) {
		t.Error("third request in burst allowed")
	}
	if !rl.Allow("b", now) {
		t.Error("separate client limited")
	}
	if !rl.Allow("a", now.Add(time.Second)) {
		t.Error("bucket did not refill")
	}

	unlimited := NewRateLimiter(0)
	for range 100 {
		if !unlimited.Allow("a", now) {
			t.Fatal("disabled limiter rejected")
		}
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1)
	now := time.Now()

	rl.Allow("idle", now)
	rl.Allow("busy", now)
	rl.Allow("busy", now.Add(4*time.Minute))
	if rl.Len() != 2 {
		t.Fatalf("tracked = %d", rl.Len())
	}

	if n := rl.Evict(5*time.Minute, now.Add(6*time.Minute)); n != 1 {
		t.Errorf("evicted = %d, want 1", n)
	}
	if rl.Len() != 1 {
		t.Errorf("tracked after evict = %d", rl.Len())
	}

	// An evicted client comes back with a full burst.
	if !rl.Allow("idle", now.Add(6*time.Minute)) || !rl.Allow("idle", now.Add(6*time.Minute)) {
		t.Error("evicted client did not get a fresh bucket")
	}

	for i := range 1000 {
		rl.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256), now)
	}
	rl.Evict(5*time.Minute, now.Add(time.Hour))
	if rl.Len() != 0 {
		t.Errorf("tracked after full sweep = %d", rl.Len())
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"Bearer abc":   "abc",
		"bearer abc":   "abc",
		"Basic abc":    "",
		"Bearerabc":    "",
		"Bearer a b c": "a b c",
	}
	for header, want := range tests {
		if got := extractBearerToken(header); got != want {
			t.Errorf("extractBearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}
