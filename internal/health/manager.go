// Package health runs periodic self checks of the game server (listener,
// host resources, journal backlog) and publishes status changes and
// heartbeats on the event bus.
package health

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Assasans/protanki-server/internal/config"
	"github.com/Assasans/protanki-server/internal/events"
	"github.com/Assasans/protanki-server/internal/journal"
	"github.com/Assasans/protanki-server/internal/network"
	"github.com/Assasans/protanki-server/internal/util"
)

// Status is the outcome of a check.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusFailing  Status = "failing"
)

// Result is the latest outcome of one check.
type Result struct {
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	CheckedAt time.Time `json:"checked_at"`
}

// CheckFunc performs one check.
type CheckFunc func(ctx context.Context) (Status, string)

type check struct {
	name string
	fn   CheckFunc
}

// Manager runs the checks and keeps their latest results.
type Manager struct {
	cfg  *config.Config
	bus  *events.Bus
	game *network.Server

	checks []check

	mu      sync.RWMutex
	results map[string]Result

	// Sampled memory and disk usage, replaced in tests.
	memoryPercent func() float64
	diskUsage     func(path string) (util.DiskUsage, error)
}

// NewManager creates a health manager for game. j may be nil when the
// journal is disabled.
func NewManager(cfg *config.Config, bus *events.Bus, game *network.Server, j *journal.Journal) *Manager {
	m := &Manager{
		cfg:     cfg,
		bus:     bus,
		game:    game,
		results: make(map[string]Result),
		memoryPercent: func() float64 {
			return util.GetResourceUsage().MemoryPercent
		},
		diskUsage: util.GetDiskUsage,
	}

	m.Register("listener", m.checkListener)
	m.Register("memory", m.checkMemory)
	if j != nil {
		m.Register("disk", m.checkDisk)
		m.Register("journal_backlog", backlogCheck(j))
	}
	return m
}

// Register adds a check. It must be called before Start.
func (m *Manager) Register(name string, fn CheckFunc) {
	m.checks = append(m.checks, check{name: name, fn: fn})
}

// Start runs every check at the configured interval and emits heartbeats
// until ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	healthCfg := m.cfg.GetApplicationData().Health

	if interval := healthCfg.CheckIntervalSec; interval > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(interval) * time.Second)
			defer ticker.Stop()

			log.Debug().Msg("running initial health checks")
			m.RunOnce(ctx)

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					m.RunOnce(ctx)
				}
			}
		}()
	}

	if interval := healthCfg.HeartbeatIntervalSec; interval > 0 {
		go m.heartbeatLoop(ctx, time.Duration(interval)*time.Second)
	}

	log.Info().Int("checks", len(m.checks)).Msg("health check manager started")

	<-ctx.Done()
	log.Info().Msg("health check manager stopped")
}

// RunOnce runs every check now and records the results. A status change
// emits EventHealthChanged.
func (m *Manager) RunOnce(ctx context.Context) {
	for _, c := range m.checks {
		status, message := c.fn(ctx)
		result := Result{Name: c.name, Status: status, Message: message, CheckedAt: time.Now()}

		m.mu.Lock()
		previous, seen := m.results[c.name]
		m.results[c.name] = result
		m.mu.Unlock()

		if seen && previous.Status == status {
			continue
		}
		if !seen && status == StatusOK {
			continue
		}

		logEvent := log.Info()
		if status != StatusOK {
			logEvent = log.Warn()
		}
		logEvent.Str("check", c.name).Str("status", string(status)).Msg(message)

		m.bus.Emit(ctx, events.Event{
			Type:   events.EventHealthChanged,
			Source: "health_check",
			Time:   result.CheckedAt,
			Payload: events.HealthPayload{
				Check:    c.name,
				Status:   string(status),
				Previous: string(previous.Status),
				Message:  message,
			},
		})
	}
}

// Results returns the latest result of every check that has run, by name.
func (m *Manager) Results() []Result {
	m.mu.RLock()
	results := make([]Result, 0, len(m.results))
	for _, r := range m.results {
		results = append(results, r)
	}
	m.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results
}

// Healthy reports whether no check is failing.
func (m *Manager) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.results {
		if r.Status == StatusFailing {
			return false
		}
	}
	return true
}

func (m *Manager) checkListener(context.Context) (Status, string) {
	addr := m.game.Addr()
	if addr == nil {
		return StatusFailing, "game server is not listening"
	}
	return StatusOK, fmt.Sprintf("listening on %s with %d connections", addr, m.game.Connections().Count())
}

func (m *Manager) checkMemory(context.Context) (Status, string) {
	used := m.memoryPercent()
	message := fmt.Sprintf("memory usage at %.1f%%", used)
	switch {
	case used >= 95:
		return StatusFailing, message
	case used >= 90:
		return StatusDegraded, message
	default:
		return StatusOK, message
	}
}

// checkDisk watches the filesystem holding the journal database.
func (m *Manager) checkDisk(context.Context) (Status, string) {
	path := filepath.Dir(m.cfg.GetApplicationData().Journal.Path)
	usage, err := m.diskUsage(path)
	if err != nil {
		return StatusDegraded, fmt.Sprintf("disk usage unavailable: %v", err)
	}

	message := fmt.Sprintf("disk usage at %.1f%% (%d GB free of %d GB total)",
		usage.UsedPercent, usage.Free, usage.Total)
	switch {
	case usage.UsedPercent >= 95:
		return StatusFailing, message
	case usage.UsedPercent >= 90:
		return StatusDegraded, message
	default:
		return StatusOK, message
	}
}

// backlogCheck reports the journal degraded while it keeps dropping entries.
func backlogCheck(j *journal.Journal) CheckFunc {
	var last uint64
	return func(context.Context) (Status, string) {
		dropped := j.Dropped()
		delta := dropped - last
		last = dropped
		if delta > 0 {
			return StatusDegraded, fmt.Sprintf("journal dropped %d entries since the last check", delta)
		}
		return StatusOK, fmt.Sprintf("journal keeping up (%d dropped in total)", dropped)
	}
}

func (m *Manager) heartbeatLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.bus.Emit(ctx, events.Event{
				Type:   events.EventHeartbeat,
				Source: "heartbeat",
				Time:   time.Now(),
				Payload: events.HeartbeatPayload{
					Connections: m.game.Connections().Count(),
					Packets:     m.game.Packets().Len(),
					Healthy:     m.Healthy(),
				},
			})
		}
	}
}
