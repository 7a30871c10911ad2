// Package scheduler runs the server's periodic housekeeping: journal
// retention, idle connection sweeps and daily traffic statistics.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Assasans/protanki-server/internal/config"
	"github.com/Assasans/protanki-server/internal/journal"
	"github.com/Assasans/protanki-server/internal/network"
)

// Scheduler manages periodic background tasks.
type Scheduler struct {
	cfg     *config.Config
	game    *network.Server
	journal *journal.Journal
}

// NewScheduler creates a new task scheduler. j may be nil when the journal
// is disabled.
func NewScheduler(cfg *config.Config, game *network.Server, j *journal.Journal) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		game:    game,
		journal: j,
	}
}

// Start runs every enabled task until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	log.Info().Msg("scheduler started")

	if s.journal != nil && s.cfg.GetApplicationData().Journal.RetentionDays > 0 {
		s.PruneJournal(time.Now())
		go s.runJournalCleanerLoop(ctx)
	}

	if timeout := s.cfg.GetServerData().StaleTimeoutSec; timeout > 0 {
		go s.runStaleSweepLoop(ctx, time.Duration(timeout)*time.Second)
	}

	go s.runStatsCollectionLoop(ctx)

	<-ctx.Done()
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) runJournalCleanerLoop(ctx context.Context) {
	for {
		nextRun := NextRun(s.cfg.GetApplicationData().Journal.CleanupTime, time.Now())
		log.Info().
			Time("next_run", nextRun).
			Msg("journal cleaner scheduled")

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(nextRun)):
			s.PruneJournal(time.Now())
		}
	}
}

// PruneJournal removes journal rows older than the retention window ending
// at now.
func (s *Scheduler) PruneJournal(now time.Time) int64 {
	days := s.cfg.GetApplicationData().Journal.RetentionDays
	if s.journal == nil || days <= 0 {
		return 0
	}

	removed, err := s.journal.Prune(now.AddDate(0, 0, -days))
	if err != nil {
		log.Warn().Err(err).Msg("journal cleaner failed")
		return 0
	}
	log.Info().
		Int64("removed_rows", removed).
		Int("retention_days", days).
		Msg("journal cleaner completed")
	return removed
}

func (s *Scheduler) runStaleSweepLoop(ctx context.Context, timeout time.Duration) {
	ticker := time.NewTicker(max(timeout/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.game.Connections().CleanStale(timeout); n > 0 {
				log.Info().Int("count", n).Msg("closed idle connections")
			}
		}
	}
}

func (s *Scheduler) runStatsCollectionLoop(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.collectStats()
		}
	}
}

// collectStats logs a summary of live connections and journaled traffic.
func (s *Scheduler) collectStats() {
	var bytesIn, bytesOut uint64
	conns := s.game.Connections().Snapshot()
	for _, info := range conns {
		bytesIn += info.Stats.BytesIn
		bytesOut += info.Stats.BytesOut
	}

	event := log.Info().
		Int("connections", len(conns)).
		Str("live_bytes_in", formatBytes(int64(bytesIn))).
		Str("live_bytes_out", formatBytes(int64(bytesOut)))

	if s.journal != nil {
		var frames, journaled int64
		if counts, err := s.journal.Counts(); err == nil {
			for _, c := range counts {
				frames += c.Count
				journaled += c.Bytes
			}
		}
		event = event.
			Int64("journal_frames", frames).
			Str("journal_bytes", formatBytes(journaled)).
			Uint64("journal_dropped", s.journal.Dropped())
	}

	event.Msg("daily stats collected")
}

// NextRun returns the first time after now at the wall clock "HH:MM". An
// unparsable clock falls back to 04:00.
func NextRun(clock string, now time.Time) time.Time {
	hour, minute := 4, 0
	var h, m int
	if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err == nil && h >= 0 && h < 24 && m >= 0 && m < 60 {
		hour, minute = h, m
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// formatBytes formats bytes into human-readable format.
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
