package journal

import (
	"context"
	"database/sql"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Assasans/protanki-server/internal/network"
	"github.com/Assasans/protanki-server/internal/packet"
)

const (
	DefaultBufferSize = 1024
	maxBatch          = 256
)

// Frame is one journaled frame.
type Frame struct {
	ConnID    string    `json:"conn_id"`
	Direction string    `json:"direction"`
	PacketID  int32     `json:"packet_id"`
	ModelID   int32     `json:"model_id"`
	Name      string    `json:"name"`
	Size      int       `json:"size"`
	At        time.Time `json:"at"`
}

// PacketCount aggregates journaled frames per packet and direction.
type PacketCount struct {
	PacketID  int32  `json:"packet_id"`
	Name      string `json:"name"`
	Direction string `json:"direction"`
	Count     int64  `json:"count"`
	Bytes     int64  `json:"bytes"`
}

type entryKind int

const (
	entryFrame entryKind = iota
	entryOpened
	entryClosed
)

type entry struct {
	kind   entryKind
	frame  Frame
	remote string
	reason string
}

// Journal records traffic observed on connections. Observer callbacks only
// enqueue; Run writes the queue to the database in batches. When the queue
// is full new entries are dropped and counted.
type Journal struct {
	db      *Database
	queue   chan entry
	dropped atomic.Uint64
	logger  zerolog.Logger
}

// New migrates db and returns a journal with a queue of bufferSize entries.
func New(db *Database, bufferSize int) (*Journal, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	j := &Journal{
		db:     db,
		queue:  make(chan entry, bufferSize),
		logger: log.With().Str("component", "journal").Logger(),
	}
	if err := j.migrate(); err != nil {
		return nil, errors.Wrap(err, "failed to migrate journal database")
	}
	return j, nil
}

func (j *Journal) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS connections (
			conn_id TEXT PRIMARY KEY,
			remote TEXT NOT NULL DEFAULT '',
			opened_at INTEGER NOT NULL,
			closed_at INTEGER,
			reason TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS frames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conn_id TEXT NOT NULL,
			direction TEXT NOT NULL,
			packet_id INTEGER NOT NULL,
			model_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			size INTEGER NOT NULL,
			at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_frames_conn_id ON frames(conn_id);
		CREATE INDEX IF NOT EXISTS idx_frames_at ON frames(at);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return errors.Wrap(err, "schema migration failed")
	}
	j.logger.Debug().Msg("journal schema migrated")
	return nil
}

func (j *Journal) enqueue(e entry) {
	select {
	case j.queue <- e:
	default:
		j.dropped.Add(1)
	}
}

// Dropped returns the number of entries lost to a full queue.
func (j *Journal) Dropped() uint64 { return j.dropped.Load() }

func (j *Journal) frame(c *network.Connection, direction string, p packet.Packet, size int) {
	j.enqueue(entry{kind: entryFrame, frame: Frame{
		ConnID:    c.ID().String(),
		Direction: direction,
		PacketID:  p.PacketID(),
		ModelID:   p.ModelID(),
		Name:      p.PacketName(),
		Size:      size,
		At:        time.Now(),
	}})
}

// Opened records a new connection.
func (j *Journal) Opened(c *network.Connection) {
	remote := ""
	if addr := c.RemoteAddr(); addr != nil {
		remote = addr.String()
	}
	j.enqueue(entry{kind: entryOpened, frame: Frame{ConnID: c.ID().String(), At: c.ConnectedAt()}, remote: remote})
}

func (j *Journal) PacketReceived(c *network.Connection, p packet.Packet, size int) {
	j.frame(c, "in", p, size)
}

func (j *Journal) PacketSent(c *network.Connection, p packet.Packet, size int) {
	j.frame(c, "out", p, size)
}

func (j *Journal) Disconnected(c *network.Connection, err error) {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	j.enqueue(entry{kind: entryClosed, frame: Frame{ConnID: c.ID().String(), At: time.Now()}, reason: reason})
}

// Run writes queued entries until ctx is cancelled, then writes what is
// still queued and returns.
func (j *Journal) Run(ctx context.Context) error {
	batch := make([]entry, 0, maxBatch)
	for {
		select {
		case <-ctx.Done():
			for {
				batch = j.collect(batch[:0])
				if len(batch) == 0 {
					return nil
				}
				if err := j.write(batch); err != nil {
					return err
				}
			}
		case e := <-j.queue:
			batch = j.collect(append(batch[:0], e))
			if err := j.write(batch); err != nil {
				j.logger.Error().Err(err).Int("entries", len(batch)).Msg("failed to write journal batch")
			}
		}
	}
}

// collect appends queued entries to batch without blocking.
func (j *Journal) collect(batch []entry) []entry {
	for len(batch) < maxBatch {
		select {
		case e := <-j.queue:
			batch = append(batch, e)
		default:
			return batch
		}
	}
	return batch
}

func (j *Journal) write(batch []entry) error {
	return j.db.Transaction(func(tx *sql.Tx) error {
		for _, e := range batch {
			var err error
			switch e.kind {
			case entryFrame:
				f := e.frame
				_, err = tx.Exec(
					"INSERT INTO frames (conn_id, direction, packet_id, model_id, name, size, at) VALUES (?, ?, ?, ?, ?, ?, ?)",
					f.ConnID, f.Direction, f.PacketID, f.ModelID, f.Name, f.Size, f.At.UnixMilli())
			case entryOpened:
				_, err = tx.Exec(
					"INSERT OR IGNORE INTO connections (conn_id, remote, opened_at) VALUES (?, ?, ?)",
					e.frame.ConnID, e.remote, e.frame.At.UnixMilli())
			case entryClosed:
				_, err = tx.Exec(
					"UPDATE connections SET closed_at = ?, reason = ? WHERE conn_id = ?",
					e.frame.At.UnixMilli(), e.reason, e.frame.ConnID)
			}
			if err != nil {
				return errors.Wrap(err, "failed to write journal entry")
			}
		}
		return nil
	})
}

// Recent returns up to limit frames, newest first. An empty connID matches
// every connection.
func (j *Journal) Recent(connID string, limit int) ([]Frame, error) {
	rows, err := j.db.Query(`
		SELECT conn_id, direction, packet_id, model_id, name, size, at
		FROM frames
		WHERE ? = '' OR conn_id = ?
		ORDER BY id DESC
		LIMIT ?`, connID, connID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query frames")
	}
	defer rows.Close()

	var frames []Frame
	for rows.Next() {
		var f Frame
		var at int64
		if err := rows.Scan(&f.ConnID, &f.Direction, &f.PacketID, &f.ModelID, &f.Name, &f.Size, &at); err != nil {
			return nil, errors.Wrap(err, "failed to scan frame")
		}
		f.At = time.UnixMilli(at)
		frames = append(frames, f)
	}
	return frames, rows.Err()
}

// Counts aggregates every journaled frame by packet and direction, busiest
// first.
func (j *Journal) Counts() ([]PacketCount, error) {
	rows, err := j.db.Query(`
		SELECT packet_id, name, direction, COUNT(*), SUM(size)
		FROM frames
		GROUP BY packet_id, name, direction
		ORDER BY COUNT(*) DESC, packet_id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query packet counts")
	}
	defer rows.Close()

	var counts []PacketCount
	for rows.Next() {
		var pc PacketCount
		if err := rows.Scan(&pc.PacketID, &pc.Name, &pc.Direction, &pc.Count, &pc.Bytes); err != nil {
			return nil, errors.Wrap(err, "failed to scan packet count")
		}
		counts = append(counts, pc)
	}
	return counts, rows.Err()
}

// ClosedConnection returns the recorded close reason of a connection and
// whether it has been closed.
func (j *Journal) ClosedConnection(connID string) (reason string, closed bool, err error) {
	var closedAt sql.NullInt64
	err = j.db.QueryRow("SELECT closed_at, reason FROM connections WHERE conn_id = ?", connID).Scan(&closedAt, &reason)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "failed to query connection")
	}
	return reason, closedAt.Valid, nil
}

// Prune deletes frames and closed connections older than before.
func (j *Journal) Prune(before time.Time) (int64, error) {
	cutoff := before.UnixMilli()
	var removed int64
	err := j.db.Transaction(func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM frames WHERE at < ?", cutoff)
		if err != nil {
			return err
		}
		removed, _ = res.RowsAffected()
		_, err = tx.Exec("DELETE FROM connections WHERE closed_at IS NOT NULL AND closed_at < ?", cutoff)
		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune journal")
	}
	j.logger.Info().Int64("frames", removed).Time("before", before).Msg("journal pruned")
	return removed, nil
}
