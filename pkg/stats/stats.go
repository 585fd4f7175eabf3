// Package stats collects anonymous usage measures: counters keyed by day
// and name, persisted in a local SQLite database. Nothing leaves the machine
// through this package; assembled payloads go to an injected sink.
//
// Collection honors the opt-out flag from the onboarding flow. When opted
// out, Record is a no-op and any queued measures are dropped.
package stats

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/oarsman/skiff/pkg/debug"
)

// Sink receives assembled daily payloads. The real application wires a
// submitting sink; tests wire a recorder.
type Sink interface {
	Submit(ctx context.Context, payload []byte) error
}

// Measure is one counter in a daily payload.
type Measure struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Payload is the JSON document handed to the sink.
type Payload struct {
	Day      string    `json:"day"`
	Version  string    `json:"version"`
	Measures []Measure `json:"measures"`
}

// Reporter records usage measures and assembles daily payloads.
type Reporter struct {
	mu       sync.Mutex
	db       *sql.DB
	optedOut bool
	version  string
}

// Open creates or opens the stats database at path. An empty path selects
// stats.db in dir.
func Open(dir, version string, optedOut bool) (*Reporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create stats dir: %w", err)
	}
	path := filepath.Join(dir, "stats.db")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open stats database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS measures (
			day   TEXT NOT NULL,
			name  TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (day, name)
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create measures table: %w", err)
	}

	r := &Reporter{db: db, optedOut: optedOut, version: version}
	if optedOut {
		// Opting out drops anything recorded before the flag was set.
		if err := r.purge(context.Background()); err != nil {
			debug.Log("stats: purge on open failed: %v", err)
		}
	}
	return r, nil
}

// Close closes the underlying database.
func (r *Reporter) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SetOptOut flips the opt-out flag. Opting out purges stored measures.
func (r *Reporter) SetOptOut(ctx context.Context, optedOut bool) error {
	r.mu.Lock()
	r.optedOut = optedOut
	r.mu.Unlock()
	if optedOut {
		return r.purge(ctx)
	}
	return nil
}

// OptedOut reports the current opt-out state.
func (r *Reporter) OptedOut() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.optedOut
}

// Record increments the named counter for today. No-op when opted out.
func (r *Reporter) Record(ctx context.Context, name string) error {
	r.mu.Lock()
	out := r.optedOut
	r.mu.Unlock()
	if out {
		return nil
	}

	day := time.Now().UTC().Format("2006-01-02")
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO measures (day, name, count) VALUES (?, ?, 1)
		ON CONFLICT(day, name) DO UPDATE SET count = count + 1`,
		day, name)
	if err != nil {
		return fmt.Errorf("record measure %q: %w", name, err)
	}
	return nil
}

// Flush assembles a payload for every stored day older than today, hands it
// to the sink, and deletes submitted rows. When opted out it does nothing.
func (r *Reporter) Flush(ctx context.Context, sink Sink) error {
	r.mu.Lock()
	out := r.optedOut
	r.mu.Unlock()
	if out || sink == nil {
		return nil
	}

	today := time.Now().UTC().Format("2006-01-02")
	days, err := r.storedDays(ctx, today)
	if err != nil {
		return err
	}

	for _, day := range days {
		payload, err := r.payloadFor(ctx, day)
		if err != nil {
			return err
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode stats payload: %w", err)
		}
		if err := sink.Submit(ctx, data); err != nil {
			// Leave the rows in place; a later flush retries.
			return fmt.Errorf("submit stats for %s: %w", day, err)
		}
		if _, err := r.db.ExecContext(ctx, `DELETE FROM measures WHERE day = ?`, day); err != nil {
			return fmt.Errorf("prune submitted measures: %w", err)
		}
		debug.Log("stats: submitted %d measures for %s", len(payload.Measures), day)
	}
	return nil
}

func (r *Reporter) storedDays(ctx context.Context, before string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT day FROM measures WHERE day < ? ORDER BY day`, before)
	if err != nil {
		return nil, fmt.Errorf("list stored days: %w", err)
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (r *Reporter) payloadFor(ctx context.Context, day string) (Payload, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, count FROM measures WHERE day = ? ORDER BY name`, day)
	if err != nil {
		return Payload{}, fmt.Errorf("load measures for %s: %w", day, err)
	}
	defer rows.Close()

	p := Payload{Day: day, Version: r.version}
	for rows.Next() {
		var m Measure
		if err := rows.Scan(&m.Name, &m.Count); err != nil {
			return Payload{}, err
		}
		p.Measures = append(p.Measures, m)
	}
	return p, rows.Err()
}

func (r *Reporter) purge(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM measures`); err != nil {
		return fmt.Errorf("purge measures: %w", err)
	}
	return nil
}
