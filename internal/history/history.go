// Package history appends per-tick census samples to a SQLite database so
// runs can be charted or compared afterwards.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"epigrid/pkg/epidemic"
)

const schema = `CREATE TABLE IF NOT EXISTS census (
	run TEXT NOT NULL,
	tick INTEGER NOT NULL,
	row INTEGER NOT NULL,
	col INTEGER NOT NULL,
	id INTEGER NOT NULL,
	vacant INTEGER NOT NULL,
	susceptible INTEGER NOT NULL,
	exposed INTEGER NOT NULL,
	infected INTEGER NOT NULL,
	recovered INTEGER NOT NULL,
	PRIMARY KEY (run, tick, row, col)
)`

// Sample is the domain-wide census at one tick.
type Sample struct {
	Tick   int
	Counts epidemic.Counts
}

// Recorder writes census rows for one named run.
type Recorder struct {
	db  *sql.DB
	run string
	err error
}

// Open creates (or reuses) the database at path and prepares the census
// table.
func Open(ctx context.Context, path, run string) (*Recorder, error) {
	if path == "" {
		path = "epigrid.db"
	}
	if run == "" {
		return nil, errors.New("history: run name is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create census table: %w", err)
	}
	return &Recorder{db: db, run: run}, nil
}

// Run returns the run name rows are tagged with.
func (r *Recorder) Run() string { return r.run }

// Record stores one row per automaton for tick in a single transaction.
// Counters are recomputed before they are written.
func (r *Recorder) Record(ctx context.Context, tick int, m *epidemic.Matrix) (retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO census
		(run, tick, row, col, id, vacant, susceptible, exposed, infected, recovered)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	var execErr error
	m.Each(func(a *epidemic.Automaton) {
		if execErr != nil {
			return
		}
		c := a.RecomputeCounts()
		row, col := a.Position()
		_, execErr = stmt.ExecContext(ctx, r.run, tick, row, col, a.ID(),
			c[epidemic.Vacant], c[epidemic.Susceptible], c[epidemic.Exposed], c[epidemic.Infected], c[epidemic.Recovered])
	})
	if execErr != nil {
		return fmt.Errorf("insert census: %w", execErr)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Observer adapts Record to epidemic.Observer. The first failure is kept
// and later ticks are skipped; check Err after the run.
func (r *Recorder) Observer(ctx context.Context) epidemic.Observer {
	return func(tick int, m *epidemic.Matrix) {
		if r.err != nil {
			return
		}
		r.err = r.Record(ctx, tick, m)
	}
}

// Err reports the first error raised through Observer.
func (r *Recorder) Err() error { return r.err }

// Series returns the domain-wide census of the run, ordered by tick.
func (r *Recorder) Series(ctx context.Context) ([]Sample, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT tick,
		SUM(vacant), SUM(susceptible), SUM(exposed), SUM(infected), SUM(recovered)
		FROM census WHERE run = ? GROUP BY tick ORDER BY tick`, r.run)
	if err != nil {
		return nil, fmt.Errorf("select census: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []Sample
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.Tick,
			&s.Counts[epidemic.Vacant], &s.Counts[epidemic.Susceptible], &s.Counts[epidemic.Exposed],
			&s.Counts[epidemic.Infected], &s.Counts[epidemic.Recovered]); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate census: %w", err)
	}
	return out, nil
}

// Close releases the database handle.
func (r *Recorder) Close() error { return r.db.Close() }
