// Package history records per-run summaries in a small SQLite database
// under the workspace's .magpie directory.
//
// The history is purely informational: the repair indexes themselves are
// rebuilt from the filesystem on every run and never persisted.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/magpie/internal/workspace"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at INTEGER NOT NULL,
	operation TEXT NOT NULL,
	root TEXT NOT NULL,
	documents_scanned INTEGER NOT NULL DEFAULT 0,
	documents_modified INTEGER NOT NULL DEFAULT 0,
	links_repaired INTEGER NOT NULL DEFAULT 0,
	missing INTEGER NOT NULL DEFAULT 0,
	orphans_marked INTEGER NOT NULL DEFAULT 0,
	dry_run INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0
);
`

// Run is one recorded repair or reconcile pass.
type Run struct {
	ID                int64
	StartedAt         time.Time
	Operation         string // "repair" or "orphans"
	Root              string
	DocumentsScanned  int
	DocumentsModified int
	LinksRepaired     int
	Missing           int
	OrphansMarked     int
	DryRun            bool
	Duration          time.Duration
}

// DB is the run-history database handle.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database for a workspace.
func Open(workspacePath string) (*DB, error) {
	dir := filepath.Join(workspacePath, workspace.StateDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s directory: %w", workspace.StateDir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error { return d.db.Close() }

// Record appends one run.
func (d *DB) Record(r Run) error {
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	_, err := d.db.Exec(`
		INSERT INTO runs (started_at, operation, root, documents_scanned,
			documents_modified, links_repaired, missing, orphans_marked,
			dry_run, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt.Unix(), r.Operation, r.Root, r.DocumentsScanned,
		r.DocumentsModified, r.LinksRepaired, r.Missing, r.OrphansMarked,
		boolToInt(r.DryRun), r.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Recent returns the n most recent runs, newest first.
func (d *DB) Recent(n int) ([]Run, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := d.db.Query(`
		SELECT id, started_at, operation, root, documents_scanned,
			documents_modified, links_repaired, missing, orphans_marked,
			dry_run, duration_ms
		FROM runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt, durationMs int64
		var dryRun int
		if err := rows.Scan(&r.ID, &startedAt, &r.Operation, &r.Root,
			&r.DocumentsScanned, &r.DocumentsModified, &r.LinksRepaired,
			&r.Missing, &r.OrphansMarked, &dryRun, &durationMs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.Unix(startedAt, 0)
		r.DryRun = dryRun != 0
		r.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
