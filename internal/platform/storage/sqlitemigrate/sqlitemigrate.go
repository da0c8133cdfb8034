// Package sqlitemigrate applies embedded .sql migrations to a SQLite
// database, each file at most once.
package sqlitemigrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"
)

const trackingTable = "schema_migrations"

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// Apply executes every top-level .sql file in fsys, in name order,
// skipping files already recorded in the tracking table. Each file may
// carry "-- +migrate Up" and "-- +migrate Down" sections; only the Up
// section runs. A failing migration rolls back and stays unrecorded so
// a fixed file can run on the next attempt.
func Apply(db *sql.DB, fsys fs.FS) error {
	if db == nil {
		return fmt.Errorf("sqlitemigrate: db is required")
	}

	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + trackingTable + ` (
	name TEXT PRIMARY KEY,
	applied_at INTEGER NOT NULL
)`); err != nil {
		return fmt.Errorf("ensure tracking table: %w", err)
	}

	for _, name := range names {
		done, err := applied(db, name)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if done {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		statements := upSection(string(content))
		if strings.TrimSpace(statements) == "" {
			continue
		}

		if err := runOne(db, name, statements); err != nil {
			return err
		}
	}
	return nil
}

func runOne(db *sql.DB, name, statements string) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	if _, err := tx.Exec(statements); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("exec migration %s: %w", name, err)
	}
	if _, err := tx.Exec(
		"INSERT OR IGNORE INTO "+trackingTable+" (name, applied_at) VALUES (?, ?)",
		name, time.Now().UTC().UnixMilli(),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

// upSection cuts content down to the statements between the Up marker
// and the Down marker. Files without markers run whole.
func upSection(content string) string {
	start := strings.Index(content, upMarker)
	if start == -1 {
		return content
	}
	content = content[start+len(upMarker):]
	if end := strings.Index(content, downMarker); end != -1 {
		content = content[:end]
	}
	return content
}

func applied(db *sql.DB, name string) (bool, error) {
	var found int
	err := db.QueryRow("SELECT 1 FROM "+trackingTable+" WHERE name = ?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
