package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/louisbranch/skirmish-engine/internal/errors"
	"github.com/louisbranch/skirmish-engine/internal/journal/migrations"
	sqlitemigrate "github.com/louisbranch/skirmish-engine/internal/platform/storage/sqlitemigrate"
)

// ReadAll opens the journal at path and returns every recorded round
// ordered by scenario name, then turn. Unlike Open it binds no
// scenario, so a journal holding several sessions dumps whole.
func ReadAll(ctx context.Context, path string) ([]RoundRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	cleanPath := filepath.Clean(path)
	if _, err := os.Stat(cleanPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "journal %q does not exist", path)
		}
		return nil, fmt.Errorf("stat journal: %w", err)
	}

	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	defer sqlDB.Close()
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	rows, err := sqlDB.QueryContext(
		ctx,
		`SELECT scenario, turn, seed, results, rolls, created_at
		   FROM rounds
		  ORDER BY scenario ASC, turn ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var records []RoundRecord
	for rows.Next() {
		record, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	return records, nil
}
