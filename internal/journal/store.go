// Package journal persists resolved rounds to SQLite so a session can
// be audited or replayed after the fact. Each store binds one scenario
// name and seed; every recorded round carries both, and the
// (scenario, turn) pair is unique so a turn can never be journaled
// twice.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/louisbranch/skirmish-engine/internal/core/dice"
	apperrors "github.com/louisbranch/skirmish-engine/internal/errors"
	"github.com/louisbranch/skirmish-engine/internal/journal/migrations"
	sqlitemigrate "github.com/louisbranch/skirmish-engine/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/skirmish-engine/internal/turn"
)

// RoundRecord is one persisted round: the stamped results in dispatch
// order plus every dice entry the round consumed.
type RoundRecord struct {
	Scenario   string              `json:"scenario"`
	Turn       int                 `json:"turn"`
	Seed       int64               `json:"seed"`
	Results    []turn.ActionResult `json:"results"`
	Rolls      []dice.Entry        `json:"rolls"`
	RecordedAt time.Time           `json:"recorded_at"`
}

// Store persists rounds in SQLite, one row per (scenario, turn).
type Store struct {
	sqlDB    *sql.DB
	scenario string
	seed     int64
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite round journal and applies embedded migrations.
// Rounds recorded through the returned store are bound to the given
// scenario name and seed.
func Open(path, scenario string, seed int64) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	scenario = strings.TrimSpace(scenario)
	if scenario == "" {
		return nil, fmt.Errorf("scenario name is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, scenario: scenario, seed: seed}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Scenario returns the scenario name the store is bound to.
func (s *Store) Scenario() string {
	return s.scenario
}

// RecordRound stores one resolved round. Recording a turn the journal
// already holds for this scenario fails with TURN_ALREADY_RESOLVED.
func (s *Store) RecordRound(ctx context.Context, turnNumber int, results []turn.ActionResult, rolls []dice.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("journal is not configured")
	}
	if turnNumber <= 0 {
		return fmt.Errorf("turn number must be greater than zero")
	}
	if results == nil {
		results = []turn.ActionResult{}
	}
	if rolls == nil {
		rolls = []dice.Entry{}
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	rollsJSON, err := json.Marshal(rolls)
	if err != nil {
		return fmt.Errorf("encode rolls: %w", err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO rounds (scenario, turn, seed, results, rolls, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.scenario,
		turnNumber,
		s.seed,
		string(resultsJSON),
		string(rollsJSON),
		toMillis(time.Now()),
	)
	if err != nil {
		if isRoundUniqueViolation(err) {
			return apperrors.WithMetadata(
				apperrors.CodeTurnAlreadyResolved,
				fmt.Sprintf("turn %d already recorded for scenario %q", turnNumber, s.scenario),
				map[string]string{
					"scenario": s.scenario,
					"turn":     strconv.Itoa(turnNumber),
				},
			)
		}
		return fmt.Errorf("record round: %w", err)
	}
	return nil
}

// Round returns one recorded round by turn number.
func (s *Store) Round(ctx context.Context, turnNumber int) (RoundRecord, error) {
	if err := ctx.Err(); err != nil {
		return RoundRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return RoundRecord{}, fmt.Errorf("journal is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT scenario, turn, seed, results, rolls, created_at
		   FROM rounds
		  WHERE scenario = ? AND turn = ?`,
		s.scenario,
		turnNumber,
	)

	var record RoundRecord
	var resultsJSON string
	var rollsJSON string
	var createdAt int64
	err := row.Scan(
		&record.Scenario,
		&record.Turn,
		&record.Seed,
		&resultsJSON,
		&rollsJSON,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RoundRecord{}, apperrors.Newf(
				apperrors.CodeNotFound,
				"turn %d not recorded for scenario %q", turnNumber, s.scenario,
			)
		}
		return RoundRecord{}, fmt.Errorf("get round: %w", err)
	}
	if err := json.Unmarshal([]byte(resultsJSON), &record.Results); err != nil {
		return RoundRecord{}, fmt.Errorf("decode results for turn %d: %w", turnNumber, err)
	}
	if err := json.Unmarshal([]byte(rollsJSON), &record.Rolls); err != nil {
		return RoundRecord{}, fmt.Errorf("decode rolls for turn %d: %w", turnNumber, err)
	}
	record.RecordedAt = fromMillis(createdAt)
	return record, nil
}

// Rounds returns every recorded round for the bound scenario in turn
// order.
func (s *Store) Rounds(ctx context.Context) ([]RoundRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("journal is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT scenario, turn, seed, results, rolls, created_at
		   FROM rounds
		  WHERE scenario = ?
		  ORDER BY turn ASC`,
		s.scenario,
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

func scanRound(rows *sql.Rows) (RoundRecord, error) {
	var record RoundRecord
	var resultsJSON string
	var rollsJSON string
	var createdAt int64
	if err := rows.Scan(
		&record.Scenario,
		&record.Turn,
		&record.Seed,
		&resultsJSON,
		&rollsJSON,
		&createdAt,
	); err != nil {
		return RoundRecord{}, fmt.Errorf("scan round: %w", err)
	}
	if err := json.Unmarshal([]byte(resultsJSON), &record.Results); err != nil {
		return RoundRecord{}, fmt.Errorf("decode results for turn %d: %w", record.Turn, err)
	}
	if err := json.Unmarshal([]byte(rollsJSON), &record.Rolls); err != nil {
		return RoundRecord{}, fmt.Errorf("decode rolls for turn %d: %w", record.Turn, err)
	}
	record.RecordedAt = fromMillis(createdAt)
	return record, nil
}

func isRoundUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "rounds.scenario")
}

var _ turn.RoundSink = (*Store)(nil)
