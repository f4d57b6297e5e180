// Package store persists game results in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lox/ito/internal/statistics"
	"github.com/lox/ito/internal/store/migrations"
)

// ErrDuplicate is returned when a game ID is saved twice.
var ErrDuplicate = errors.New("game result already stored")

// Result is one stored game
type Result struct {
	GameID    string
	Theme     string
	CreatedAt time.Time
	statistics.GameResult
}

// Store persists results in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens the database at path, creating it and applying migrations as
// needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts one result.
func (s *Store) Save(ctx context.Context, r Result) error {
	if r.GameID == "" {
		return fmt.Errorf("game id is required")
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO game_results (
		   game_id, seed, theme, agents, played, turns, reward, outcome, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Seed, r.Theme, r.Agents, r.Played, r.Turns, r.Reward, string(r.Outcome),
		created.UTC().UnixMilli(),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
			return fmt.Errorf("%w: %s", ErrDuplicate, r.GameID)
		}
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// SaveAll inserts results in a single transaction.
func (s *Store) SaveAll(ctx context.Context, results []Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO game_results (
		   game_id, seed, theme, agents, played, turns, reward, outcome, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, r := range results {
		created := r.CreatedAt
		if created.IsZero() {
			created = now
		}
		if _, err := stmt.ExecContext(ctx,
			r.GameID, r.Seed, r.Theme, r.Agents, r.Played, r.Turns, r.Reward, string(r.Outcome),
			created.UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save result %s: %w", r.GameID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Recent returns up to limit results, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, seed, theme, agents, played, turns, reward, outcome, created_at
		   FROM game_results
		  ORDER BY created_at DESC, game_id DESC
		  LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r       Result
			outcome string
			created int64
		)
		if err := rows.Scan(&r.GameID, &r.Seed, &r.Theme, &r.Agents, &r.Played, &r.Turns, &r.Reward, &outcome, &created); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Outcome = statistics.Outcome(outcome)
		r.CreatedAt = time.UnixMilli(created).UTC()
		results = append(results, r)
	}
	return results, rows.Err()
}

// Statistics aggregates every stored result.
func (s *Store) Statistics(ctx context.Context) (*statistics.Statistics, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seed, agents, played, turns, reward, outcome FROM game_results ORDER BY created_at, game_id`)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	stats := &statistics.Statistics{}
	for rows.Next() {
		var (
			r       statistics.GameResult
			outcome string
		)
		if err := rows.Scan(&r.Seed, &r.Agents, &r.Played, &r.Turns, &r.Reward, &outcome); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Outcome = statistics.Outcome(outcome)
		stats.Add(r)
	}
	return stats, rows.Err()
}
