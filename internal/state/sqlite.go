package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mathsticks/internal/game"
)

type SQLiteStore struct {
	db *sql.DB
}

var (
	_ game.KV       = (*SQLiteStore)(nil)
	_ game.Recorder = (*SQLiteStore)(nil)
)

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer; the game never needs more.
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_stats (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			runs_played INTEGER NOT NULL DEFAULT 0,
			total_rounds INTEGER NOT NULL DEFAULT 0,
			total_score INTEGER NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0,
			best_rounds INTEGER NOT NULL DEFAULT 0,
			new_highs INTEGER NOT NULL DEFAULT 0,
			last_played_ts TEXT NOT NULL DEFAULT ''
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Get reads one setting. A missing key is not an error.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	k := strings.TrimSpace(key)
	if k == "" {
		return fmt.Errorf("set: empty key")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_settings(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, k, value)
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM app_settings WHERE key = ?`, key); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun folds a finished run into the aggregate row.
func (s *SQLiteStore) RecordRun(ctx context.Context, run game.RunSummary) error {
	ended := run.EndedAt
	if ended.IsZero() {
		ended = time.Now().UTC()
	}
	best := game.HighScore{Score: max(0, run.Score), Rounds: max(0, run.Rounds)}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO run_stats(id, runs_played, total_rounds, total_score, best_score, best_rounds, new_highs, last_played_ts)
		VALUES(1, 1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			runs_played = run_stats.runs_played + 1,
			total_rounds = run_stats.total_rounds + excluded.total_rounds,
			total_score = run_stats.total_score + excluded.total_score,
			best_rounds = CASE
				WHEN excluded.best_score > run_stats.best_score
					OR (excluded.best_score = run_stats.best_score AND excluded.best_rounds > run_stats.best_rounds)
				THEN excluded.best_rounds
				ELSE run_stats.best_rounds
			END,
			best_score = MAX(run_stats.best_score, excluded.best_score),
			new_highs = run_stats.new_highs + excluded.new_highs,
			last_played_ts = excluded.last_played_ts
	`,
		best.Rounds,
		best.Score,
		best.Score,
		best.Rounds,
		ifThen(run.NewHighScore, 1, 0),
		ended.UTC().Format(timeLayout),
	)
	return err
}

func (s *SQLiteStore) GetSummary(ctx context.Context) (Summary, error) {
	var (
		out     Summary
		lastRaw string
	)
	row := s.db.QueryRowContext(ctx, `
		SELECT runs_played, total_rounds, total_score, best_score, best_rounds, new_highs, last_played_ts
		FROM run_stats
		WHERE id = 1
	`)
	err := row.Scan(&out.RunsPlayed, &out.TotalRounds, &out.TotalScore, &out.BestScore, &out.BestRounds, &out.NewHighs, &lastRaw)
	if err != nil {
		if err == sql.ErrNoRows {
			return Summary{}, nil
		}
		return Summary{}, err
	}
	if t, err := time.Parse(timeLayout, lastRaw); err == nil {
		out.LastPlayedTS = t
	}
	return out, nil
}

// ResetStats clears the aggregate row.
func (s *SQLiteStore) ResetStats(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM run_stats`)
	return err
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func ifThen(cond bool, yes, no int) int {
	if cond {
		return yes
	}
	return no
}
