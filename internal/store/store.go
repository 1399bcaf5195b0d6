// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/glimpse/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for preferences and round history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			played_at TEXT NOT NULL,
			lang TEXT NOT NULL,
			length INTEGER NOT NULL,
			caps TEXT NOT NULL,
			speed TEXT NOT NULL,
			target TEXT NOT NULL,
			input TEXT NOT NULL,
			correct INTEGER NOT NULL,
			streak INTEGER NOT NULL,
			delay_ms INTEGER NOT NULL,
			response_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_played_at ON rounds(played_at);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_lang ON rounds(lang);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRound stores a submitted round.
func (s *Store) InsertRound(ctx context.Context, r model.RoundRecord) (int64, error) {
	correct := 0
	if r.Correct {
		correct = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO rounds (session_id, played_at, lang, length, caps, speed, target, input, correct, streak, delay_ms, response_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID,
		r.PlayedAt.Format(time.RFC3339Nano),
		r.Lang,
		r.Length,
		r.Caps.String(),
		r.Speed.String(),
		r.Target,
		r.Input,
		correct,
		r.Streak,
		r.DelayMs,
		r.ResponseMs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRounds returns rounds filtered by stats config in play order.
func (s *Store) ListRounds(ctx context.Context, cfg model.StatsConfig) ([]model.RoundRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "played_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, session_id, played_at, lang, length, caps, speed, target, input, correct, streak, delay_ms, response_ms
		FROM rounds
		WHERE %s
		ORDER BY played_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var rounds []model.RoundRecord
	for rows.Next() {
		var r model.RoundRecord
		var playedAt, caps, speed string
		var correct int
		if err := rows.Scan(&r.ID, &r.SessionID, &playedAt, &r.Lang, &r.Length, &caps, &speed,
			&r.Target, &r.Input, &correct, &r.Streak, &r.DelayMs, &r.ResponseMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, playedAt)
		if err != nil {
			return nil, err
		}
		r.PlayedAt = parsed
		if r.Caps, err = model.ParseCaps(caps); err != nil {
			return nil, err
		}
		if r.Speed, err = model.ParseSpeed(speed); err != nil {
			return nil, err
		}
		r.Correct = correct != 0
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(rounds) > cfg.Last {
		rounds = rounds[len(rounds)-cfg.Last:]
	}
	return rounds, nil
}

// DeleteRounds removes the whole round history and returns the number of rows removed.
func (s *Store) DeleteRounds(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rounds`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
