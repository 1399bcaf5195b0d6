package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/verte-zerg/glimpse/internal/model"
)

const (
	keyLang      = "lang"
	keyLength    = "length"
	keyCaps      = "caps"
	keySpeed     = "speed"
	keySpecial   = "special"
	keyHighScore = "high-score"
)

const upsertPreference = `INSERT INTO preferences (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`

// LoadSettings restores remembered settings. Unparseable values are left unset.
func (s *Store) LoadSettings(ctx context.Context) (model.StoredSettings, error) {
	prefs, err := s.preferences(ctx)
	if err != nil {
		return model.StoredSettings{}, err
	}
	var out model.StoredSettings
	if v, ok := prefs[keyLang]; ok && v != "" {
		lang := v
		out.Lang = &lang
	}
	if v, ok := prefs[keyLength]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			out.Length = &n
		}
	}
	if v, ok := prefs[keyCaps]; ok {
		if c, err := model.ParseCaps(v); err == nil {
			out.Caps = &c
		}
	}
	if v, ok := prefs[keySpeed]; ok {
		if sp, err := model.ParseSpeed(v); err == nil {
			out.Speed = &sp
		}
	}
	if v, ok := prefs[keySpecial]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			out.Special = &b
		}
	}
	return out, nil
}

// SaveSettings remembers settings for the next run.
func (s *Store) SaveSettings(ctx context.Context, settings model.Settings) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	values := [][2]string{
		{keyLang, settings.Lang},
		{keyLength, strconv.Itoa(settings.Length)},
		{keyCaps, settings.Caps.String()},
		{keySpeed, settings.Speed.String()},
		{keySpecial, strconv.FormatBool(settings.Special)},
	}
	for _, kv := range values {
		if _, err = tx.ExecContext(ctx, upsertPreference, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// HighScore returns the best streak so far, or 0.
func (s *Store) HighScore(ctx context.Context) (int, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, keyHighScore).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

// SetHighScore stores the best streak.
func (s *Store) SetHighScore(ctx context.Context, score int) error {
	_, err := s.db.ExecContext(ctx, upsertPreference, keyHighScore, strconv.Itoa(score))
	return err
}

func (s *Store) preferences(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	prefs := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		prefs[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return prefs, nil
}
