// Package sqlite implements storage.Store on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/jobfiltr/internal/storage"
	"github.com/jonathan/jobfiltr/internal/types"
	_ "modernc.org/sqlite"
)

const (
	keySettings = "settings"
	keyPro      = "pro_status"
)

// Store is a storage.Store backed by SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ storage.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Migrate creates the schema. It is versioned with PRAGMA user_version.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS keywords (
  list TEXT NOT NULL,
  value TEXT NOT NULL,
  position INTEGER NOT NULL,
  PRIMARY KEY (list, value)
);`,
		`CREATE TABLE IF NOT EXISTS blocklist (
  company_name_normalized TEXT PRIMARY KEY,
  company_name TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  verified INTEGER NOT NULL DEFAULT 0,
  confidence REAL NOT NULL DEFAULT 0,
  submitted_count INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS score_cache (
  job_id TEXT PRIMARY KEY,
  version TEXT NOT NULL,
  expires_at INTEGER NOT NULL,
  data TEXT NOT NULL
);`,
		`PRAGMA user_version = 1;`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(raw), dst)
}

func (s *Store) putJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, string(raw))
	return err
}

func (s *Store) loadToggles(ctx context.Context) (types.FilterSettings, error) {
	settings := types.DefaultSettings()
	if _, err := s.getJSON(ctx, keySettings, &settings); err != nil {
		return types.FilterSettings{}, err
	}
	if !settings.MatchMode.Valid() {
		settings.MatchMode = types.MatchAny
	}
	return settings, nil
}

func (s *Store) GetSettings(ctx context.Context) (types.FilterSettings, error) {
	settings, err := s.loadToggles(ctx)
	if err != nil {
		return types.FilterSettings{}, &storage.StoreError{Op: "get settings", Cause: err}
	}
	pro, err := s.GetProStatus(ctx)
	if err != nil {
		return types.FilterSettings{}, err
	}
	settings.IsPro = pro.IsPro

	lists := map[types.KeywordList]*[]string{
		types.ListIncludeKeywords:  &settings.IncludeKeywords,
		types.ListExcludeKeywords:  &settings.ExcludeKeywords,
		types.ListExcludeCompanies: &settings.ExcludeCompanies,
	}
	for list, dst := range lists {
		values, err := s.GetKeywords(ctx, list)
		if err != nil {
			return types.FilterSettings{}, err
		}
		*dst = values
	}
	return settings, nil
}

func (s *Store) UpdateSettings(ctx context.Context, settings types.FilterSettings) error {
	if err := settings.Validate(); err != nil {
		return &storage.StoreError{Op: "update settings", Cause: err}
	}
	stored := types.FilterSettings{
		HideGhostJobs:     settings.HideGhostJobs,
		HideStaffingFirms: settings.HideStaffingFirms,
		VerifyTrueRemote:  settings.VerifyTrueRemote,
		MatchMode:         settings.MatchMode,
	}
	if !stored.MatchMode.Valid() {
		current, err := s.loadToggles(ctx)
		if err != nil {
			return &storage.StoreError{Op: "update settings", Cause: err}
		}
		stored.MatchMode = current.MatchMode
	}
	if err := s.putJSON(ctx, keySettings, stored); err != nil {
		return &storage.StoreError{Op: "update settings", Cause: err}
	}
	return nil
}

func (s *Store) GetProStatus(ctx context.Context) (types.ProStatus, error) {
	var status types.ProStatus
	if _, err := s.getJSON(ctx, keyPro, &status); err != nil {
		return types.ProStatus{}, &storage.StoreError{Op: "get pro status", Cause: err}
	}
	return status, nil
}

func (s *Store) SetProStatus(ctx context.Context, status types.ProStatus) error {
	if err := s.putJSON(ctx, keyPro, status); err != nil {
		return &storage.StoreError{Op: "set pro status", Cause: err}
	}
	return nil
}

func (s *Store) GetKeywords(ctx context.Context, list types.KeywordList) ([]string, error) {
	if !list.Valid() {
		return nil, storage.ErrUnknownList
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT value FROM keywords WHERE list = ? ORDER BY position`, string(list))
	if err != nil {
		return nil, &storage.StoreError{Op: "get " + string(list), Cause: err}
	}
	defer func() { _ = rows.Close() }()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, &storage.StoreError{Op: "get " + string(list), Cause: err}
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.StoreError{Op: "get " + string(list), Cause: err}
	}
	return values, nil
}

// AddKeyword appends value to list. Blank values and exact duplicates are ignored.
func (s *Store) AddKeyword(ctx context.Context, list types.KeywordList, value string) error {
	if !list.Valid() {
		return storage.ErrUnknownList
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO keywords (list, value, position)
VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM keywords WHERE list = ?))`,
		string(list), value, string(list))
	if err != nil {
		return &storage.StoreError{Op: "add to " + string(list), Cause: err}
	}
	return nil
}

func (s *Store) RemoveKeyword(ctx context.Context, list types.KeywordList, value string) error {
	if !list.Valid() {
		return storage.ErrUnknownList
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM keywords WHERE list = ? AND value = ?`, string(list), strings.TrimSpace(value))
	if err != nil {
		return &storage.StoreError{Op: "remove from " + string(list), Cause: err}
	}
	return nil
}

func (s *Store) GetMatchMode(ctx context.Context) (types.MatchMode, error) {
	settings, err := s.loadToggles(ctx)
	if err != nil {
		return "", &storage.StoreError{Op: "get match mode", Cause: err}
	}
	return settings.MatchMode, nil
}

func (s *Store) SetMatchMode(ctx context.Context, mode types.MatchMode) error {
	if !mode.Valid() {
		return &storage.StoreError{Op: "set match mode", Cause: fmt.Errorf("invalid match mode %q", mode)}
	}
	settings, err := s.loadToggles(ctx)
	if err != nil {
		return &storage.StoreError{Op: "set match mode", Cause: err}
	}
	settings.MatchMode = mode
	if err := s.putJSON(ctx, keySettings, settings); err != nil {
		return &storage.StoreError{Op: "set match mode", Cause: err}
	}
	return nil
}
