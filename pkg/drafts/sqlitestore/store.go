// Package sqlitestore keeps drafts in a SQLite database file.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/NamazuStudios/elements-formgen/pkg/drafts"
	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
)

const schema = `CREATE TABLE IF NOT EXISTS drafts (
	resource    TEXT    NOT NULL,
	mode        TEXT    NOT NULL,
	item_id     TEXT    NOT NULL DEFAULT '',
	values_json TEXT    NOT NULL,
	saved_at    INTEGER NOT NULL,
	PRIMARY KEY (resource, mode, item_id)
)`

// Store is a drafts.Store backed by SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ drafts.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and ensures the drafts
// table exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlitestore: storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlitestore: ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlitestore: create drafts table: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save upserts the draft stored under key.
func (s *Store) Save(ctx context.Context, key drafts.Key, values metadata.ValueTree) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := key.Validate(); err != nil {
		return err
	}
	if values == nil {
		values = metadata.ValueTree{}
	}
	payload, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("sqlitestore: encode draft %s: %w", key, err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO drafts (resource, mode, item_id, values_json, saved_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (resource, mode, item_id) DO UPDATE SET
		   values_json = excluded.values_json,
		   saved_at = excluded.saved_at`,
		key.Resource,
		key.Mode,
		key.ItemID,
		string(payload),
		s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("sqlitestore: save draft %s: %w", key, err)
	}
	return nil
}

// Load returns the draft stored under key.
func (s *Store) Load(ctx context.Context, key drafts.Key) (drafts.Draft, error) {
	if err := ctx.Err(); err != nil {
		return drafts.Draft{}, err
	}
	if err := key.Validate(); err != nil {
		return drafts.Draft{}, err
	}

	var (
		payload string
		savedAt int64
	)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT values_json, saved_at FROM drafts WHERE resource = ? AND mode = ? AND item_id = ?`,
		key.Resource,
		key.Mode,
		key.ItemID,
	).Scan(&payload, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return drafts.Draft{}, fmt.Errorf("%w: %s", drafts.ErrNotFound, key)
	}
	if err != nil {
		return drafts.Draft{}, fmt.Errorf("sqlitestore: load draft %s: %w", key, err)
	}

	values := metadata.ValueTree{}
	if err := json.Unmarshal([]byte(payload), &values); err != nil {
		return drafts.Draft{}, fmt.Errorf("sqlitestore: decode draft %s: %w", key, err)
	}
	return drafts.Draft{
		Key:     key,
		Values:  values,
		SavedAt: time.UnixMilli(savedAt).UTC(),
	}, nil
}

// Delete removes the draft stored under key.
func (s *Store) Delete(ctx context.Context, key drafts.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := key.Validate(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM drafts WHERE resource = ? AND mode = ? AND item_id = ?`,
		key.Resource,
		key.Mode,
		key.ItemID,
	)
	if err != nil {
		return fmt.Errorf("sqlitestore: delete draft %s: %w", key, err)
	}
	return nil
}

// Keys lists the stored draft keys for resource, or every key when resource
// is empty.
func (s *Store) Keys(ctx context.Context, resource string) ([]drafts.Key, error) {
	query := `SELECT resource, mode, item_id FROM drafts`
	var args []any
	if resource = strings.TrimSpace(resource); resource != "" {
		query += ` WHERE resource = ?`
		args = append(args, resource)
	}
	query += ` ORDER BY resource, mode, item_id`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: list drafts: %w", err)
	}
	defer rows.Close()

	var keys []drafts.Key
	for rows.Next() {
		var key drafts.Key
		if err := rows.Scan(&key.Resource, &key.Mode, &key.ItemID); err != nil {
			return nil, fmt.Errorf("sqlitestore: scan draft key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitestore: list drafts: %w", err)
	}
	return keys, nil
}
