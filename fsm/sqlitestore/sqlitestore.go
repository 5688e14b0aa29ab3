// Package sqlitestore is a concrete fsm.Storage backend over SQLite: WAL
// pragmas, a single-connection pool, and CREATE TABLE IF NOT EXISTS
// migrations. FSM storage backends are treated as external collaborators
// elsewhere in this repo; this is the one reference backend tgdispatch
// ships alongside the core.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/basket/tgdispatch/fsm"
	"github.com/basket/tgdispatch/tgerrors"
)

// Store implements fsm.Storage over a single SQLite file. State and
// per-key value data are serialized with encoding/json into a single row
// per StorageKey.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the SQLite database at path,
// configuring WAL journaling and running schema migrations.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlitestore: empty path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlitestore: create directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	ctx := context.Background()
	if err := s.configurePragmas(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying *sql.DB for the janitor's TTL sweep.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) configurePragmas(ctx context.Context) error {
	for _, q := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	} {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("sqlitestore: pragma %q: %w", q, err)
		}
	}
	return nil
}

func (s *Store) initSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS fsm_state (
		bot_id     INTEGER NOT NULL,
		chat_id    INTEGER NOT NULL,
		user_id    INTEGER NOT NULL,
		destiny    TEXT NOT NULL,
		state      TEXT NOT NULL DEFAULT '',
		data       TEXT NOT NULL DEFAULT '{}',
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (bot_id, chat_id, user_id, destiny)
	);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlitestore: init schema: %w", err)
	}
	return nil
}

func (s *Store) ensureRow(ctx context.Context, key fsm.StorageKey) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fsm_state (bot_id, chat_id, user_id, destiny, state, data, updated_at)
		VALUES (?, ?, ?, ?, '', '{}', ?)
		ON CONFLICT (bot_id, chat_id, user_id, destiny) DO NOTHING`,
		key.BotID, key.ChatID, key.UserID, key.Destiny, time.Now().Unix())
	return err
}

// SetState implements fsm.Storage.
func (s *Store) SetState(ctx context.Context, key fsm.StorageKey, state string) error {
	if err := s.ensureRow(ctx, key); err != nil {
		return tgerrors.NewStorageError("set_state", err)
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE fsm_state SET state = ?, updated_at = ?
		WHERE bot_id = ? AND chat_id = ? AND user_id = ? AND destiny = ?`,
		state, time.Now().Unix(), key.BotID, key.ChatID, key.UserID, key.Destiny)
	if err != nil {
		return tgerrors.NewStorageError("set_state", err)
	}
	return nil
}

// GetState implements fsm.Storage.
func (s *Store) GetState(ctx context.Context, key fsm.StorageKey) (string, bool, error) {
	var state string
	err := s.db.QueryRowContext(ctx, `
		SELECT state FROM fsm_state
		WHERE bot_id = ? AND chat_id = ? AND user_id = ? AND destiny = ?`,
		key.BotID, key.ChatID, key.UserID, key.Destiny).Scan(&state)
	switch {
	case err == sql.ErrNoRows:
		return "", false, nil
	case err != nil:
		return "", false, tgerrors.NewStorageError("get_state", err)
	case state == "":
		return "", false, nil
	default:
		return state, true, nil
	}
}

// RemoveState implements fsm.Storage.
func (s *Store) RemoveState(ctx context.Context, key fsm.StorageKey) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE fsm_state SET state = '', updated_at = ?
		WHERE bot_id = ? AND chat_id = ? AND user_id = ? AND destiny = ?`,
		time.Now().Unix(), key.BotID, key.ChatID, key.UserID, key.Destiny)
	if err != nil {
		return tgerrors.NewStorageError("remove_state", err)
	}
	return nil
}

// SetData implements fsm.Storage.
func (s *Store) SetData(ctx context.Context, key fsm.StorageKey, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return tgerrors.NewStorageError("set_data", err)
	}
	if err := s.ensureRow(ctx, key); err != nil {
		return tgerrors.NewStorageError("set_data", err)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE fsm_state SET data = ?, updated_at = ?
		WHERE bot_id = ? AND chat_id = ? AND user_id = ? AND destiny = ?`,
		string(raw), time.Now().Unix(), key.BotID, key.ChatID, key.UserID, key.Destiny)
	if err != nil {
		return tgerrors.NewStorageError("set_data", err)
	}
	return nil
}

// GetData implements fsm.Storage.
func (s *Store) GetData(ctx context.Context, key fsm.StorageKey) (map[string]any, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM fsm_state
		WHERE bot_id = ? AND chat_id = ? AND user_id = ? AND destiny = ?`,
		key.BotID, key.ChatID, key.UserID, key.Destiny).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		return map[string]any{}, nil
	case err != nil:
		return nil, tgerrors.NewStorageError("get_data", err)
	}
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	out := make(map[string]any)
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, tgerrors.NewStorageError("get_data", err)
	}
	return out, nil
}

// RemoveData implements fsm.Storage.
func (s *Store) RemoveData(ctx context.Context, key fsm.StorageKey) error {
	return s.SetData(ctx, key, map[string]any{})
}

// SetValue implements fsm.Storage by reading the whole data map,
// mutating one key and writing it back. Per-call atomicity is provided by
// running inside one SQLite transaction; cross-call atomicity is not
// required.
func (s *Store) SetValue(ctx context.Context, key fsm.StorageKey, name string, value any) error {
	return s.withDataTx(ctx, key, func(data map[string]any) {
		data[name] = value
	})
}

// GetValue implements fsm.Storage.
func (s *Store) GetValue(ctx context.Context, key fsm.StorageKey, name string) (any, bool, error) {
	data, err := s.GetData(ctx, key)
	if err != nil {
		return nil, false, err
	}
	v, ok := data[name]
	return v, ok, nil
}

// RemoveValue implements fsm.Storage.
func (s *Store) RemoveValue(ctx context.Context, key fsm.StorageKey, name string) error {
	return s.withDataTx(ctx, key, func(data map[string]any) {
		delete(data, name)
	})
}

func (s *Store) withDataTx(ctx context.Context, key fsm.StorageKey, mutate func(map[string]any)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return tgerrors.NewStorageError("set_value", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO fsm_state (bot_id, chat_id, user_id, destiny, state, data, updated_at)
		VALUES (?, ?, ?, ?, '', '{}', ?)
		ON CONFLICT (bot_id, chat_id, user_id, destiny) DO NOTHING`,
		key.BotID, key.ChatID, key.UserID, key.Destiny, time.Now().Unix()); err != nil {
		return tgerrors.NewStorageError("set_value", err)
	}

	var raw string
	err = tx.QueryRowContext(ctx, `
		SELECT data FROM fsm_state
		WHERE bot_id = ? AND chat_id = ? AND user_id = ? AND destiny = ?`,
		key.BotID, key.ChatID, key.UserID, key.Destiny).Scan(&raw)
	if err != nil {
		return tgerrors.NewStorageError("set_value", err)
	}

	data := make(map[string]any)
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return tgerrors.NewStorageError("set_value", err)
		}
	}
	mutate(data)

	out, err := json.Marshal(data)
	if err != nil {
		return tgerrors.NewStorageError("set_value", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE fsm_state SET data = ?, updated_at = ?
		WHERE bot_id = ? AND chat_id = ? AND user_id = ? AND destiny = ?`,
		string(out), time.Now().Unix(), key.BotID, key.ChatID, key.UserID, key.Destiny); err != nil {
		return tgerrors.NewStorageError("set_value", err)
	}

	return tx.Commit()
}

// SweepExpired deletes rows with an empty state, an empty data map and an
// updated_at older than olderThan — used by internal/janitor's periodic
// TTL sweep. It returns the number of rows removed.
func (s *Store) SweepExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM fsm_state
		WHERE state = '' AND (data = '' OR data = '{}') AND updated_at < ?`,
		olderThan.Unix())
	if err != nil {
		return 0, tgerrors.NewStorageError("sweep", err)
	}
	return res.RowsAffected()
}

var _ fsm.Storage = (*Store)(nil)
