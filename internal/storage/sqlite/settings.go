package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Flag reads a persisted boolean setting. Unknown keys read as false.
func (s *Store) Flag(ctx context.Context, key string) (bool, error) {
	var value bool
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

// SetFlag stores a boolean setting, replacing any previous value.
func (s *Store) SetFlag(ctx context.Context, key string, value bool) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO settings(key, value, updated_at) VALUES(?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	s.notify(ChangeUpdate, EntitySetting, key)
	return nil
}
