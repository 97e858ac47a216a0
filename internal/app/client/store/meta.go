package store

import (
	"context"
	"database/sql"
	"errors"
)

// Fixed app_meta keys.
const (
	MetaAuthToken        = "auth_token"
	MetaLastSyncAt       = "last_sync_at"
	MetaUserServerID     = "user_server_id"
	MetaEmployeeServerID = "employee_server_id"
	MetaUsername         = "username"
)

// GetMeta returns "" for missing keys.
func (q *queries) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := q.q.QueryRowContext(ctx, `SELECT value FROM app_meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (q *queries) SetMeta(ctx context.Context, key, value string) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO app_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (q *queries) DeleteMeta(ctx context.Context, key string) error {
	_, err := q.q.ExecContext(ctx, `DELETE FROM app_meta WHERE key = ?`, key)
	return err
}
