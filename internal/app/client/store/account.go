package store

import (
	"context"
	"database/sql"
	"errors"
)

const accountSelect = `
	SELECT client_id, server_id, person_client_id, username, account_type, is_active,
	       sync_status, local_updated_at, updated_at
	FROM user_account`

func scanAccount(row interface{ Scan(...any) error }) (*UserAccount, error) {
	var a UserAccount
	var serverID sql.NullInt64
	var updatedAt sql.NullTime
	var status string
	err := row.Scan(&a.ClientID, &serverID, &a.PersonClientID, &a.Username, &a.AccountType,
		&a.IsActive, &status, &a.LocalUpdatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.SyncStatus = SyncStatus(status)
	a.ServerID, a.UpdatedAt = scanServerFields(&serverID, &updatedAt)
	return &a, nil
}

func (q *queries) SaveUserAccount(ctx context.Context, a *UserAccount) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO user_account (client_id, server_id, person_client_id, username, account_type,
			is_active, sync_status, local_updated_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			server_id = excluded.server_id,
			person_client_id = excluded.person_client_id,
			username = excluded.username,
			account_type = excluded.account_type,
			is_active = excluded.is_active,
			sync_status = excluded.sync_status,
			local_updated_at = excluded.local_updated_at,
			updated_at = excluded.updated_at
	`, a.ClientID, a.ServerID, a.PersonClientID, a.Username, a.AccountType,
		a.IsActive, string(a.SyncStatus), a.LocalUpdatedAt, nullTime(a.UpdatedAt))
	return err
}

func (q *queries) GetUserAccount(ctx context.Context, clientID string) (*UserAccount, error) {
	return scanAccount(q.q.QueryRowContext(ctx, accountSelect+` WHERE client_id = ?`, clientID))
}

func (q *queries) GetUserAccountByServerID(ctx context.Context, serverID int64) (*UserAccount, error) {
	return scanAccount(q.q.QueryRowContext(ctx, accountSelect+` WHERE server_id = ?`, serverID))
}

func (q *queries) GetUserAccountByUsername(ctx context.Context, username string) (*UserAccount, error) {
	return scanAccount(q.q.QueryRowContext(ctx, accountSelect+` WHERE username = ? AND sync_status != ?`, username, string(StatusDeleted)))
}

func (q *queries) GetUserAccountByPerson(ctx context.Context, personClientID string) (*UserAccount, error) {
	return scanAccount(q.q.QueryRowContext(ctx, accountSelect+` WHERE person_client_id = ? AND sync_status != ?`, personClientID, string(StatusDeleted)))
}

func (q *queries) DeleteUserAccount(ctx context.Context, clientID string) error {
	_, err := q.q.ExecContext(ctx, `DELETE FROM user_account WHERE client_id = ?`, clientID)
	return err
}
