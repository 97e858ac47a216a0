package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

func scanServerFields(serverID *sql.NullInt64, updatedAt *sql.NullTime) (*int64, time.Time) {
	var id *int64
	if serverID.Valid {
		v := serverID.Int64
		id = &v
	}
	var at time.Time
	if updatedAt.Valid {
		at = updatedAt.Time
	}
	return id, at
}

const personSelect = `
	SELECT client_id, server_id, cpf, name, sync_status, local_updated_at, updated_at
	FROM person`

func scanPerson(row interface{ Scan(...any) error }) (*Person, error) {
	var p Person
	var serverID sql.NullInt64
	var updatedAt sql.NullTime
	var status string
	err := row.Scan(&p.ClientID, &serverID, &p.CPF, &p.Name, &status, &p.LocalUpdatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.SyncStatus = SyncStatus(status)
	p.ServerID, p.UpdatedAt = scanServerFields(&serverID, &updatedAt)
	return &p, nil
}

// SavePerson inserts or fully replaces the row keyed by client_id.
func (q *queries) SavePerson(ctx context.Context, p *Person) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO person (client_id, server_id, cpf, name, sync_status, local_updated_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			server_id = excluded.server_id,
			cpf = excluded.cpf,
			name = excluded.name,
			sync_status = excluded.sync_status,
			local_updated_at = excluded.local_updated_at,
			updated_at = excluded.updated_at
	`, p.ClientID, p.ServerID, p.CPF, p.Name, string(p.SyncStatus), p.LocalUpdatedAt, nullTime(p.UpdatedAt))
	return err
}

func (q *queries) GetPerson(ctx context.Context, clientID string) (*Person, error) {
	return scanPerson(q.q.QueryRowContext(ctx, personSelect+` WHERE client_id = ?`, clientID))
}

func (q *queries) GetPersonByServerID(ctx context.Context, serverID int64) (*Person, error) {
	return scanPerson(q.q.QueryRowContext(ctx, personSelect+` WHERE server_id = ?`, serverID))
}

// GetPersonByCPF matches active records only; DELETED rows do not hold
// the cpf.
func (q *queries) GetPersonByCPF(ctx context.Context, cpf string) (*Person, error) {
	return scanPerson(q.q.QueryRowContext(ctx, personSelect+` WHERE cpf = ? AND sync_status != ?`, cpf, string(StatusDeleted)))
}

func (q *queries) ListPersons(ctx context.Context) ([]Person, error) {
	rows, err := q.q.QueryContext(ctx, personSelect+` WHERE sync_status != ? ORDER BY name`, string(StatusDeleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (q *queries) DeletePerson(ctx context.Context, clientID string) error {
	_, err := q.q.ExecContext(ctx, `DELETE FROM person WHERE client_id = ?`, clientID)
	return err
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
