package store

import (
	"context"
	"database/sql"
	"errors"
)

const employeeSelect = `
	SELECT client_id, server_id, person_client_id, registration_number, job_position_client_id,
	       sync_status, local_updated_at, updated_at
	FROM employee`

func scanEmployee(row interface{ Scan(...any) error }) (*Employee, error) {
	var e Employee
	var serverID sql.NullInt64
	var updatedAt sql.NullTime
	var status string
	err := row.Scan(&e.ClientID, &serverID, &e.PersonClientID, &e.RegistrationNumber,
		&e.JobPositionClientID, &status, &e.LocalUpdatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.SyncStatus = SyncStatus(status)
	e.ServerID, e.UpdatedAt = scanServerFields(&serverID, &updatedAt)
	return &e, nil
}

func (q *queries) SaveEmployee(ctx context.Context, e *Employee) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO employee (client_id, server_id, person_client_id, registration_number,
			job_position_client_id, sync_status, local_updated_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			server_id = excluded.server_id,
			person_client_id = excluded.person_client_id,
			registration_number = excluded.registration_number,
			job_position_client_id = excluded.job_position_client_id,
			sync_status = excluded.sync_status,
			local_updated_at = excluded.local_updated_at,
			updated_at = excluded.updated_at
	`, e.ClientID, e.ServerID, e.PersonClientID, e.RegistrationNumber,
		e.JobPositionClientID, string(e.SyncStatus), e.LocalUpdatedAt, nullTime(e.UpdatedAt))
	return err
}

func (q *queries) GetEmployee(ctx context.Context, clientID string) (*Employee, error) {
	return scanEmployee(q.q.QueryRowContext(ctx, employeeSelect+` WHERE client_id = ?`, clientID))
}

func (q *queries) GetEmployeeByServerID(ctx context.Context, serverID int64) (*Employee, error) {
	return scanEmployee(q.q.QueryRowContext(ctx, employeeSelect+` WHERE server_id = ?`, serverID))
}

func (q *queries) GetEmployeeByRegistration(ctx context.Context, registration string) (*Employee, error) {
	return scanEmployee(q.q.QueryRowContext(ctx, employeeSelect+` WHERE registration_number = ? AND sync_status != ?`, registration, string(StatusDeleted)))
}

func (q *queries) GetEmployeeByPerson(ctx context.Context, personClientID string) (*Employee, error) {
	return scanEmployee(q.q.QueryRowContext(ctx, employeeSelect+` WHERE person_client_id = ? AND sync_status != ?`, personClientID, string(StatusDeleted)))
}

func (q *queries) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := q.q.QueryContext(ctx, employeeSelect+` WHERE sync_status != ? ORDER BY registration_number`, string(StatusDeleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (q *queries) DeleteEmployee(ctx context.Context, clientID string) error {
	_, err := q.q.ExecContext(ctx, `DELETE FROM employee WHERE client_id = ?`, clientID)
	return err
}
