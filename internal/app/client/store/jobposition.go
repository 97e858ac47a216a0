package store

import (
	"context"
	"database/sql"
	"errors"

	"pontosync/internal/domain/sync"
)

const jobPositionSelect = `
	SELECT client_id, server_id, name, description, sync_status, local_updated_at, updated_at
	FROM job_position`

func scanJobPosition(row interface{ Scan(...any) error }) (*JobPosition, error) {
	var jp JobPosition
	var serverID sql.NullInt64
	var updatedAt sql.NullTime
	var status string
	err := row.Scan(&jp.ClientID, &serverID, &jp.Name, &jp.Description, &status, &jp.LocalUpdatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	jp.SyncStatus = SyncStatus(status)
	jp.ServerID, jp.UpdatedAt = scanServerFields(&serverID, &updatedAt)
	return &jp, nil
}

func (q *queries) SaveJobPosition(ctx context.Context, jp *JobPosition) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO job_position (client_id, server_id, name, description, sync_status, local_updated_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			server_id = excluded.server_id,
			name = excluded.name,
			description = excluded.description,
			sync_status = excluded.sync_status,
			local_updated_at = excluded.local_updated_at,
			updated_at = excluded.updated_at
	`, jp.ClientID, jp.ServerID, jp.Name, jp.Description, string(jp.SyncStatus), jp.LocalUpdatedAt, nullTime(jp.UpdatedAt))
	return err
}

func (q *queries) GetJobPosition(ctx context.Context, clientID string) (*JobPosition, error) {
	return scanJobPosition(q.q.QueryRowContext(ctx, jobPositionSelect+` WHERE client_id = ?`, clientID))
}

func (q *queries) GetJobPositionByServerID(ctx context.Context, serverID int64) (*JobPosition, error) {
	return scanJobPosition(q.q.QueryRowContext(ctx, jobPositionSelect+` WHERE server_id = ?`, serverID))
}

// GetJobPositionByNormalizedName compares against the whitespace-collapsed
// lowercase form used as the natural key.
func (q *queries) GetJobPositionByNormalizedName(ctx context.Context, normalized string) (*JobPosition, error) {
	rows, err := q.q.QueryContext(ctx, jobPositionSelect+` WHERE sync_status != ?`, string(StatusDeleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		jp, err := scanJobPosition(rows)
		if err != nil {
			return nil, err
		}
		if sync.NormalizeJobName(jp.Name) == normalized {
			return jp, nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNotFound
}

func (q *queries) ListJobPositions(ctx context.Context) ([]JobPosition, error) {
	rows, err := q.q.QueryContext(ctx, jobPositionSelect+` WHERE sync_status != ? ORDER BY name`, string(StatusDeleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JobPosition
	for rows.Next() {
		jp, err := scanJobPosition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *jp)
	}
	return out, rows.Err()
}

func (q *queries) CountEmployeesByJobPosition(ctx context.Context, jobPositionClientID string) (int, error) {
	var count int
	err := q.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM employee WHERE job_position_client_id = ? AND sync_status != ?
	`, jobPositionClientID, string(StatusDeleted)).Scan(&count)
	return count, err
}

func (q *queries) DeleteJobPosition(ctx context.Context, clientID string) error {
	_, err := q.q.ExecContext(ctx, `DELETE FROM job_position WHERE client_id = ?`, clientID)
	return err
}
