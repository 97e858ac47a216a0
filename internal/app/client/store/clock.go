package store

import (
	"context"
	"database/sql"
	"errors"
)

func (q *queries) SaveTimeClockEvent(ctx context.Context, e *TimeClockEvent) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO time_clock_event (client_id, server_id, sync_status, local_updated_at,
			employee_client_id, event_type, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			server_id = excluded.server_id,
			sync_status = excluded.sync_status,
			local_updated_at = excluded.local_updated_at
	`, e.ClientID, e.ServerID, string(e.SyncStatus), e.LocalUpdatedAt,
		e.EmployeeClientID, e.EventType, e.OccurredAt)
	return err
}

func (q *queries) GetTimeClockEvent(ctx context.Context, clientID string) (*TimeClockEvent, error) {
	var e TimeClockEvent
	var serverID sql.NullInt64
	var status string
	err := q.q.QueryRowContext(ctx, `
		SELECT client_id, server_id, sync_status, local_updated_at, employee_client_id, event_type, occurred_at
		FROM time_clock_event WHERE client_id = ?
	`, clientID).Scan(&e.ClientID, &serverID, &status, &e.LocalUpdatedAt, &e.EmployeeClientID, &e.EventType, &e.OccurredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.SyncStatus = SyncStatus(status)
	if serverID.Valid {
		v := serverID.Int64
		e.ServerID = &v
	}
	return &e, nil
}
