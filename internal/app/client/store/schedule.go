package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const scheduleSelect = `
	SELECT client_id, server_id, employee_client_id, name, sync_status, local_updated_at, updated_at
	FROM schedule`

func scanSchedule(row interface{ Scan(...any) error }) (*Schedule, error) {
	var s Schedule
	var serverID sql.NullInt64
	var updatedAt sql.NullTime
	var status string
	err := row.Scan(&s.ClientID, &serverID, &s.EmployeeClientID, &s.Name, &status, &s.LocalUpdatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.SyncStatus = SyncStatus(status)
	s.ServerID, s.UpdatedAt = scanServerFields(&serverID, &updatedAt)
	return &s, nil
}

func (q *queries) SaveSchedule(ctx context.Context, s *Schedule) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO schedule (client_id, server_id, employee_client_id, name, sync_status, local_updated_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			server_id = excluded.server_id,
			employee_client_id = excluded.employee_client_id,
			name = excluded.name,
			sync_status = excluded.sync_status,
			local_updated_at = excluded.local_updated_at,
			updated_at = excluded.updated_at
	`, s.ClientID, s.ServerID, s.EmployeeClientID, s.Name, string(s.SyncStatus), s.LocalUpdatedAt, nullTime(s.UpdatedAt))
	return err
}

func (q *queries) GetSchedule(ctx context.Context, clientID string) (*Schedule, error) {
	return scanSchedule(q.q.QueryRowContext(ctx, scheduleSelect+` WHERE client_id = ?`, clientID))
}

func (q *queries) GetScheduleByServerID(ctx context.Context, serverID int64) (*Schedule, error) {
	return scanSchedule(q.q.QueryRowContext(ctx, scheduleSelect+` WHERE server_id = ?`, serverID))
}

// ListSchedulesByEmployee returns every active schedule of one employee.
// Transient duplicates can exist until a pull dedups them, so mutations
// span all of them.
func (q *queries) ListSchedulesByEmployee(ctx context.Context, employeeClientID string) ([]Schedule, error) {
	rows, err := q.q.QueryContext(ctx, scheduleSelect+` WHERE employee_client_id = ? AND sync_status != ? ORDER BY client_id`, employeeClientID, string(StatusDeleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (q *queries) DeleteSchedule(ctx context.Context, clientID string) error {
	_, err := q.q.ExecContext(ctx, `DELETE FROM schedule WHERE client_id = ?`, clientID)
	return err
}

const scheduleHourSelect = `
	SELECT client_id, server_id, schedule_client_id, weekday, start_minutes, end_minutes,
	       block_type, notes, sync_status, local_updated_at, updated_at
	FROM schedule_hour`

func scanScheduleHour(row interface{ Scan(...any) error }) (*ScheduleHour, error) {
	var h ScheduleHour
	var serverID sql.NullInt64
	var updatedAt sql.NullTime
	var status string
	err := row.Scan(&h.ClientID, &serverID, &h.ScheduleClientID, &h.Weekday, &h.StartMinutes,
		&h.EndMinutes, &h.BlockType, &h.Notes, &status, &h.LocalUpdatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	h.SyncStatus = SyncStatus(status)
	h.ServerID, h.UpdatedAt = scanServerFields(&serverID, &updatedAt)
	return &h, nil
}

func (q *queries) SaveScheduleHour(ctx context.Context, h *ScheduleHour) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO schedule_hour (client_id, server_id, schedule_client_id, weekday, start_minutes,
			end_minutes, block_type, notes, sync_status, local_updated_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			server_id = excluded.server_id,
			schedule_client_id = excluded.schedule_client_id,
			weekday = excluded.weekday,
			start_minutes = excluded.start_minutes,
			end_minutes = excluded.end_minutes,
			block_type = excluded.block_type,
			notes = excluded.notes,
			sync_status = excluded.sync_status,
			local_updated_at = excluded.local_updated_at,
			updated_at = excluded.updated_at
	`, h.ClientID, h.ServerID, h.ScheduleClientID, h.Weekday, h.StartMinutes,
		h.EndMinutes, h.BlockType, h.Notes, string(h.SyncStatus), h.LocalUpdatedAt, nullTime(h.UpdatedAt))
	return err
}

func (q *queries) GetScheduleHour(ctx context.Context, clientID string) (*ScheduleHour, error) {
	return scanScheduleHour(q.q.QueryRowContext(ctx, scheduleHourSelect+` WHERE client_id = ?`, clientID))
}

func (q *queries) GetScheduleHourByServerID(ctx context.Context, serverID int64) (*ScheduleHour, error) {
	return scanScheduleHour(q.q.QueryRowContext(ctx, scheduleHourSelect+` WHERE server_id = ?`, serverID))
}

func (q *queries) ListScheduleHoursBySchedule(ctx context.Context, scheduleClientID string) ([]ScheduleHour, error) {
	rows, err := q.q.QueryContext(ctx, scheduleHourSelect+` WHERE schedule_client_id = ? AND sync_status != ? ORDER BY weekday, start_minutes`, scheduleClientID, string(StatusDeleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScheduleHours(rows)
}

func (q *queries) ListScheduleHoursByDay(ctx context.Context, scheduleClientID string, weekday int) ([]ScheduleHour, error) {
	rows, err := q.q.QueryContext(ctx, scheduleHourSelect+` WHERE schedule_client_id = ? AND weekday = ? AND sync_status != ? ORDER BY start_minutes`, scheduleClientID, weekday, string(StatusDeleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScheduleHours(rows)
}

func collectScheduleHours(rows *sql.Rows) ([]ScheduleHour, error) {
	var out []ScheduleHour
	for rows.Next() {
		h, err := scanScheduleHour(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

func (q *queries) DeleteScheduleHour(ctx context.Context, clientID string) error {
	_, err := q.q.ExecContext(ctx, `DELETE FROM schedule_hour WHERE client_id = ?`, clientID)
	return err
}

// MarkScheduleHoursDeletedByDay tombstones every active hour of one
// weekday. The rows stay until the server confirms the day action.
func (q *queries) MarkScheduleHoursDeletedByDay(ctx context.Context, scheduleClientID string, weekday int, at time.Time) error {
	_, err := q.q.ExecContext(ctx, `
		UPDATE schedule_hour SET sync_status = ?, local_updated_at = ?
		WHERE schedule_client_id = ? AND weekday = ? AND sync_status != ?
	`, string(StatusDeleted), at, scheduleClientID, weekday, string(StatusDeleted))
	return err
}

// PurgeDeletedScheduleHoursByDay hard-removes the tombstones of one
// weekday once the server acknowledged the replacing action.
func (q *queries) PurgeDeletedScheduleHoursByDay(ctx context.Context, scheduleClientID string, weekday int) error {
	_, err := q.q.ExecContext(ctx, `
		DELETE FROM schedule_hour WHERE schedule_client_id = ? AND weekday = ? AND sync_status = ?
	`, scheduleClientID, weekday, string(StatusDeleted))
	return err
}

func (q *queries) DeleteScheduleHoursBySchedule(ctx context.Context, scheduleClientID string) error {
	_, err := q.q.ExecContext(ctx, `DELETE FROM schedule_hour WHERE schedule_client_id = ?`, scheduleClientID)
	return err
}

// CleanupDuplicateScheduleHours removes active copies sharing (schedule,
// weekday, start, end, block_type), preferring the copy that already has
// a server_id, then the oldest. Tombstones awaiting a confirmed delete
// are not part of the scan. Runs after a pull merge.
func (q *queries) CleanupDuplicateScheduleHours(ctx context.Context) (int, error) {
	rows, err := q.q.QueryContext(ctx, scheduleHourSelect+` WHERE sync_status != ? ORDER BY schedule_client_id, weekday, start_minutes`, string(StatusDeleted))
	if err != nil {
		return 0, err
	}
	hours, err := collectScheduleHours(rows)
	rows.Close()
	if err != nil {
		return 0, err
	}

	type key struct {
		schedule  string
		weekday   int
		start     int
		end       int
		blockType string
	}

	keep := map[key]ScheduleHour{}
	var drop []string
	for _, h := range hours {
		k := key{h.ScheduleClientID, h.Weekday, h.StartMinutes, h.EndMinutes, h.BlockType}
		current, seen := keep[k]
		if !seen {
			keep[k] = h
			continue
		}
		if current.ServerID == nil && h.ServerID != nil {
			drop = append(drop, current.ClientID)
			keep[k] = h
		} else {
			drop = append(drop, h.ClientID)
		}
	}

	for _, id := range drop {
		if err := q.DeleteScheduleHour(ctx, id); err != nil {
			return 0, fmt.Errorf("falha ao remover horário duplicado: %w", err)
		}
	}
	return len(drop), nil
}

// TouchSchedule marks a schedule dirty after its hours changed.
func (q *queries) TouchSchedule(ctx context.Context, clientID string, at time.Time) error {
	_, err := q.q.ExecContext(ctx, `
		UPDATE schedule SET sync_status = ?, local_updated_at = ? WHERE client_id = ?
	`, string(StatusDirty), at, clientID)
	return err
}
