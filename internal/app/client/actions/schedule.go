package actions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"pontosync/internal/app/client/store"
	"pontosync/internal/domain/schedule"
	"pontosync/internal/domain/sync"
)

// Result messages shown by the CLI.
const (
	MsgHourAdded      = "Horário adicionado"
	MsgHourUpdated    = "Horário atualizado"
	MsgHourRemoved    = "Horário removido"
	MsgDayReplaced    = "Horário substituído"
	MsgDayRemoved     = "Dia removido"
	MsgDefaultApplied = "Horário padrão aplicado"
)

// defaultWorkRanges is the standard Monday-to-Friday working day.
var defaultWorkRanges = [][2]string{
	{"08:00", "12:00"},
	{"13:00", "17:00"},
}

// AddScheduleHour validates the range against every active hour the
// employee already has on that weekday, then persists and enqueues it.
func (m *Manager) AddScheduleHour(ctx context.Context, employeeClientID string, weekday int, start, end string) (string, error) {
	dayRange, err := schedule.ParseDayRange(weekday, start, end)
	if err != nil {
		return "", err
	}

	now := m.now().UTC()
	err = m.store.WithTx(ctx, func(tx *store.Tx) error {
		return m.addHourTx(ctx, tx, employeeClientID, dayRange, now)
	})
	if err != nil {
		return "", err
	}
	return MsgHourAdded, nil
}

// addHourTx validates the range against the employee's existing hours on
// that weekday and writes it on the first schedule.
func (m *Manager) addHourTx(ctx context.Context, tx *store.Tx, employeeClientID string, dayRange schedule.DayRange, now time.Time) error {
	schedules, err := m.employeeSchedules(ctx, tx, employeeClientID, now)
	if err != nil {
		return err
	}

	existing, err := m.dayRanges(ctx, tx, schedules, dayRange.Weekday)
	if err != nil {
		return err
	}
	if schedule.HasConflict(existing, dayRange.Range) {
		return ErrScheduleConflict
	}

	target := schedules[0]
	hour := &store.ScheduleHour{
		ClientID:         uuid.NewString(),
		ScheduleClientID: target.ClientID,
		Weekday:          dayRange.Weekday,
		StartMinutes:     dayRange.Start,
		EndMinutes:       dayRange.End,
		BlockType:        sync.BlockTypeWork,
		SyncStatus:       store.StatusDirty,
		LocalUpdatedAt:   now,
	}
	if err := tx.SaveScheduleHour(ctx, hour); err != nil {
		return err
	}
	_, err = tx.Enqueue(ctx, sync.ActionScheduleHourUpsert, m.hourPayload(hour, &target))
	return err
}

// UpdateScheduleHour rewrites one hour's range in place.
func (m *Manager) UpdateScheduleHour(ctx context.Context, hourClientID, start, end string) (string, error) {
	r, err := schedule.ParseRange(start, end)
	if err != nil {
		return "", err
	}

	now := m.now().UTC()
	err = m.store.WithTx(ctx, func(tx *store.Tx) error {
		hour, err := notFoundOK(tx.GetScheduleHour(ctx, hourClientID))
		if err != nil {
			return err
		}
		if hour == nil || hour.SyncStatus == store.StatusDeleted {
			return ErrScheduleNotFound
		}

		sched, err := notFoundOK(tx.GetSchedule(ctx, hour.ScheduleClientID))
		if err != nil {
			return err
		}
		if sched == nil {
			return ErrScheduleNotFound
		}

		day, err := tx.ListScheduleHoursByDay(ctx, hour.ScheduleClientID, hour.Weekday)
		if err != nil {
			return err
		}
		var others []schedule.Range
		for _, h := range day {
			if h.ClientID != hour.ClientID && h.StartMinutes < h.EndMinutes {
				others = append(others, schedule.Range{Start: h.StartMinutes, End: h.EndMinutes})
			}
		}
		if schedule.HasConflict(others, r) {
			return ErrScheduleConflict
		}

		hour.StartMinutes = r.Start
		hour.EndMinutes = r.End
		hour.BlockType = sync.BlockTypeWork
		hour.SyncStatus = store.StatusDirty
		hour.LocalUpdatedAt = now
		if err := tx.SaveScheduleHour(ctx, hour); err != nil {
			return err
		}
		_, err = tx.Enqueue(ctx, sync.ActionScheduleHourUpsert, m.hourPayload(hour, sched))
		return err
	})
	if err != nil {
		return "", err
	}
	return MsgHourUpdated, nil
}

// RemoveScheduleHour deletes one hour.
func (m *Manager) RemoveScheduleHour(ctx context.Context, hourClientID string) (string, error) {
	now := m.now().UTC()
	err := m.store.WithTx(ctx, func(tx *store.Tx) error {
		hour, err := notFoundOK(tx.GetScheduleHour(ctx, hourClientID))
		if err != nil {
			return err
		}
		if hour == nil || hour.SyncStatus == store.StatusDeleted {
			return ErrScheduleNotFound
		}

		hour.SyncStatus = store.StatusDeleted
		hour.LocalUpdatedAt = now
		if err := tx.SaveScheduleHour(ctx, hour); err != nil {
			return err
		}
		_, err = tx.Enqueue(ctx, sync.ActionScheduleHourDelete, sync.ScheduleHourDeletePayload{
			Ref: ref(hour.ClientID, hour.ServerID),
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return MsgHourRemoved, nil
}

// ReplaceDay swaps the whole (employee, weekday) bucket for a new set of
// ranges across every schedule the employee has.
func (m *Manager) ReplaceDay(ctx context.Context, employeeClientID string, weekday int, pairs [][2]string) (string, error) {
	wd, err := schedule.NormalizeWeekday(weekday)
	if err != nil {
		return "", err
	}
	ranges, err := schedule.ParseRanges(pairs)
	if err != nil {
		return "", err
	}

	now := m.now().UTC()
	err = m.store.WithTx(ctx, func(tx *store.Tx) error {
		schedules, err := m.employeeSchedules(ctx, tx, employeeClientID, now)
		if err != nil {
			return err
		}
		return m.replaceDayTx(ctx, tx, schedules, wd, ranges, now)
	})
	if err != nil {
		return "", err
	}
	return MsgDayReplaced, nil
}

// RemoveDay clears every hour the employee has on one weekday.
func (m *Manager) RemoveDay(ctx context.Context, employeeClientID string, weekday int) (string, error) {
	wd, err := schedule.NormalizeWeekday(weekday)
	if err != nil {
		return "", err
	}

	now := m.now().UTC()
	err = m.store.WithTx(ctx, func(tx *store.Tx) error {
		schedules, err := m.employeeSchedules(ctx, tx, employeeClientID, now)
		if err != nil {
			return err
		}
		for i := range schedules {
			if err := tx.MarkScheduleHoursDeletedByDay(ctx, schedules[i].ClientID, wd, now); err != nil {
				return err
			}
			if err := tx.TouchSchedule(ctx, schedules[i].ClientID, now); err != nil {
				return err
			}
			wdCopy := wd
			if _, err := tx.Enqueue(ctx, sync.ActionScheduleHourDeleteDay, sync.ScheduleHourDeleteDayPayload{
				ScheduleClientID: schedules[i].ClientID,
				ScheduleServerID: schedules[i].ServerID,
				Weekday:          &wdCopy,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return MsgDayRemoved, nil
}

// ApplyDefaultSchedule sets the standard week: work ranges Monday to
// Friday, OFF on Saturday and Sunday.
func (m *Manager) ApplyDefaultSchedule(ctx context.Context, employeeClientID string) (string, error) {
	ranges, err := schedule.ParseRanges(defaultWorkRanges)
	if err != nil {
		return "", err
	}

	now := m.now().UTC()
	err = m.store.WithTx(ctx, func(tx *store.Tx) error {
		schedules, err := m.employeeSchedules(ctx, tx, employeeClientID, now)
		if err != nil {
			return err
		}
		return m.applyDefaultTx(ctx, tx, schedules, ranges, now)
	})
	if err != nil {
		return "", err
	}
	return MsgDefaultApplied, nil
}

// bulkChunkSize bounds how many employees one transaction touches.
const bulkChunkSize = 50

// BulkResult summarizes a bulk schedule application.
type BulkResult struct {
	Applied   int
	Conflicts int
}

// BulkApplyDefaultSchedule applies the standard week to many employees,
// one chunk per transaction, yielding to context cancellation between
// chunks. Employees whose write fails count as conflicts; the rest of
// the batch proceeds.
func (m *Manager) BulkApplyDefaultSchedule(ctx context.Context, employeeClientIDs []string) (*BulkResult, error) {
	ranges, err := schedule.ParseRanges(defaultWorkRanges)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{}
	for start := 0; start < len(employeeClientIDs); start += bulkChunkSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := start + bulkChunkSize
		if end > len(employeeClientIDs) {
			end = len(employeeClientIDs)
		}
		chunk := employeeClientIDs[start:end]

		now := m.now().UTC()
		err := m.store.WithTx(ctx, func(tx *store.Tx) error {
			for _, id := range chunk {
				schedules, err := m.employeeSchedules(ctx, tx, id, now)
				if err != nil {
					m.log.Warn("bulk apply skipped employee", slog.String("employee", id), slog.String("error", err.Error()))
					result.Conflicts++
					continue
				}
				if err := m.applyDefaultTx(ctx, tx, schedules, ranges, now); err != nil {
					result.Conflicts++
					continue
				}
				result.Applied++
			}
			return nil
		})
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// BulkAddScheduleHour adds the same work block to many employees, one
// chunk per transaction. Employees whose day already conflicts are
// counted and skipped; the rest of the batch proceeds.
func (m *Manager) BulkAddScheduleHour(ctx context.Context, employeeClientIDs []string, weekday int, start, end string) (*BulkResult, error) {
	dayRange, err := schedule.ParseDayRange(weekday, start, end)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{}
	for i := 0; i < len(employeeClientIDs); i += bulkChunkSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := i + bulkChunkSize
		if end > len(employeeClientIDs) {
			end = len(employeeClientIDs)
		}
		chunk := employeeClientIDs[i:end]

		now := m.now().UTC()
		err := m.store.WithTx(ctx, func(tx *store.Tx) error {
			for _, id := range chunk {
				if err := m.addHourTx(ctx, tx, id, dayRange, now); err != nil {
					m.log.Warn("bulk add skipped employee", slog.String("employee", id), slog.String("error", err.Error()))
					result.Conflicts++
					continue
				}
				result.Applied++
			}
			return nil
		})
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// BulkReplaceDay swaps one weekday for the same set of ranges across many
// employees, chunked like the other bulk operations.
func (m *Manager) BulkReplaceDay(ctx context.Context, employeeClientIDs []string, weekday int, pairs [][2]string) (*BulkResult, error) {
	wd, err := schedule.NormalizeWeekday(weekday)
	if err != nil {
		return nil, err
	}
	ranges, err := schedule.ParseRanges(pairs)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{}
	for i := 0; i < len(employeeClientIDs); i += bulkChunkSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := i + bulkChunkSize
		if end > len(employeeClientIDs) {
			end = len(employeeClientIDs)
		}
		chunk := employeeClientIDs[i:end]

		now := m.now().UTC()
		err := m.store.WithTx(ctx, func(tx *store.Tx) error {
			for _, id := range chunk {
				schedules, err := m.employeeSchedules(ctx, tx, id, now)
				if err != nil {
					m.log.Warn("bulk replace skipped employee", slog.String("employee", id), slog.String("error", err.Error()))
					result.Conflicts++
					continue
				}
				if err := m.replaceDayTx(ctx, tx, schedules, wd, ranges, now); err != nil {
					result.Conflicts++
					continue
				}
				result.Applied++
			}
			return nil
		})
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

func (m *Manager) applyDefaultTx(ctx context.Context, tx *store.Tx, schedules []store.Schedule, ranges []schedule.Range, now time.Time) error {
	for wd := schedule.MinWeekday; wd <= schedule.MaxWeekday; wd++ {
		if wd == 0 || wd == 6 {
			if err := m.replaceDayOff(ctx, tx, schedules, wd, now); err != nil {
				return err
			}
			continue
		}
		if err := m.replaceDayTx(ctx, tx, schedules, wd, ranges, now); err != nil {
			return err
		}
	}
	return nil
}

// replaceDayTx tombstones the weekday on every schedule and writes the
// new ranges on the first one, enqueueing one replace-day action per
// schedule. The tombstones are purged when the server confirms.
func (m *Manager) replaceDayTx(ctx context.Context, tx *store.Tx, schedules []store.Schedule, weekday int, ranges []schedule.Range, now time.Time) error {
	for i := range schedules {
		if err := tx.MarkScheduleHoursDeletedByDay(ctx, schedules[i].ClientID, weekday, now); err != nil {
			return err
		}
		if err := tx.TouchSchedule(ctx, schedules[i].ClientID, now); err != nil {
			return err
		}
	}

	target := schedules[0]
	payloadHours := make([]sync.ScheduleHourUpsertPayload, 0, len(ranges))
	for _, r := range ranges {
		hour := &store.ScheduleHour{
			ClientID:         uuid.NewString(),
			ScheduleClientID: target.ClientID,
			Weekday:          weekday,
			StartMinutes:     r.Start,
			EndMinutes:       r.End,
			BlockType:        sync.BlockTypeWork,
			SyncStatus:       store.StatusDirty,
			LocalUpdatedAt:   now,
		}
		if err := tx.SaveScheduleHour(ctx, hour); err != nil {
			return err
		}
		start, end := hour.StartMinutes, hour.EndMinutes
		payloadHours = append(payloadHours, sync.ScheduleHourUpsertPayload{
			Ref:              ref(hour.ClientID, nil),
			StartTimeMinutes: &start,
			EndTimeMinutes:   &end,
			BlockType:        hour.BlockType,
		})
	}

	wd := weekday
	for i := range schedules {
		hours := []sync.ScheduleHourUpsertPayload{}
		if schedules[i].ClientID == target.ClientID {
			hours = payloadHours
		}
		if _, err := tx.Enqueue(ctx, sync.ActionScheduleHourReplaceDay, sync.ScheduleHourReplaceDayPayload{
			ScheduleClientID: schedules[i].ClientID,
			ScheduleServerID: schedules[i].ServerID,
			Weekday:          &wd,
			Hours:            hours,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) replaceDayOff(ctx context.Context, tx *store.Tx, schedules []store.Schedule, weekday int, now time.Time) error {
	for i := range schedules {
		if err := tx.MarkScheduleHoursDeletedByDay(ctx, schedules[i].ClientID, weekday, now); err != nil {
			return err
		}
	}

	target := schedules[0]
	hour := &store.ScheduleHour{
		ClientID:         uuid.NewString(),
		ScheduleClientID: target.ClientID,
		Weekday:          weekday,
		BlockType:        sync.BlockTypeOff,
		SyncStatus:       store.StatusDirty,
		LocalUpdatedAt:   now,
	}
	if err := tx.SaveScheduleHour(ctx, hour); err != nil {
		return err
	}

	wd := weekday
	zero := 0
	_, err := tx.Enqueue(ctx, sync.ActionScheduleHourReplaceDay, sync.ScheduleHourReplaceDayPayload{
		ScheduleClientID: target.ClientID,
		ScheduleServerID: target.ServerID,
		Weekday:          &wd,
		Hours: []sync.ScheduleHourUpsertPayload{{
			Ref:              ref(hour.ClientID, nil),
			StartTimeMinutes: &zero,
			EndTimeMinutes:   &zero,
			BlockType:        sync.BlockTypeOff,
		}},
	})
	return err
}

// employeeSchedules returns every active schedule of the employee,
// creating the first one when none exists.
func (m *Manager) employeeSchedules(ctx context.Context, tx *store.Tx, employeeClientID string, now time.Time) ([]store.Schedule, error) {
	employee, err := notFoundOK(tx.GetEmployee(ctx, employeeClientID))
	if err != nil {
		return nil, err
	}
	if employee == nil || employee.SyncStatus == store.StatusDeleted {
		return nil, ErrEmployeeNotFound
	}

	schedules, err := tx.ListSchedulesByEmployee(ctx, employee.ClientID)
	if err != nil {
		return nil, err
	}
	if len(schedules) > 0 {
		return schedules, nil
	}

	created := &store.Schedule{
		ClientID:         uuid.NewString(),
		EmployeeClientID: employee.ClientID,
		Name:             "Padrão",
		SyncStatus:       store.StatusDirty,
		LocalUpdatedAt:   now,
	}
	if err := tx.SaveSchedule(ctx, created); err != nil {
		return nil, err
	}
	if _, err := tx.Enqueue(ctx, sync.ActionScheduleUpsert, sync.ScheduleUpsertPayload{
		Ref:              ref(created.ClientID, nil),
		EmployeeClientID: employee.ClientID,
		EmployeeServerID: employee.ServerID,
		Name:             created.Name,
	}); err != nil {
		return nil, err
	}
	return []store.Schedule{*created}, nil
}

// dayRanges gathers the active work ranges across every schedule for one
// weekday.
func (m *Manager) dayRanges(ctx context.Context, tx *store.Tx, schedules []store.Schedule, weekday int) ([]schedule.Range, error) {
	var out []schedule.Range
	for i := range schedules {
		hours, err := tx.ListScheduleHoursByDay(ctx, schedules[i].ClientID, weekday)
		if err != nil {
			return nil, err
		}
		for _, h := range hours {
			if h.StartMinutes < h.EndMinutes {
				out = append(out, schedule.Range{Start: h.StartMinutes, End: h.EndMinutes})
			}
		}
	}
	return out, nil
}

func (m *Manager) hourPayload(hour *store.ScheduleHour, sched *store.Schedule) sync.ScheduleHourUpsertPayload {
	weekday := hour.Weekday
	start, end := hour.StartMinutes, hour.EndMinutes
	return sync.ScheduleHourUpsertPayload{
		Ref:              ref(hour.ClientID, hour.ServerID),
		ScheduleClientID: sched.ClientID,
		ScheduleServerID: sched.ServerID,
		Weekday:          &weekday,
		StartTimeMinutes: &start,
		EndTimeMinutes:   &end,
		BlockType:        hour.BlockType,
		Notes:            hour.Notes,
	}
}
