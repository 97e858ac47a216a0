package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"pontosync/internal/app/client/store"
	"pontosync/internal/domain/sync"
)

// pullOverlap widens the since watermark so rows committed around the
// previous pull are never missed. Re-reading them is harmless, merging
// is idempotent.
const pullOverlap = 6 * time.Hour

// pull merges the server snapshot into the local database inside one
// transaction. Local rows with unpushed changes are kept unless they
// went stale.
func (s *SyncService) pull(ctx context.Context) (int, error) {
	since := time.Time{}
	if raw, err := s.store.GetMeta(ctx, store.MetaLastSyncAt); err != nil {
		return 0, err
	} else if raw != "" {
		if t, parseErr := time.Parse(time.RFC3339, raw); parseErr == nil {
			since = t.Add(-pullOverlap)
		}
	}

	resp, err := s.api.Pull(ctx, since)
	if err != nil {
		return 0, err
	}

	var pulled int
	err = s.store.WithTx(ctx, func(tx *store.Tx) error {
		// Dependency order: parents before children so reference mapping
		// always finds the parent row.
		for _, row := range resp.Data.Person {
			applied, err := s.mergePerson(ctx, tx, row)
			if err != nil {
				return err
			}
			if applied {
				pulled++
			}
		}
		for _, row := range resp.Data.JobPosition {
			applied, err := s.mergeJobPosition(ctx, tx, row)
			if err != nil {
				return err
			}
			if applied {
				pulled++
			}
		}
		for _, row := range resp.Data.UserAccount {
			applied, err := s.mergeUserAccount(ctx, tx, row)
			if err != nil {
				return err
			}
			if applied {
				pulled++
			}
		}
		for _, row := range resp.Data.Employee {
			applied, err := s.mergeEmployee(ctx, tx, row)
			if err != nil {
				return err
			}
			if applied {
				pulled++
			}
		}
		for _, row := range resp.Data.Schedule {
			applied, err := s.mergeSchedule(ctx, tx, row)
			if err != nil {
				return err
			}
			if applied {
				pulled++
			}
		}
		for _, row := range resp.Data.ScheduleHour {
			applied, err := s.mergeScheduleHour(ctx, tx, row)
			if err != nil {
				return err
			}
			if applied {
				pulled++
			}
		}

		dropped, err := tx.CleanupDuplicateScheduleHours(ctx)
		if err != nil {
			return err
		}
		if dropped > 0 {
			s.log.Info("removed duplicate schedule hours", slog.Int("count", dropped))
		}

		return tx.SetMeta(ctx, store.MetaLastSyncAt, resp.ServerTime.UTC().Format(time.RFC3339))
	})
	if err != nil {
		return pulled, err
	}

	if pulled > 0 {
		s.store.NotifyChanged()
	}
	return pulled, nil
}

// keepLocal reports whether a local row with unpushed changes should win
// over the incoming server row. Stale dirt loses: after staleWindow
// without a successful push the server copy takes over.
func (s *SyncService) keepLocal(status store.SyncStatus, localUpdatedAt time.Time) bool {
	if status == store.StatusClean {
		return false
	}
	return time.Since(localUpdatedAt) < s.staleWindow
}

func (s *SyncService) mergePerson(ctx context.Context, tx *store.Tx, row sync.PersonRow) (bool, error) {
	local, err := notFoundOK(tx.GetPersonByServerID(ctx, row.ServerID))
	if err != nil {
		return false, err
	}
	if local == nil && row.ClientID != "" {
		if local, err = notFoundOK(tx.GetPerson(ctx, row.ClientID)); err != nil {
			return false, err
		}
	}

	if local != nil {
		if s.keepLocal(local.SyncStatus, local.LocalUpdatedAt) {
			return false, nil
		}
		if local.ServerID == nil {
			serverID := row.ServerID
			local.ServerID = &serverID
		}
		local.CPF = row.CPF
		local.Name = row.Name
		local.UpdatedAt = row.UpdatedAt
		local.SyncStatus = store.StatusClean
		return true, tx.SavePerson(ctx, local)
	}

	serverID := row.ServerID
	return true, tx.SavePerson(ctx, &store.Person{
		ClientID:       uuid.NewString(),
		ServerID:       &serverID,
		CPF:            row.CPF,
		Name:           row.Name,
		SyncStatus:     store.StatusClean,
		LocalUpdatedAt: time.Now().UTC(),
		UpdatedAt:      row.UpdatedAt,
	})
}

func (s *SyncService) mergeJobPosition(ctx context.Context, tx *store.Tx, row sync.JobPositionRow) (bool, error) {
	local, err := notFoundOK(tx.GetJobPositionByServerID(ctx, row.ServerID))
	if err != nil {
		return false, err
	}
	if local == nil && row.ClientID != "" {
		if local, err = notFoundOK(tx.GetJobPosition(ctx, row.ClientID)); err != nil {
			return false, err
		}
	}
	if local == nil {
		// Job positions are shared rows; match by the natural key so two
		// clients creating the same name converge on one local row.
		if local, err = notFoundOK(tx.GetJobPositionByNormalizedName(ctx, sync.NormalizeJobName(row.Name))); err != nil {
			return false, err
		}
	}

	if local != nil {
		if s.keepLocal(local.SyncStatus, local.LocalUpdatedAt) {
			return false, nil
		}
		if local.ServerID == nil {
			serverID := row.ServerID
			local.ServerID = &serverID
		}
		local.Name = row.Name
		local.Description = row.Description
		local.UpdatedAt = row.UpdatedAt
		local.SyncStatus = store.StatusClean
		return true, tx.SaveJobPosition(ctx, local)
	}

	serverID := row.ServerID
	return true, tx.SaveJobPosition(ctx, &store.JobPosition{
		ClientID:       uuid.NewString(),
		ServerID:       &serverID,
		Name:           row.Name,
		Description:    row.Description,
		SyncStatus:     store.StatusClean,
		LocalUpdatedAt: time.Now().UTC(),
		UpdatedAt:      row.UpdatedAt,
	})
}

func (s *SyncService) mergeUserAccount(ctx context.Context, tx *store.Tx, row sync.UserAccountRow) (bool, error) {
	person, err := notFoundOK(tx.GetPersonByServerID(ctx, row.PersonServerID))
	if err != nil {
		return false, err
	}
	if person == nil {
		s.log.Debug("skipping user account without local person", slog.Int64("server_id", row.ServerID))
		return false, nil
	}

	local, err := notFoundOK(tx.GetUserAccountByServerID(ctx, row.ServerID))
	if err != nil {
		return false, err
	}
	if local == nil && row.ClientID != "" {
		if local, err = notFoundOK(tx.GetUserAccount(ctx, row.ClientID)); err != nil {
			return false, err
		}
	}

	if local != nil {
		if s.keepLocal(local.SyncStatus, local.LocalUpdatedAt) {
			return false, nil
		}
		if local.ServerID == nil {
			serverID := row.ServerID
			local.ServerID = &serverID
		}
		local.PersonClientID = person.ClientID
		local.Username = row.Username
		local.AccountType = row.AccountType
		local.IsActive = row.IsActive
		local.UpdatedAt = row.UpdatedAt
		local.SyncStatus = store.StatusClean
		return true, tx.SaveUserAccount(ctx, local)
	}

	serverID := row.ServerID
	return true, tx.SaveUserAccount(ctx, &store.UserAccount{
		ClientID:       uuid.NewString(),
		ServerID:       &serverID,
		PersonClientID: person.ClientID,
		Username:       row.Username,
		AccountType:    row.AccountType,
		IsActive:       row.IsActive,
		SyncStatus:     store.StatusClean,
		LocalUpdatedAt: time.Now().UTC(),
		UpdatedAt:      row.UpdatedAt,
	})
}

func (s *SyncService) mergeEmployee(ctx context.Context, tx *store.Tx, row sync.EmployeeRow) (bool, error) {
	person, err := notFoundOK(tx.GetPersonByServerID(ctx, row.PersonServerID))
	if err != nil {
		return false, err
	}
	if person == nil {
		s.log.Debug("skipping employee without local person", slog.Int64("server_id", row.ServerID))
		return false, nil
	}

	jobPositionClientID := ""
	if row.JobPositionServerID != nil {
		jp, err := notFoundOK(tx.GetJobPositionByServerID(ctx, *row.JobPositionServerID))
		if err != nil {
			return false, err
		}
		if jp != nil {
			jobPositionClientID = jp.ClientID
		}
	}

	local, err := notFoundOK(tx.GetEmployeeByServerID(ctx, row.ServerID))
	if err != nil {
		return false, err
	}
	if local == nil && row.ClientID != "" {
		if local, err = notFoundOK(tx.GetEmployee(ctx, row.ClientID)); err != nil {
			return false, err
		}
	}

	if local != nil {
		if s.keepLocal(local.SyncStatus, local.LocalUpdatedAt) {
			return false, nil
		}
		if local.ServerID == nil {
			serverID := row.ServerID
			local.ServerID = &serverID
		}
		local.PersonClientID = person.ClientID
		local.RegistrationNumber = row.RegistrationNumber
		local.JobPositionClientID = jobPositionClientID
		local.UpdatedAt = row.UpdatedAt
		local.SyncStatus = store.StatusClean
		return true, tx.SaveEmployee(ctx, local)
	}

	serverID := row.ServerID
	return true, tx.SaveEmployee(ctx, &store.Employee{
		ClientID:            uuid.NewString(),
		ServerID:            &serverID,
		PersonClientID:      person.ClientID,
		RegistrationNumber:  row.RegistrationNumber,
		JobPositionClientID: jobPositionClientID,
		SyncStatus:          store.StatusClean,
		LocalUpdatedAt:      time.Now().UTC(),
		UpdatedAt:           row.UpdatedAt,
	})
}

func (s *SyncService) mergeSchedule(ctx context.Context, tx *store.Tx, row sync.ScheduleRow) (bool, error) {
	employee, err := notFoundOK(tx.GetEmployeeByServerID(ctx, row.EmployeeServerID))
	if err != nil {
		return false, err
	}
	if employee == nil {
		s.log.Debug("skipping schedule without local employee", slog.Int64("server_id", row.ServerID))
		return false, nil
	}

	local, err := notFoundOK(tx.GetScheduleByServerID(ctx, row.ServerID))
	if err != nil {
		return false, err
	}
	if local == nil && row.ClientID != "" {
		if local, err = notFoundOK(tx.GetSchedule(ctx, row.ClientID)); err != nil {
			return false, err
		}
	}

	if local != nil {
		if s.keepLocal(local.SyncStatus, local.LocalUpdatedAt) {
			return false, nil
		}
		if local.ServerID == nil {
			serverID := row.ServerID
			local.ServerID = &serverID
		}
		local.EmployeeClientID = employee.ClientID
		local.Name = row.Name
		local.UpdatedAt = row.UpdatedAt
		local.SyncStatus = store.StatusClean
		return true, tx.SaveSchedule(ctx, local)
	}

	serverID := row.ServerID
	return true, tx.SaveSchedule(ctx, &store.Schedule{
		ClientID:         uuid.NewString(),
		ServerID:         &serverID,
		EmployeeClientID: employee.ClientID,
		Name:             row.Name,
		SyncStatus:       store.StatusClean,
		LocalUpdatedAt:   time.Now().UTC(),
		UpdatedAt:        row.UpdatedAt,
	})
}

func (s *SyncService) mergeScheduleHour(ctx context.Context, tx *store.Tx, row sync.ScheduleHourRow) (bool, error) {
	schedule, err := notFoundOK(tx.GetScheduleByServerID(ctx, row.ScheduleServerID))
	if err != nil {
		return false, err
	}
	if schedule == nil {
		s.log.Debug("skipping schedule hour without local schedule", slog.Int64("server_id", row.ServerID))
		return false, nil
	}

	local, err := notFoundOK(tx.GetScheduleHourByServerID(ctx, row.ServerID))
	if err != nil {
		return false, err
	}
	if local == nil && row.ClientID != "" {
		if local, err = notFoundOK(tx.GetScheduleHour(ctx, row.ClientID)); err != nil {
			return false, err
		}
	}

	if local != nil {
		if s.keepLocal(local.SyncStatus, local.LocalUpdatedAt) {
			return false, nil
		}
		if local.ServerID == nil {
			serverID := row.ServerID
			local.ServerID = &serverID
		}
		local.ScheduleClientID = schedule.ClientID
		local.Weekday = row.Weekday
		local.StartMinutes = row.StartTimeMinutes
		local.EndMinutes = row.EndTimeMinutes
		local.BlockType = row.BlockType
		local.Notes = row.Notes
		local.UpdatedAt = row.UpdatedAt
		local.SyncStatus = store.StatusClean
		return true, tx.SaveScheduleHour(ctx, local)
	}

	serverID := row.ServerID
	return true, tx.SaveScheduleHour(ctx, &store.ScheduleHour{
		ClientID:         uuid.NewString(),
		ServerID:         &serverID,
		ScheduleClientID: schedule.ClientID,
		Weekday:          row.Weekday,
		StartMinutes:     row.StartTimeMinutes,
		EndMinutes:       row.EndTimeMinutes,
		BlockType:        row.BlockType,
		Notes:            row.Notes,
		SyncStatus:       store.StatusClean,
		LocalUpdatedAt:   time.Now().UTC(),
		UpdatedAt:        row.UpdatedAt,
	})
}
