package client

import (
	"context"
	"errors"
	"time"

	"golang.org/x/exp/slog"

	"pontosync/internal/app/client/store"
	"pontosync/internal/domain/sync"
)

// pushBatchSize bounds one request; the outbox drains over several
// requests when needed.
const pushBatchSize = 100

// friendlyMessages maps server error codes to the user-facing text kept
// on the failed outbox entry.
var friendlyMessages = map[string]string{
	sync.CodeDuplicateCPF:          "CPF ja cadastrado no servidor",
	sync.CodeDuplicateRegistration: "Matricula ja cadastrada no servidor",
	sync.CodeDuplicateUsername:     "Usuario ja cadastrado no servidor",
	sync.CodeDuplicateScheduleHour: "Horario ja cadastrado no servidor",
	sync.CodeJobPositionInUse:      "Cargo em uso por funcionario",
	sync.CodeMissingSchedule:       "Horario sem escala no servidor",
}

const defaultPushError = "Erro ao sincronizar"

func friendlyMessage(code string) string {
	if msg, ok := friendlyMessages[code]; ok {
		return msg
	}
	return defaultPushError
}

type pushStats struct {
	Pushed   int
	Warnings []string
}

// push drains the outbox. A transport failure aborts the cycle with
// nothing marked; per-action errors only touch their own entry.
func (s *SyncService) push(ctx context.Context) (*pushStats, error) {
	entries, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	stats := &pushStats{}
	warnings := map[string]bool{}

	byID := make(map[string]store.OutboxEntry, len(entries))
	actions := make([]sync.Action, 0, len(entries))
	for _, e := range entries {
		if _, decodeErr := sync.DecodePayload(e.Type, e.Payload); decodeErr != nil {
			// Corrupt entries are isolated; the rest of the batch proceeds.
			s.log.Warn("corrupt outbox payload", slog.String("id", e.ID), slog.String("type", string(e.Type)))
			if err := s.store.MarkFailed(ctx, e.ID, sync.CodeInvalidPayload); err != nil {
				return nil, err
			}
			continue
		}
		byID[e.ID] = e
		actions = append(actions, sync.Action{
			ID:        e.ID,
			Type:      e.Type,
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt,
		})
	}
	sync.SortActions(actions)

	for start := 0; start < len(actions); start += pushBatchSize {
		end := start + pushBatchSize
		if end > len(actions) {
			end = len(actions)
		}

		resp, err := s.api.Push(ctx, sync.PushRequest{
			ClientTime: time.Now().UTC(),
			Actions:    actions[start:end],
		})
		if err != nil {
			return stats, err
		}

		for _, res := range resp.Results {
			entry, ok := byID[res.ID]
			if !ok {
				continue
			}
			if err := s.applyPushResult(ctx, entry, res, warnings); err != nil {
				return stats, err
			}
			if res.Status == sync.StatusOK {
				stats.Pushed++
			}
		}
	}

	for msg := range warnings {
		stats.Warnings = append(stats.Warnings, msg)
	}
	return stats, nil
}

func (s *SyncService) applyPushResult(ctx context.Context, entry store.OutboxEntry, res sync.PushResult, warnings map[string]bool) error {
	if res.Status == sync.StatusOK {
		if err := s.store.MarkSent(ctx, entry.ID); err != nil {
			return err
		}
		if res.Error != "" {
			// Tolerated server-side skip, e.g. missing_schedule. The entry
			// is still confirmed so the local row leaves DIRTY.
			warnings[friendlyMessage(res.Error)] = true
		}
		return s.confirmEntry(ctx, entry, res)
	}

	if res.Error == sync.CodeDuplicateScheduleHour {
		// The server already holds this hour; drop the local copy and
		// stop retrying. The pull brings the canonical row back.
		if ref, ok := entryRef(entry); ok && ref.ClientID != "" {
			if err := s.store.DeleteScheduleHour(ctx, ref.ClientID); err != nil {
				return err
			}
		}
		if err := s.store.MarkSent(ctx, entry.ID); err != nil {
			return err
		}
		warnings[friendlyMessage(res.Error)] = true
		return nil
	}

	warnings[friendlyMessage(res.Error)] = true
	return s.store.MarkFailed(ctx, entry.ID, friendlyMessage(res.Error))
}

// confirmEntry applies the server identity to the local row the action
// touched: server_id (only when unset), server updated_at, status CLEAN.
// Confirmed deletes hard-remove the local row.
func (s *SyncService) confirmEntry(ctx context.Context, entry store.OutboxEntry, res sync.PushResult) error {
	now := time.Now().UTC()
	serverTime := now
	if res.UpdatedAt != nil {
		serverTime = *res.UpdatedAt
	}

	// Day-level actions carry no single entity ref; they are handled
	// before the ref lookup.
	switch entry.Type {
	case sync.ActionScheduleHourReplaceDay:
		return s.confirmReplaceDay(ctx, entry, serverTime)
	case sync.ActionScheduleHourDeleteDay:
		return s.confirmDeleteDay(ctx, entry)
	}

	ref, ok := entryRef(entry)
	if !ok {
		return nil
	}

	switch entry.Type {
	case sync.ActionPersonUpsert:
		person, err := s.lookupPerson(ctx, ref)
		if err != nil || person == nil {
			return err
		}
		if person.ServerID == nil {
			person.ServerID = res.ServerID
		}
		person.UpdatedAt = serverTime
		if person.SyncStatus == store.StatusDirty {
			person.SyncStatus = store.StatusClean
		}
		return s.store.SavePerson(ctx, person)

	case sync.ActionPersonDelete:
		if ref.ClientID == "" {
			return nil
		}
		return s.store.PurgePersonTree(ctx, ref.ClientID)

	case sync.ActionUserAccountUpsert:
		account, err := notFoundOK(s.store.GetUserAccount(ctx, ref.ClientID))
		if err != nil || account == nil {
			return err
		}
		if account.ServerID == nil {
			account.ServerID = res.ServerID
		}
		account.UpdatedAt = serverTime
		if account.SyncStatus == store.StatusDirty {
			account.SyncStatus = store.StatusClean
		}
		return s.store.SaveUserAccount(ctx, account)

	case sync.ActionUserAccountDelete:
		return s.store.DeleteUserAccount(ctx, ref.ClientID)

	case sync.ActionJobPositionUpsert:
		jp, err := notFoundOK(s.store.GetJobPosition(ctx, ref.ClientID))
		if err != nil || jp == nil {
			return err
		}
		if jp.ServerID == nil {
			jp.ServerID = res.ServerID
		}
		jp.UpdatedAt = serverTime
		if jp.SyncStatus == store.StatusDirty {
			jp.SyncStatus = store.StatusClean
		}
		return s.store.SaveJobPosition(ctx, jp)

	case sync.ActionJobPositionDelete:
		return s.store.DeleteJobPosition(ctx, ref.ClientID)

	case sync.ActionEmployeeUpsert:
		employee, err := notFoundOK(s.store.GetEmployee(ctx, ref.ClientID))
		if err != nil || employee == nil {
			return err
		}
		if employee.ServerID == nil {
			employee.ServerID = res.ServerID
		}
		employee.UpdatedAt = serverTime
		if employee.SyncStatus == store.StatusDirty {
			employee.SyncStatus = store.StatusClean
		}
		return s.store.SaveEmployee(ctx, employee)

	case sync.ActionEmployeeDelete:
		return s.store.PurgeEmployeeTree(ctx, ref.ClientID)

	case sync.ActionScheduleUpsert:
		sched, err := notFoundOK(s.store.GetSchedule(ctx, ref.ClientID))
		if err != nil || sched == nil {
			return err
		}
		if sched.ServerID == nil {
			sched.ServerID = res.ServerID
		}
		sched.UpdatedAt = serverTime
		if sched.SyncStatus == store.StatusDirty {
			sched.SyncStatus = store.StatusClean
		}
		return s.store.SaveSchedule(ctx, sched)

	case sync.ActionScheduleHourUpsert:
		hour, err := notFoundOK(s.store.GetScheduleHour(ctx, ref.ClientID))
		if err != nil || hour == nil {
			return err
		}
		if hour.ServerID == nil {
			hour.ServerID = res.ServerID
		}
		hour.UpdatedAt = serverTime
		if hour.SyncStatus == store.StatusDirty {
			hour.SyncStatus = store.StatusClean
		}
		return s.store.SaveScheduleHour(ctx, hour)

	case sync.ActionScheduleHourDelete:
		return s.store.DeleteScheduleHour(ctx, ref.ClientID)

	case sync.ActionTimeClockEventCreate:
		event, err := notFoundOK(s.store.GetTimeClockEvent(ctx, ref.ClientID))
		if err != nil || event == nil {
			return err
		}
		if event.ServerID == nil {
			event.ServerID = res.ServerID
		}
		event.SyncStatus = store.StatusClean
		return s.store.SaveTimeClockEvent(ctx, event)
	}

	return nil
}

// confirmReplaceDay marks the replacing hours CLEAN and purges the
// tombstones left behind on that weekday.
func (s *SyncService) confirmReplaceDay(ctx context.Context, entry store.OutboxEntry, serverTime time.Time) error {
	payload, err := sync.DecodePayload(entry.Type, entry.Payload)
	if err != nil {
		return nil
	}
	replace, ok := payload.(*sync.ScheduleHourReplaceDayPayload)
	if !ok {
		return nil
	}

	for _, h := range replace.Hours {
		hour, err := notFoundOK(s.store.GetScheduleHour(ctx, h.ClientID))
		if err != nil {
			return err
		}
		if hour == nil {
			continue
		}
		hour.UpdatedAt = serverTime
		if hour.SyncStatus == store.StatusDirty {
			hour.SyncStatus = store.StatusClean
		}
		if err := s.store.SaveScheduleHour(ctx, hour); err != nil {
			return err
		}
	}

	if replace.ScheduleClientID != "" && replace.Weekday != nil {
		return s.store.PurgeDeletedScheduleHoursByDay(ctx, replace.ScheduleClientID, *replace.Weekday)
	}
	return nil
}

// confirmDeleteDay purges the weekday's tombstones once the server
// acknowledged the delete.
func (s *SyncService) confirmDeleteDay(ctx context.Context, entry store.OutboxEntry) error {
	payload, err := sync.DecodePayload(entry.Type, entry.Payload)
	if err != nil {
		return nil
	}
	del, ok := payload.(*sync.ScheduleHourDeleteDayPayload)
	if !ok {
		return nil
	}
	if del.ScheduleClientID == "" || del.Weekday == nil {
		return nil
	}
	return s.store.PurgeDeletedScheduleHoursByDay(ctx, del.ScheduleClientID, *del.Weekday)
}

func (s *SyncService) lookupPerson(ctx context.Context, ref sync.Ref) (*store.Person, error) {
	if ref.ClientID != "" {
		return notFoundOK(s.store.GetPerson(ctx, ref.ClientID))
	}
	if ref.ServerID != nil {
		return notFoundOK(s.store.GetPersonByServerID(ctx, *ref.ServerID))
	}
	return nil, nil
}

// notFoundOK converts store.ErrNotFound into a nil record.
func notFoundOK[T any](rec *T, err error) (*T, error) {
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

// entryRef extracts the primary entity reference from an outbox payload.
func entryRef(entry store.OutboxEntry) (sync.Ref, bool) {
	payload, err := sync.DecodePayload(entry.Type, entry.Payload)
	if err != nil || payload == nil {
		return sync.Ref{}, false
	}

	switch p := payload.(type) {
	case *sync.PersonUpsertPayload:
		return p.Ref, true
	case *sync.PersonDeletePayload:
		return p.Ref, true
	case *sync.UserAccountUpsertPayload:
		return p.Ref, true
	case *sync.UserAccountDeletePayload:
		return p.Ref, true
	case *sync.JobPositionUpsertPayload:
		return p.Ref, true
	case *sync.JobPositionDeletePayload:
		return p.Ref, true
	case *sync.EmployeeUpsertPayload:
		return p.Ref, true
	case *sync.EmployeeDeletePayload:
		return p.Ref, true
	case *sync.ScheduleUpsertPayload:
		return p.Ref, true
	case *sync.ScheduleHourUpsertPayload:
		return p.Ref, true
	case *sync.ScheduleHourDeletePayload:
		return p.Ref, true
	case *sync.TimeClockEventCreatePayload:
		return p.Ref, true
	}
	return sync.Ref{}, false
}
