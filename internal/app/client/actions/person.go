package actions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"pontosync/internal/app/client/store"
	"pontosync/internal/domain/sync"
)

// EmployeeInput carries everything one employee registration needs: the
// person, the employment record and an optional login account.
type EmployeeInput struct {
	CPF                string
	Name               string
	RegistrationNumber string
	JobPositionName    string
	Username           string
	Password           string
	AccountType        string
}

// CreateEmployee registers a person, an optional job position and user
// account, the employee record and its default schedule in one
// transaction, enqueueing one action per created record.
func (m *Manager) CreateEmployee(ctx context.Context, in EmployeeInput) (*store.Employee, error) {
	in.CPF = strings.TrimSpace(in.CPF)
	in.Name = strings.TrimSpace(in.Name)
	in.RegistrationNumber = strings.TrimSpace(in.RegistrationNumber)
	in.Username = strings.TrimSpace(in.Username)

	if in.CPF == "" || in.Name == "" || in.RegistrationNumber == "" {
		return nil, ErrMissingFields
	}
	if in.Username != "" && in.Password == "" {
		return nil, ErrMissingFields
	}

	now := m.now().UTC()
	var employee *store.Employee

	err := m.store.WithTx(ctx, func(tx *store.Tx) error {
		if existing, err := notFoundOK(tx.GetPersonByCPF(ctx, in.CPF)); err != nil {
			return err
		} else if existing != nil {
			return ErrCPFInUse
		}
		if existing, err := notFoundOK(tx.GetEmployeeByRegistration(ctx, in.RegistrationNumber)); err != nil {
			return err
		} else if existing != nil {
			return ErrRegistrationInUse
		}
		if in.Username != "" {
			if existing, err := notFoundOK(tx.GetUserAccountByUsername(ctx, in.Username)); err != nil {
				return err
			} else if existing != nil {
				return ErrUsernameInUse
			}
		}

		person := &store.Person{
			ClientID:       uuid.NewString(),
			CPF:            in.CPF,
			Name:           in.Name,
			SyncStatus:     store.StatusDirty,
			LocalUpdatedAt: now,
		}
		if err := tx.SavePerson(ctx, person); err != nil {
			return err
		}
		if _, err := tx.Enqueue(ctx, sync.ActionPersonUpsert, sync.PersonUpsertPayload{
			Ref: ref(person.ClientID, nil), CPF: person.CPF, Name: person.Name,
		}); err != nil {
			return err
		}

		jobPosition, err := m.ensureJobPosition(ctx, tx, in.JobPositionName, now)
		if err != nil {
			return err
		}

		employee = &store.Employee{
			ClientID:           uuid.NewString(),
			PersonClientID:     person.ClientID,
			RegistrationNumber: in.RegistrationNumber,
			SyncStatus:         store.StatusDirty,
			LocalUpdatedAt:     now,
		}
		payload := sync.EmployeeUpsertPayload{
			Ref:                ref(employee.ClientID, nil),
			PersonClientID:     person.ClientID,
			RegistrationNumber: in.RegistrationNumber,
			JobPositionName:    in.JobPositionName,
		}
		if jobPosition != nil {
			employee.JobPositionClientID = jobPosition.ClientID
			payload.JobPositionClientID = jobPosition.ClientID
			payload.JobPositionServerID = jobPosition.ServerID
		}
		if err := tx.SaveEmployee(ctx, employee); err != nil {
			return err
		}
		if _, err := tx.Enqueue(ctx, sync.ActionEmployeeUpsert, payload); err != nil {
			return err
		}

		if in.Username != "" {
			account := &store.UserAccount{
				ClientID:       uuid.NewString(),
				PersonClientID: person.ClientID,
				Username:       in.Username,
				AccountType:    in.AccountType,
				IsActive:       true,
				SyncStatus:     store.StatusDirty,
				LocalUpdatedAt: now,
			}
			if err := tx.SaveUserAccount(ctx, account); err != nil {
				return err
			}
			active := true
			if _, err := tx.Enqueue(ctx, sync.ActionUserAccountUpsert, sync.UserAccountUpsertPayload{
				Ref:            ref(account.ClientID, nil),
				PersonClientID: person.ClientID,
				Username:       account.Username,
				Password:       in.Password,
				AccountType:    account.AccountType,
				IsActive:       &active,
			}); err != nil {
				return err
			}
		}

		schedule := &store.Schedule{
			ClientID:         uuid.NewString(),
			EmployeeClientID: employee.ClientID,
			Name:             "Padrão",
			SyncStatus:       store.StatusDirty,
			LocalUpdatedAt:   now,
		}
		if err := tx.SaveSchedule(ctx, schedule); err != nil {
			return err
		}
		_, err = tx.Enqueue(ctx, sync.ActionScheduleUpsert, sync.ScheduleUpsertPayload{
			Ref:              ref(schedule.ClientID, nil),
			EmployeeClientID: employee.ClientID,
			Name:             schedule.Name,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("employee created", slog.String("registration", in.RegistrationNumber))
	return employee, nil
}

func (m *Manager) ensureJobPosition(ctx context.Context, tx *store.Tx, name string, now time.Time) (*store.JobPosition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	existing, err := notFoundOK(tx.GetJobPositionByNormalizedName(ctx, sync.NormalizeJobName(name)))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	jp := &store.JobPosition{
		ClientID:       uuid.NewString(),
		Name:           name,
		SyncStatus:     store.StatusDirty,
		LocalUpdatedAt: now,
	}
	if err := tx.SaveJobPosition(ctx, jp); err != nil {
		return nil, err
	}
	if _, err := tx.Enqueue(ctx, sync.ActionJobPositionUpsert, sync.JobPositionUpsertPayload{
		Ref: ref(jp.ClientID, nil), Name: jp.Name,
	}); err != nil {
		return nil, err
	}
	return jp, nil
}

// UpdatePerson renames a person.
func (m *Manager) UpdatePerson(ctx context.Context, personClientID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrMissingFields
	}

	now := m.now().UTC()
	return m.store.WithTx(ctx, func(tx *store.Tx) error {
		person, err := notFoundOK(tx.GetPerson(ctx, personClientID))
		if err != nil {
			return err
		}
		if person == nil || person.SyncStatus == store.StatusDeleted {
			return ErrPersonNotFound
		}

		person.Name = name
		person.SyncStatus = store.StatusDirty
		person.LocalUpdatedAt = now
		if err := tx.SavePerson(ctx, person); err != nil {
			return err
		}
		_, err = tx.Enqueue(ctx, sync.ActionPersonUpsert, sync.PersonUpsertPayload{
			Ref: ref(person.ClientID, person.ServerID), CPF: person.CPF, Name: person.Name,
		})
		return err
	})
}

// DeletePerson soft-deletes the person and its whole subtree locally and
// enqueues one cascading delete. Rows are hard-removed once the server
// confirms.
func (m *Manager) DeletePerson(ctx context.Context, personClientID string) error {
	now := m.now().UTC()
	return m.store.WithTx(ctx, func(tx *store.Tx) error {
		person, err := notFoundOK(tx.GetPerson(ctx, personClientID))
		if err != nil {
			return err
		}
		if person == nil || person.SyncStatus == store.StatusDeleted {
			return ErrPersonNotFound
		}

		if employee, err := notFoundOK(tx.GetEmployeeByPerson(ctx, person.ClientID)); err != nil {
			return err
		} else if employee != nil {
			if err := m.markEmployeeDeleted(ctx, tx, employee, now); err != nil {
				return err
			}
		}

		if account, err := notFoundOK(tx.GetUserAccountByPerson(ctx, person.ClientID)); err != nil {
			return err
		} else if account != nil {
			account.SyncStatus = store.StatusDeleted
			account.LocalUpdatedAt = now
			if err := tx.SaveUserAccount(ctx, account); err != nil {
				return err
			}
		}

		person.SyncStatus = store.StatusDeleted
		person.LocalUpdatedAt = now
		if err := tx.SavePerson(ctx, person); err != nil {
			return err
		}
		_, err = tx.Enqueue(ctx, sync.ActionPersonDelete, sync.PersonDeletePayload{
			Ref: ref(person.ClientID, person.ServerID),
		})
		return err
	})
}

// DeleteEmployee removes the employment record and its schedules but
// keeps the person.
func (m *Manager) DeleteEmployee(ctx context.Context, employeeClientID string) error {
	now := m.now().UTC()
	return m.store.WithTx(ctx, func(tx *store.Tx) error {
		employee, err := notFoundOK(tx.GetEmployee(ctx, employeeClientID))
		if err != nil {
			return err
		}
		if employee == nil || employee.SyncStatus == store.StatusDeleted {
			return ErrEmployeeNotFound
		}

		if err := m.markEmployeeDeleted(ctx, tx, employee, now); err != nil {
			return err
		}
		_, err = tx.Enqueue(ctx, sync.ActionEmployeeDelete, sync.EmployeeDeletePayload{
			Ref: ref(employee.ClientID, employee.ServerID),
		})
		return err
	})
}

func (m *Manager) markEmployeeDeleted(ctx context.Context, tx *store.Tx, employee *store.Employee, now time.Time) error {
	schedules, err := tx.ListSchedulesByEmployee(ctx, employee.ClientID)
	if err != nil {
		return err
	}
	for i := range schedules {
		if err := tx.DeleteScheduleHoursBySchedule(ctx, schedules[i].ClientID); err != nil {
			return err
		}
		schedules[i].SyncStatus = store.StatusDeleted
		schedules[i].LocalUpdatedAt = now
		if err := tx.SaveSchedule(ctx, &schedules[i]); err != nil {
			return err
		}
	}

	employee.SyncStatus = store.StatusDeleted
	employee.LocalUpdatedAt = now
	return tx.SaveEmployee(ctx, employee)
}

// DeleteJobPosition refuses while any active employee still holds the
// position.
func (m *Manager) DeleteJobPosition(ctx context.Context, jobPositionClientID string) error {
	now := m.now().UTC()
	return m.store.WithTx(ctx, func(tx *store.Tx) error {
		jp, err := notFoundOK(tx.GetJobPosition(ctx, jobPositionClientID))
		if err != nil {
			return err
		}
		if jp == nil || jp.SyncStatus == store.StatusDeleted {
			return nil
		}

		count, err := tx.CountEmployeesByJobPosition(ctx, jp.ClientID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrJobPositionInUse
		}

		jp.SyncStatus = store.StatusDeleted
		jp.LocalUpdatedAt = now
		if err := tx.SaveJobPosition(ctx, jp); err != nil {
			return err
		}
		_, err = tx.Enqueue(ctx, sync.ActionJobPositionDelete, sync.JobPositionDeletePayload{
			Ref: ref(jp.ClientID, jp.ServerID),
		})
		return err
	})
}

// RegisterTimeClockEvent records one offline clock punch.
func (m *Manager) RegisterTimeClockEvent(ctx context.Context, employeeClientID, eventType string, occurredAt time.Time) error {
	if eventType == "" {
		return ErrMissingFields
	}

	now := m.now().UTC()
	return m.store.WithTx(ctx, func(tx *store.Tx) error {
		employee, err := notFoundOK(tx.GetEmployee(ctx, employeeClientID))
		if err != nil {
			return err
		}
		if employee == nil || employee.SyncStatus == store.StatusDeleted {
			return ErrEmployeeNotFound
		}

		event := &store.TimeClockEvent{
			ClientID:         uuid.NewString(),
			EmployeeClientID: employee.ClientID,
			EventType:        eventType,
			OccurredAt:       occurredAt.UTC(),
			SyncStatus:       store.StatusDirty,
			LocalUpdatedAt:   now,
		}
		if err := tx.SaveTimeClockEvent(ctx, event); err != nil {
			return err
		}
		_, err = tx.Enqueue(ctx, sync.ActionTimeClockEventCreate, sync.TimeClockEventCreatePayload{
			Ref:              ref(event.ClientID, nil),
			EmployeeClientID: employee.ClientID,
			EmployeeServerID: employee.ServerID,
			EventType:        eventType,
			OccurredAt:       event.OccurredAt,
		})
		return err
	})
}
