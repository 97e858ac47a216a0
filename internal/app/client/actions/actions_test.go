package actions

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"pontosync/internal/app/client/store"
	"pontosync/internal/domain/sync"
)

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(st, log), st
}

func pendingTypes(t *testing.T, st *store.Store) []sync.ActionType {
	t.Helper()

	entries, err := st.ListPending(context.Background())
	require.NoError(t, err)
	types := make([]sync.ActionType, 0, len(entries))
	for _, e := range entries {
		types = append(types, e.Type)
	}
	return types
}

func createEmployee(t *testing.T, m *Manager, cpf, registration string) *store.Employee {
	t.Helper()

	employee, err := m.CreateEmployee(context.Background(), EmployeeInput{
		CPF:                cpf,
		Name:               "Maria Silva",
		RegistrationNumber: registration,
	})
	require.NoError(t, err)
	return employee
}

func TestCreateEmployeeEnqueuesActions(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	employee, err := m.CreateEmployee(ctx, EmployeeInput{
		CPF:                "12345678901",
		Name:               "Maria Silva",
		RegistrationNumber: "1001",
		JobPositionName:    "Analista",
		Username:           "maria",
		Password:           "s3cret",
	})
	require.NoError(t, err)
	require.NotNil(t, employee)

	assert.Equal(t, []sync.ActionType{
		sync.ActionPersonUpsert,
		sync.ActionJobPositionUpsert,
		sync.ActionEmployeeUpsert,
		sync.ActionUserAccountUpsert,
		sync.ActionScheduleUpsert,
	}, pendingTypes(t, st))

	// The account payload carries the plaintext password to the server,
	// the local row never stores it.
	entries, err := st.ListPending(ctx)
	require.NoError(t, err)
	var accountPayload *sync.UserAccountUpsertPayload
	for _, e := range entries {
		if e.Type == sync.ActionUserAccountUpsert {
			decoded, err := sync.DecodePayload(e.Type, e.Payload)
			require.NoError(t, err)
			accountPayload = decoded.(*sync.UserAccountUpsertPayload)
		}
	}
	require.NotNil(t, accountPayload)
	assert.Equal(t, "s3cret", accountPayload.Password)

	schedules, err := st.ListSchedulesByEmployee(ctx, employee.ClientID)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, "Padrão", schedules[0].Name)
}

func TestCreateEmployeeValidation(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.CreateEmployee(ctx, EmployeeInput{CPF: "1", Name: "A"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = m.CreateEmployee(ctx, EmployeeInput{
		CPF: "1", Name: "A", RegistrationNumber: "10", Username: "a",
	})
	assert.ErrorIs(t, err, ErrMissingFields, "username without password")
}

func TestCreateEmployeeDuplicates(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	createEmployee(t, m, "111", "1001")

	_, err := m.CreateEmployee(ctx, EmployeeInput{CPF: "111", Name: "B", RegistrationNumber: "1002"})
	assert.ErrorIs(t, err, ErrCPFInUse)

	_, err = m.CreateEmployee(ctx, EmployeeInput{CPF: "222", Name: "B", RegistrationNumber: "1001"})
	assert.ErrorIs(t, err, ErrRegistrationInUse)
}

func TestCreateEmployeeReusesJobPosition(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	first, err := m.CreateEmployee(ctx, EmployeeInput{
		CPF: "111", Name: "A", RegistrationNumber: "1001", JobPositionName: "Analista de Sistemas",
	})
	require.NoError(t, err)

	// Same position with different casing and spacing converges.
	second, err := m.CreateEmployee(ctx, EmployeeInput{
		CPF: "222", Name: "B", RegistrationNumber: "1002", JobPositionName: "analista  DE sistemas",
	})
	require.NoError(t, err)
	assert.Equal(t, first.JobPositionClientID, second.JobPositionClientID)

	positions, err := st.ListJobPositions(ctx)
	require.NoError(t, err)
	assert.Len(t, positions, 1)
}

func TestAddScheduleHourConflict(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	employee := createEmployee(t, m, "111", "1001")

	_, err := m.AddScheduleHour(ctx, employee.ClientID, 1, "08:00", "12:00")
	require.NoError(t, err)
	_, err = m.AddScheduleHour(ctx, employee.ClientID, 1, "13:00", "17:00")
	require.NoError(t, err)

	// Crosses the lunch gap but overlaps both existing blocks.
	_, err = m.AddScheduleHour(ctx, employee.ClientID, 1, "11:30", "14:00")
	assert.ErrorIs(t, err, ErrScheduleConflict)

	// Same range on another weekday is fine.
	_, err = m.AddScheduleHour(ctx, employee.ClientID, 2, "11:30", "14:00")
	assert.NoError(t, err)

	// Touching ranges do not conflict.
	_, err = m.AddScheduleHour(ctx, employee.ClientID, 1, "17:00", "18:00")
	assert.NoError(t, err)
}

func TestUpdateScheduleHourExcludesItself(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	employee := createEmployee(t, m, "111", "1001")
	_, err := m.AddScheduleHour(ctx, employee.ClientID, 1, "08:00", "12:00")
	require.NoError(t, err)

	schedules, err := st.ListSchedulesByEmployee(ctx, employee.ClientID)
	require.NoError(t, err)
	hours, err := st.ListScheduleHoursByDay(ctx, schedules[0].ClientID, 1)
	require.NoError(t, err)
	require.Len(t, hours, 1)

	// Shrinking a block must not conflict with its own old range.
	msg, err := m.UpdateScheduleHour(ctx, hours[0].ClientID, "09:00", "11:00")
	require.NoError(t, err)
	assert.Equal(t, MsgHourUpdated, msg)
}

func TestApplyDefaultSchedule(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	employee := createEmployee(t, m, "111", "1001")

	msg, err := m.ApplyDefaultSchedule(ctx, employee.ClientID)
	require.NoError(t, err)
	assert.Equal(t, MsgDefaultApplied, msg)

	schedules, err := st.ListSchedulesByEmployee(ctx, employee.ClientID)
	require.NoError(t, err)
	require.Len(t, schedules, 1)

	for wd := 1; wd <= 5; wd++ {
		hours, err := st.ListScheduleHoursByDay(ctx, schedules[0].ClientID, wd)
		require.NoError(t, err)
		require.Len(t, hours, 2, "weekday %d", wd)
		assert.Equal(t, 480, hours[0].StartMinutes)
		assert.Equal(t, 720, hours[0].EndMinutes)
		assert.Equal(t, 780, hours[1].StartMinutes)
		assert.Equal(t, 1020, hours[1].EndMinutes)
	}

	for _, wd := range []int{0, 6} {
		hours, err := st.ListScheduleHoursByDay(ctx, schedules[0].ClientID, wd)
		require.NoError(t, err)
		require.Len(t, hours, 1, "weekday %d", wd)
		assert.Equal(t, sync.BlockTypeOff, hours[0].BlockType)
		assert.Zero(t, hours[0].StartMinutes)
		assert.Zero(t, hours[0].EndMinutes)
	}
}

func TestBulkApplyDefaultSchedule(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	a := createEmployee(t, m, "111", "1001")
	b := createEmployee(t, m, "222", "1002")

	result, err := m.BulkApplyDefaultSchedule(ctx, []string{a.ClientID, "missing", b.ClientID})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Applied)
	assert.Equal(t, 1, result.Conflicts)
}

func TestBulkApplyDefaultScheduleCancelled(t *testing.T) {
	m, _ := newTestManager(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := m.BulkApplyDefaultSchedule(ctx, []string{"e-1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Applied)
}

func TestBulkAddScheduleHour(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	a := createEmployee(t, m, "111", "1001")
	b := createEmployee(t, m, "222", "1002")
	_, err := m.AddScheduleHour(ctx, b.ClientID, 1, "09:00", "10:00")
	require.NoError(t, err)

	result, err := m.BulkAddScheduleHour(ctx, []string{a.ClientID, b.ClientID, "missing"}, 1, "08:00", "12:00")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 2, result.Conflicts)

	schedules, err := st.ListSchedulesByEmployee(ctx, a.ClientID)
	require.NoError(t, err)
	hours, err := st.ListScheduleHoursByDay(ctx, schedules[0].ClientID, 1)
	require.NoError(t, err)
	require.Len(t, hours, 1)
	assert.Equal(t, 8*60, hours[0].StartMinutes)
	assert.Equal(t, 12*60, hours[0].EndMinutes)

	// The conflicting employee keeps its original day.
	schedules, err = st.ListSchedulesByEmployee(ctx, b.ClientID)
	require.NoError(t, err)
	hours, err = st.ListScheduleHoursByDay(ctx, schedules[0].ClientID, 1)
	require.NoError(t, err)
	require.Len(t, hours, 1)
	assert.Equal(t, 9*60, hours[0].StartMinutes)
}

func TestBulkReplaceDay(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	a := createEmployee(t, m, "111", "1001")
	b := createEmployee(t, m, "222", "1002")
	_, err := m.AddScheduleHour(ctx, b.ClientID, 3, "09:00", "10:00")
	require.NoError(t, err)

	result, err := m.BulkReplaceDay(ctx, []string{a.ClientID, b.ClientID, "missing"}, 3, [][2]string{{"08:00", "12:00"}, {"14:00", "18:00"}})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Applied)
	assert.Equal(t, 1, result.Conflicts)

	for _, id := range []string{a.ClientID, b.ClientID} {
		schedules, err := st.ListSchedulesByEmployee(ctx, id)
		require.NoError(t, err)
		hours, err := st.ListScheduleHoursByDay(ctx, schedules[0].ClientID, 3)
		require.NoError(t, err)
		require.Len(t, hours, 2)
		assert.Equal(t, 8*60, hours[0].StartMinutes)
		assert.Equal(t, 14*60, hours[1].StartMinutes)
	}
}

func TestDeletePersonCascades(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	employee := createEmployee(t, m, "111", "1001")
	_, err := m.AddScheduleHour(ctx, employee.ClientID, 1, "08:00", "12:00")
	require.NoError(t, err)

	require.NoError(t, m.DeletePerson(ctx, employee.PersonClientID))

	// One cascading delete, not one per child record.
	var deletes int
	for _, typ := range pendingTypes(t, st) {
		if typ == sync.ActionPersonDelete {
			deletes++
		}
		assert.NotEqual(t, sync.ActionEmployeeDelete, typ)
	}
	assert.Equal(t, 1, deletes)

	// Soft-deleted rows disappear from the active listings.
	employees, err := st.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)

	got, err := st.GetPerson(ctx, employee.PersonClientID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusDeleted, got.SyncStatus)
}

func TestDeleteJobPositionInUse(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	employee, err := m.CreateEmployee(ctx, EmployeeInput{
		CPF: "111", Name: "A", RegistrationNumber: "1001", JobPositionName: "Analista",
	})
	require.NoError(t, err)

	err = m.DeleteJobPosition(ctx, employee.JobPositionClientID)
	assert.ErrorIs(t, err, ErrJobPositionInUse)

	require.NoError(t, m.DeleteEmployee(ctx, employee.ClientID))
	require.NoError(t, m.DeleteJobPosition(ctx, employee.JobPositionClientID))

	positions, err := st.ListJobPositions(ctx)
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestRemoveDayEnqueuesPerSchedule(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	employee := createEmployee(t, m, "111", "1001")
	_, err := m.AddScheduleHour(ctx, employee.ClientID, 2, "08:00", "12:00")
	require.NoError(t, err)

	schedules, err := st.ListSchedulesByEmployee(ctx, employee.ClientID)
	require.NoError(t, err)
	before, err := st.ListScheduleHoursByDay(ctx, schedules[0].ClientID, 2)
	require.NoError(t, err)
	require.Len(t, before, 1)

	msg, err := m.RemoveDay(ctx, employee.ClientID, 2)
	require.NoError(t, err)
	assert.Equal(t, MsgDayRemoved, msg)

	hours, err := st.ListScheduleHoursByDay(ctx, schedules[0].ClientID, 2)
	require.NoError(t, err)
	assert.Empty(t, hours)

	// The row is tombstoned, not dropped, until the server confirms.
	tombstone, err := st.GetScheduleHour(ctx, before[0].ClientID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusDeleted, tombstone.SyncStatus)

	var dayDeletes int
	for _, typ := range pendingTypes(t, st) {
		if typ == sync.ActionScheduleHourDeleteDay {
			dayDeletes++
		}
	}
	assert.Equal(t, 1, dayDeletes)
}

func TestRegisterTimeClockEvent(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	employee := createEmployee(t, m, "111", "1001")

	at := time.Date(2024, 3, 15, 8, 1, 0, 0, time.UTC)
	require.NoError(t, m.RegisterTimeClockEvent(ctx, employee.ClientID, "IN", at))

	err := m.RegisterTimeClockEvent(ctx, "missing", "IN", at)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	var clockEvents int
	for _, typ := range pendingTypes(t, st) {
		if typ == sync.ActionTimeClockEventCreate {
			clockEvents++
		}
	}
	assert.Equal(t, 1, clockEvents)
}
