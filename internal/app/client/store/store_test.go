package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pontosync/internal/domain/sync"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPersonRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	person := &Person{
		ClientID:       "p-1",
		CPF:            "12345678901",
		Name:           "Maria Silva",
		SyncStatus:     StatusDirty,
		LocalUpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.SavePerson(ctx, person))

	got, err := s.GetPerson(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", got.Name)
	assert.Nil(t, got.ServerID)
	assert.Equal(t, StatusDirty, got.SyncStatus)

	// Upsert keeps the same row.
	serverID := int64(42)
	person.ServerID = &serverID
	person.SyncStatus = StatusClean
	person.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.SavePerson(ctx, person))

	got, err = s.GetPersonByServerID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.ClientID)
	assert.Equal(t, StatusClean, got.SyncStatus)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestGetPersonByCPFIgnoresDeleted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePerson(ctx, &Person{
		ClientID: "p-1", CPF: "111", Name: "A",
		SyncStatus: StatusDeleted, LocalUpdatedAt: time.Now().UTC(),
	}))

	_, err := s.GetPersonByCPF(ctx, "111")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOutboxLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Enqueue(ctx, sync.ActionPersonUpsert, sync.PersonUpsertPayload{
		Ref: sync.Ref{ClientID: "p-1"}, CPF: "111", Name: "A",
	})
	require.NoError(t, err)

	entries, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.Equal(t, sync.ActionPersonUpsert, entries[0].Type)
	assert.Equal(t, OutboxPending, entries[0].Status)

	// FAILED entries keep being retried.
	require.NoError(t, s.MarkFailed(ctx, id, "CPF ja cadastrado no servidor"))
	entries, err = s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, OutboxFailed, entries[0].Status)
	assert.Equal(t, 1, entries[0].RetryCount)
	assert.Equal(t, "CPF ja cadastrado no servidor", entries[0].LastError)

	require.NoError(t, s.MarkSent(ctx, id))
	entries, err = s.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	count, err := s.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListPendingOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Enqueue(ctx, sync.ActionPersonUpsert, sync.PersonUpsertPayload{Ref: sync.Ref{ClientID: "a"}})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := s.Enqueue(ctx, sync.ActionPersonUpsert, sync.PersonUpsertPayload{Ref: sync.Ref{ClientID: "b"}})
	require.NoError(t, err)

	entries, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0].ID)
	assert.Equal(t, second, entries[1].ID)
}

func TestMetaRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	value, err := s.GetMeta(ctx, MetaLastSyncAt)
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, s.SetMeta(ctx, MetaLastSyncAt, "2024-03-15T12:00:00Z"))
	require.NoError(t, s.SetMeta(ctx, MetaLastSyncAt, "2024-03-16T12:00:00Z"))

	value, err = s.GetMeta(ctx, MetaLastSyncAt)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-16T12:00:00Z", value)

	require.NoError(t, s.DeleteMeta(ctx, MetaLastSyncAt))
	value, err = s.GetMeta(ctx, MetaLastSyncAt)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx *Tx) error {
		if err := tx.SavePerson(ctx, &Person{
			ClientID: "p-1", CPF: "111", Name: "A",
			SyncStatus: StatusDirty, LocalUpdatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = s.GetPerson(ctx, "p-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCleanupDuplicateScheduleHours(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	serverID := int64(7)
	hours := []*ScheduleHour{
		{ClientID: "h-1", ScheduleClientID: "s-1", Weekday: 1, StartMinutes: 480, EndMinutes: 720, BlockType: "WORK", SyncStatus: StatusDirty, LocalUpdatedAt: now},
		{ClientID: "h-2", ScheduleClientID: "s-1", Weekday: 1, StartMinutes: 480, EndMinutes: 720, BlockType: "WORK", ServerID: &serverID, SyncStatus: StatusClean, LocalUpdatedAt: now},
		{ClientID: "h-3", ScheduleClientID: "s-1", Weekday: 2, StartMinutes: 480, EndMinutes: 720, BlockType: "WORK", SyncStatus: StatusDirty, LocalUpdatedAt: now},
	}
	for _, h := range hours {
		require.NoError(t, s.SaveScheduleHour(ctx, h))
	}

	dropped, err := s.CleanupDuplicateScheduleHours(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)

	// The copy carrying a server id survives.
	_, err = s.GetScheduleHour(ctx, "h-1")
	assert.ErrorIs(t, err, ErrNotFound)
	kept, err := s.GetScheduleHour(ctx, "h-2")
	require.NoError(t, err)
	require.NotNil(t, kept.ServerID)
	_, err = s.GetScheduleHour(ctx, "h-3")
	assert.NoError(t, err)
}

func TestCleanupDuplicateScheduleHoursIgnoresTombstones(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// A pending-delete tombstone shares the slot with the pulled copy;
	// neither side of the pair may be dropped.
	serverID := int64(7)
	hours := []*ScheduleHour{
		{ClientID: "h-1", ScheduleClientID: "s-1", Weekday: 1, StartMinutes: 480, EndMinutes: 720, BlockType: "WORK", SyncStatus: StatusDeleted, LocalUpdatedAt: now},
		{ClientID: "h-2", ScheduleClientID: "s-1", Weekday: 1, StartMinutes: 480, EndMinutes: 720, BlockType: "WORK", ServerID: &serverID, SyncStatus: StatusClean, LocalUpdatedAt: now},
	}
	for _, h := range hours {
		require.NoError(t, s.SaveScheduleHour(ctx, h))
	}

	dropped, err := s.CleanupDuplicateScheduleHours(ctx)
	require.NoError(t, err)
	assert.Zero(t, dropped)

	tombstone, err := s.GetScheduleHour(ctx, "h-1")
	require.NoError(t, err)
	assert.Equal(t, StatusDeleted, tombstone.SyncStatus)
	_, err = s.GetScheduleHour(ctx, "h-2")
	assert.NoError(t, err)
}

func TestPurgePersonTree(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.SavePerson(ctx, &Person{ClientID: "p-1", CPF: "111", Name: "A", SyncStatus: StatusDeleted, LocalUpdatedAt: now}))
	require.NoError(t, s.SaveUserAccount(ctx, &UserAccount{ClientID: "u-1", PersonClientID: "p-1", Username: "a", SyncStatus: StatusDeleted, LocalUpdatedAt: now}))
	require.NoError(t, s.SaveEmployee(ctx, &Employee{ClientID: "e-1", PersonClientID: "p-1", RegistrationNumber: "1001", SyncStatus: StatusDeleted, LocalUpdatedAt: now}))
	require.NoError(t, s.SaveSchedule(ctx, &Schedule{ClientID: "s-1", EmployeeClientID: "e-1", Name: "Padrão", SyncStatus: StatusDeleted, LocalUpdatedAt: now}))
	require.NoError(t, s.SaveScheduleHour(ctx, &ScheduleHour{ClientID: "h-1", ScheduleClientID: "s-1", Weekday: 1, StartMinutes: 480, EndMinutes: 720, BlockType: "WORK", SyncStatus: StatusDirty, LocalUpdatedAt: now}))

	require.NoError(t, s.PurgePersonTree(ctx, "p-1"))

	for _, check := range []func() error{
		func() error { _, err := s.GetPerson(ctx, "p-1"); return err },
		func() error { _, err := s.GetUserAccount(ctx, "u-1"); return err },
		func() error { _, err := s.GetEmployee(ctx, "e-1"); return err },
		func() error { _, err := s.GetSchedule(ctx, "s-1"); return err },
		func() error { _, err := s.GetScheduleHour(ctx, "h-1"); return err },
	} {
		assert.ErrorIs(t, check(), ErrNotFound)
	}
}

func TestObserverNotified(t *testing.T) {
	s := newTestStore(t)

	var called int
	s.OnChange(func() { called++ })
	s.NotifyChanged()
	s.NotifyChanged()

	assert.Equal(t, 2, called)
}

func TestGetJobPositionByNormalizedName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveJobPosition(ctx, &JobPosition{
		ClientID: "j-1", Name: "Analista  de Sistemas",
		SyncStatus: StatusDirty, LocalUpdatedAt: time.Now().UTC(),
	}))

	jp, err := s.GetJobPositionByNormalizedName(ctx, sync.NormalizeJobName("analista de sistemas"))
	require.NoError(t, err)
	assert.Equal(t, "j-1", jp.ClientID)

	_, err = s.GetJobPositionByNormalizedName(ctx, sync.NormalizeJobName("Gerente"))
	assert.ErrorIs(t, err, ErrNotFound)
}
