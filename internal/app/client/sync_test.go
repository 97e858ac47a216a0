package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"pontosync/internal/app/client/actions"
	"pontosync/internal/app/client/config"
	"pontosync/internal/app/client/store"
	"pontosync/internal/domain/sync"
)

// fakeServer answers the health, push and pull endpoints with canned
// reconciliation behavior.
type fakeServer struct {
	t *testing.T

	nextID       int64
	pushed       [][]sync.Action
	pullResponse sync.PullResponse
	pushStatus   func(action sync.Action) sync.PushResult
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()

	fs := &fakeServer{t: t}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/v1/sync/push", fs.handlePush)
	mux.HandleFunc("/api/v1/sync/pull", fs.handlePull)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return fs, ts
}

func (fs *fakeServer) handlePush(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	assert.NoError(fs.t, err)

	var req sync.PushRequest
	assert.NoError(fs.t, json.Unmarshal(body, &req))
	fs.pushed = append(fs.pushed, req.Actions)

	now := time.Now().UTC()
	resp := sync.PushResponse{ServerTime: now}
	for _, action := range req.Actions {
		if fs.pushStatus != nil {
			resp.Results = append(resp.Results, fs.pushStatus(action))
			continue
		}
		fs.nextID++
		id := fs.nextID
		updated := now
		resp.Results = append(resp.Results, sync.PushResult{
			ID: action.ID, Status: sync.StatusOK, ServerID: &id, UpdatedAt: &updated,
		})
	}
	json.NewEncoder(w).Encode(resp)
}

func (fs *fakeServer) handlePull(w http.ResponseWriter, _ *http.Request) {
	resp := fs.pullResponse
	if resp.ServerTime.IsZero() {
		resp.ServerTime = time.Now().UTC()
	}
	json.NewEncoder(w).Encode(resp)
}

func newTestEngine(t *testing.T, serverURL string) (*SyncService, *store.Store, *actions.Manager) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		ServerAddress:         serverURL,
		RequestTimeoutSeconds: 5,
		StaleDirtyHours:       168,
	}
	api := NewHTTPClient(cfg, log)
	return NewSyncService(st, api, log, cfg), st, actions.New(st, log)
}

func TestSyncOfflineSkips(t *testing.T) {
	// Nothing listens on this address.
	svc, _, _ := newTestEngine(t, "http://127.0.0.1:1")

	result := svc.Sync(context.Background())
	assert.Equal(t, SyncSkipped, result.Status)
	assert.Equal(t, ReasonOffline, result.Reason)
}

func TestSyncMissingBaseURL(t *testing.T) {
	svc, _, _ := newTestEngine(t, "")

	result := svc.Sync(context.Background())
	assert.Equal(t, SyncSkipped, result.Status)
	assert.Equal(t, ReasonMissingBaseURL, result.Reason)
}

func TestSyncUnhealthyServerFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(ts.Close)

	svc, _, _ := newTestEngine(t, ts.URL)
	result := svc.Sync(context.Background())
	assert.Equal(t, SyncError, result.Status)
	assert.Contains(t, result.Message, "503")
}

func TestSyncPushConfirmsOutbox(t *testing.T) {
	fs, ts := newFakeServer(t)
	svc, st, mgr := newTestEngine(t, ts.URL)
	ctx := context.Background()

	employee, err := mgr.CreateEmployee(ctx, actions.EmployeeInput{
		CPF: "111", Name: "Maria", RegistrationNumber: "1001", JobPositionName: "Analista",
	})
	require.NoError(t, err)

	result := svc.Sync(ctx)
	require.Equal(t, SyncOK, result.Status)
	assert.Equal(t, 4, result.Pushed)

	pending, err := st.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)

	// Upserts precede the schedule in one sorted batch.
	require.Len(t, fs.pushed, 1)
	types := make([]sync.ActionType, 0, len(fs.pushed[0]))
	for _, a := range fs.pushed[0] {
		types = append(types, a.Type)
	}
	assert.Equal(t, []sync.ActionType{
		sync.ActionPersonUpsert,
		sync.ActionJobPositionUpsert,
		sync.ActionEmployeeUpsert,
		sync.ActionScheduleUpsert,
	}, types)

	// Confirmed rows carry the server identity and turn CLEAN.
	got, err := st.GetEmployee(ctx, employee.ClientID)
	require.NoError(t, err)
	require.NotNil(t, got.ServerID)
	assert.Equal(t, store.StatusClean, got.SyncStatus)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestSyncPushTransportFailureMarksNothing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/v1/sync/push", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	svc, st, mgr := newTestEngine(t, ts.URL)
	ctx := context.Background()

	_, err := mgr.CreateEmployee(ctx, actions.EmployeeInput{
		CPF: "111", Name: "Maria", RegistrationNumber: "1001",
	})
	require.NoError(t, err)
	before, err := st.CountPending(ctx)
	require.NoError(t, err)

	result := svc.Sync(ctx)
	assert.Equal(t, SyncError, result.Status)

	after, err := st.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed request must not consume the outbox")
}

func TestSyncPushActionErrorMarksFailed(t *testing.T) {
	fs, ts := newFakeServer(t)
	fs.pushStatus = func(action sync.Action) sync.PushResult {
		if action.Type == sync.ActionPersonUpsert {
			return sync.PushResult{ID: action.ID, Status: sync.StatusError, Error: sync.CodeDuplicateCPF}
		}
		fs.nextID++
		id := fs.nextID
		return sync.PushResult{ID: action.ID, Status: sync.StatusOK, ServerID: &id}
	}

	svc, st, mgr := newTestEngine(t, ts.URL)
	ctx := context.Background()

	_, err := mgr.CreateEmployee(ctx, actions.EmployeeInput{
		CPF: "111", Name: "Maria", RegistrationNumber: "1001",
	})
	require.NoError(t, err)

	result := svc.Sync(ctx)
	require.Equal(t, SyncOK, result.Status)
	assert.Contains(t, result.Warnings, "CPF ja cadastrado no servidor")

	entries, err := st.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, sync.ActionPersonUpsert, entries[0].Type)
	assert.Equal(t, store.OutboxFailed, entries[0].Status)
	assert.Equal(t, "CPF ja cadastrado no servidor", entries[0].LastError)
}

func TestSyncPushDuplicateHourDropsLocalCopy(t *testing.T) {
	fs, ts := newFakeServer(t)
	fs.pushStatus = func(action sync.Action) sync.PushResult {
		if action.Type == sync.ActionScheduleHourUpsert {
			return sync.PushResult{ID: action.ID, Status: sync.StatusError, Error: sync.CodeDuplicateScheduleHour}
		}
		fs.nextID++
		id := fs.nextID
		return sync.PushResult{ID: action.ID, Status: sync.StatusOK, ServerID: &id}
	}

	svc, st, mgr := newTestEngine(t, ts.URL)
	ctx := context.Background()

	employee, err := mgr.CreateEmployee(ctx, actions.EmployeeInput{
		CPF: "111", Name: "Maria", RegistrationNumber: "1001",
	})
	require.NoError(t, err)
	_, err = mgr.AddScheduleHour(ctx, employee.ClientID, 1, "08:00", "12:00")
	require.NoError(t, err)

	result := svc.Sync(ctx)
	require.Equal(t, SyncOK, result.Status)
	assert.Contains(t, result.Warnings, "Horario ja cadastrado no servidor")

	// The rejected hour stops retrying and its local copy is gone.
	pending, err := st.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)

	schedules, err := st.ListSchedulesByEmployee(ctx, employee.ClientID)
	require.NoError(t, err)
	hours, err := st.ListScheduleHoursByDay(ctx, schedules[0].ClientID, 1)
	require.NoError(t, err)
	assert.Empty(t, hours)
}

func TestSyncPushMissingScheduleStillConfirms(t *testing.T) {
	fs, ts := newFakeServer(t)
	fs.pushStatus = func(action sync.Action) sync.PushResult {
		if action.Type == sync.ActionScheduleHourUpsert {
			// Tolerated skip: the hour was accepted but the server has no
			// schedule for it yet.
			return sync.PushResult{ID: action.ID, Status: sync.StatusOK, Error: sync.CodeMissingSchedule}
		}
		fs.nextID++
		id := fs.nextID
		return sync.PushResult{ID: action.ID, Status: sync.StatusOK, ServerID: &id}
	}

	svc, st, mgr := newTestEngine(t, ts.URL)
	ctx := context.Background()

	employee, err := mgr.CreateEmployee(ctx, actions.EmployeeInput{
		CPF: "111", Name: "Maria", RegistrationNumber: "1001",
	})
	require.NoError(t, err)
	_, err = mgr.AddScheduleHour(ctx, employee.ClientID, 1, "08:00", "12:00")
	require.NoError(t, err)

	result := svc.Sync(ctx)
	require.Equal(t, SyncOK, result.Status)
	assert.Contains(t, result.Warnings, "Horario sem escala no servidor")

	// The entry is consumed and the hour leaves DIRTY; the next pull
	// reconciles the identities.
	pending, err := st.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)

	schedules, err := st.ListSchedulesByEmployee(ctx, employee.ClientID)
	require.NoError(t, err)
	hours, err := st.ListScheduleHoursByDay(ctx, schedules[0].ClientID, 1)
	require.NoError(t, err)
	require.Len(t, hours, 1)
	assert.Equal(t, store.StatusClean, hours[0].SyncStatus)
}

func TestSyncPushReplaceDayPurgesTombstones(t *testing.T) {
	_, ts := newFakeServer(t)
	svc, st, mgr := newTestEngine(t, ts.URL)
	ctx := context.Background()

	employee, err := mgr.CreateEmployee(ctx, actions.EmployeeInput{
		CPF: "111", Name: "Maria", RegistrationNumber: "1001",
	})
	require.NoError(t, err)
	_, err = mgr.AddScheduleHour(ctx, employee.ClientID, 2, "08:00", "12:00")
	require.NoError(t, err)

	result := svc.Sync(ctx)
	require.Equal(t, SyncOK, result.Status)

	schedules, err := st.ListSchedulesByEmployee(ctx, employee.ClientID)
	require.NoError(t, err)
	before, err := st.ListScheduleHoursByDay(ctx, schedules[0].ClientID, 2)
	require.NoError(t, err)
	require.Len(t, before, 1)
	oldID := before[0].ClientID

	_, err = mgr.ReplaceDay(ctx, employee.ClientID, 2, [][2]string{{"14:00", "18:00"}})
	require.NoError(t, err)

	// The replaced hour survives as a tombstone until the next cycle.
	tombstone, err := st.GetScheduleHour(ctx, oldID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusDeleted, tombstone.SyncStatus)

	result = svc.Sync(ctx)
	require.Equal(t, SyncOK, result.Status)

	_, err = st.GetScheduleHour(ctx, oldID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	hours, err := st.ListScheduleHoursByDay(ctx, schedules[0].ClientID, 2)
	require.NoError(t, err)
	require.Len(t, hours, 1)
	assert.Equal(t, 14*60, hours[0].StartMinutes)
	assert.Equal(t, store.StatusClean, hours[0].SyncStatus)

	pending, err := st.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestSyncPushCorruptPayloadIsolated(t *testing.T) {
	fs, ts := newFakeServer(t)
	svc, st, mgr := newTestEngine(t, ts.URL)
	ctx := context.Background()

	_, err := mgr.CreateEmployee(ctx, actions.EmployeeInput{
		CPF: "111", Name: "Maria", RegistrationNumber: "1001",
	})
	require.NoError(t, err)

	// A bare string payload cannot decode into the typed person upsert.
	entries, err := st.ListPending(ctx)
	require.NoError(t, err)
	_, err = st.Enqueue(ctx, sync.ActionPersonUpsert, "oops")
	require.NoError(t, err)

	result := svc.Sync(ctx)
	require.Equal(t, SyncOK, result.Status)
	assert.Equal(t, len(entries), result.Pushed)

	remaining, err := st.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, sync.CodeInvalidPayload, remaining[0].LastError)
	require.Len(t, fs.pushed, 1)
	assert.Len(t, fs.pushed[0], len(entries))
}

func TestSyncPullMergesSnapshot(t *testing.T) {
	fs, ts := newFakeServer(t)
	serverTime := time.Now().UTC().Truncate(time.Second)
	jobID := int64(3)
	fs.pullResponse = sync.PullResponse{
		ServerTime: serverTime,
		Data: sync.PullData{
			Person: []sync.PersonRow{
				{ServerID: 1, CPF: "999", Name: "João", UpdatedAt: serverTime},
			},
			JobPosition: []sync.JobPositionRow{
				{ServerID: 3, Name: "Gerente", UpdatedAt: serverTime},
			},
			Employee: []sync.EmployeeRow{
				{ServerID: 2, PersonServerID: 1, RegistrationNumber: "2001", JobPositionServerID: &jobID, UpdatedAt: serverTime},
			},
			Schedule: []sync.ScheduleRow{
				{ServerID: 4, EmployeeServerID: 2, Name: "Padrão", UpdatedAt: serverTime},
			},
			ScheduleHour: []sync.ScheduleHourRow{
				{ServerID: 5, ScheduleServerID: 4, Weekday: 1, StartTimeMinutes: 480, EndTimeMinutes: 720, BlockType: sync.BlockTypeWork, UpdatedAt: serverTime},
			},
		},
	}

	svc, st, _ := newTestEngine(t, ts.URL)
	ctx := context.Background()

	result := svc.Sync(ctx)
	require.Equal(t, SyncOK, result.Status)
	assert.Equal(t, 5, result.Pulled)

	person, err := st.GetPersonByServerID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "João", person.Name)
	assert.Equal(t, store.StatusClean, person.SyncStatus)

	employee, err := st.GetEmployeeByServerID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, person.ClientID, employee.PersonClientID)

	jp, err := st.GetJobPositionByServerID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, jp.ClientID, employee.JobPositionClientID)

	schedules, err := st.ListSchedulesByEmployee(ctx, employee.ClientID)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	hours, err := st.ListScheduleHoursByDay(ctx, schedules[0].ClientID, 1)
	require.NoError(t, err)
	require.Len(t, hours, 1)
	assert.Equal(t, 480, hours[0].StartMinutes)

	watermark, err := st.GetMeta(ctx, store.MetaLastSyncAt)
	require.NoError(t, err)
	assert.Equal(t, serverTime.Format(time.RFC3339), watermark)

	// A second cycle re-reads the same rows without duplicating them.
	result = svc.Sync(ctx)
	require.Equal(t, SyncOK, result.Status)
	persons, err := st.ListPersons(ctx)
	require.NoError(t, err)
	assert.Len(t, persons, 1)
}

func TestSyncPullKeepsFreshDirtyRows(t *testing.T) {
	fs, ts := newFakeServer(t)
	serverTime := time.Now().UTC()
	fs.pullResponse = sync.PullResponse{
		ServerTime: serverTime,
		Data: sync.PullData{
			Person: []sync.PersonRow{
				{ServerID: 1, CPF: "111", Name: "Nome Do Servidor", UpdatedAt: serverTime},
			},
		},
	}

	svc, st, _ := newTestEngine(t, ts.URL)
	ctx := context.Background()

	serverID := int64(1)
	require.NoError(t, st.SavePerson(ctx, &store.Person{
		ClientID: "p-local", ServerID: &serverID,
		CPF: "111", Name: "Edição Local",
		SyncStatus: store.StatusDirty, LocalUpdatedAt: time.Now().UTC(),
	}))

	result := svc.Sync(ctx)
	require.Equal(t, SyncOK, result.Status)

	got, err := st.GetPerson(ctx, "p-local")
	require.NoError(t, err)
	assert.Equal(t, "Edição Local", got.Name, "fresh local edits win over the pull")
	assert.Equal(t, store.StatusDirty, got.SyncStatus)
}

func TestSyncPullOverwritesStaleDirtyRows(t *testing.T) {
	fs, ts := newFakeServer(t)
	serverTime := time.Now().UTC()
	fs.pullResponse = sync.PullResponse{
		ServerTime: serverTime,
		Data: sync.PullData{
			Person: []sync.PersonRow{
				{ServerID: 1, CPF: "111", Name: "Nome Do Servidor", UpdatedAt: serverTime},
			},
		},
	}

	svc, st, _ := newTestEngine(t, ts.URL)
	ctx := context.Background()

	serverID := int64(1)
	require.NoError(t, st.SavePerson(ctx, &store.Person{
		ClientID: "p-local", ServerID: &serverID,
		CPF: "111", Name: "Edição Antiga",
		SyncStatus:     store.StatusDirty,
		LocalUpdatedAt: time.Now().UTC().Add(-200 * time.Hour),
	}))

	result := svc.Sync(ctx)
	require.Equal(t, SyncOK, result.Status)

	got, err := st.GetPerson(ctx, "p-local")
	require.NoError(t, err)
	assert.Equal(t, "Nome Do Servidor", got.Name, "stale local edits lose to the server")
	assert.Equal(t, store.StatusClean, got.SyncStatus)
}

func TestSyncBusy(t *testing.T) {
	svc, _, _ := newTestEngine(t, "http://127.0.0.1:1")

	svc.mu.Lock()
	svc.running = true
	svc.mu.Unlock()

	result := svc.Sync(context.Background())
	assert.Equal(t, SyncSkipped, result.Status)
	assert.Equal(t, ReasonBusy, result.Reason)
}

func TestFriendlyMessage(t *testing.T) {
	assert.Equal(t, "CPF ja cadastrado no servidor", friendlyMessage(sync.CodeDuplicateCPF))
	assert.Equal(t, "Horario sem escala no servidor", friendlyMessage(sync.CodeMissingSchedule))
	assert.Equal(t, "Erro ao sincronizar", friendlyMessage("anything_else"))
}
