// Package actions implements the local mutation handlers: every write
// validates against the active local records, persists inside one
// transaction and enqueues the matching outbox action atomically.
package actions

import (
	"errors"
	"time"

	"golang.org/x/exp/slog"

	"pontosync/internal/app/client/store"
	"pontosync/internal/domain/sync"
)

// User-facing validation errors, surfaced as-is by the CLI.
var (
	ErrMissingFields     = errors.New("Preencha os campos obrigatórios")
	ErrCPFInUse          = errors.New("CPF já cadastrado")
	ErrRegistrationInUse = errors.New("Matrícula já cadastrada")
	ErrUsernameInUse     = errors.New("Usuário já cadastrado")
	ErrJobPositionInUse  = errors.New("Cargo em uso por funcionário")
	ErrScheduleConflict  = errors.New("Horário conflitante")
	ErrPersonNotFound    = errors.New("Pessoa não encontrada")
	ErrEmployeeNotFound  = errors.New("Funcionário não encontrado")
	ErrScheduleNotFound  = errors.New("Horário não encontrado")
)

type Manager struct {
	store *store.Store
	log   *slog.Logger
	now   func() time.Time
}

func New(st *store.Store, log *slog.Logger) *Manager {
	return &Manager{
		store: st,
		log:   log.With(slog.String("component", "actions")),
		now:   time.Now,
	}
}

func ref(clientID string, serverID *int64) sync.Ref {
	return sync.Ref{ClientID: clientID, ServerID: serverID}
}

// notFoundOK converts store.ErrNotFound into a nil record.
func notFoundOK[T any](rec *T, err error) (*T, error) {
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}
