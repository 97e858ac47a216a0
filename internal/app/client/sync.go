package client

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"pontosync/internal/app/client/config"
	"pontosync/internal/app/client/store"
)

// Sync outcome statuses.
const (
	SyncOK      = "ok"
	SyncSkipped = "skipped"
	SyncError   = "error"
)

// Skip reasons.
const (
	ReasonBusy           = "busy"
	ReasonOffline        = "offline"
	ReasonMissingBaseURL = "missing_base_url"
)

// SyncResult describes one sync cycle for the caller: CLI output and the
// background worker both consume it.
type SyncResult struct {
	Status   string
	Reason   string
	Pushed   int
	Pulled   int
	Warnings []string
	Message  string
}

// SyncService runs the push/pull cycle. Only one cycle runs at a time;
// concurrent calls are reported as busy instead of queueing.
type SyncService struct {
	store       *store.Store
	api         *httpClient
	log         *slog.Logger
	staleWindow time.Duration

	mu      gosync.Mutex
	running bool
}

func NewSyncService(st *store.Store, api *httpClient, log *slog.Logger, cfg *config.Config) *SyncService {
	staleWindow := time.Duration(cfg.StaleDirtyHours) * time.Hour
	if staleWindow <= 0 {
		staleWindow = 168 * time.Hour
	}

	return &SyncService{
		store:       st,
		api:         api,
		log:         log.With(slog.String("component", "sync")),
		staleWindow: staleWindow,
	}
}

// Sync performs one full cycle: health preflight, push the outbox, then
// pull the server snapshot. Offline is a skip, not an error.
func (s *SyncService) Sync(ctx context.Context) SyncResult {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return SyncResult{Status: SyncSkipped, Reason: ReasonBusy, Message: "Sincronização já em andamento"}
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if s.api.BaseURL() == "" {
		return SyncResult{Status: SyncSkipped, Reason: ReasonMissingBaseURL, Message: "Endereço do servidor não configurado"}
	}

	if err := s.api.HealthCheck(ctx); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return SyncResult{Status: SyncError, Message: fmt.Sprintf("API indisponível (%d)", statusErr.Code)}
		}
		s.log.Debug("server unreachable", slog.String("error", err.Error()))
		return SyncResult{Status: SyncSkipped, Reason: ReasonOffline, Message: "Servidor indisponível"}
	}

	result := SyncResult{Status: SyncOK}

	pushStats, err := s.push(ctx)
	if pushStats != nil {
		result.Pushed = pushStats.Pushed
		result.Warnings = pushStats.Warnings
	}
	if err != nil {
		s.log.Error("push failed", slog.String("error", err.Error()))
		result.Status = SyncError
		result.Message = "Erro ao enviar alterações"
		return result
	}

	pulled, err := s.pull(ctx)
	result.Pulled = pulled
	if err != nil {
		s.log.Error("pull failed", slog.String("error", err.Error()))
		result.Status = SyncError
		result.Message = "Erro ao receber alterações"
		return result
	}

	s.log.Info("sync cycle finished",
		slog.Int("pushed", result.Pushed),
		slog.Int("pulled", result.Pulled),
		slog.Int("warnings", len(result.Warnings)),
	)
	return result
}
