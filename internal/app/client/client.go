// Package client wires the local application: the SQLite store, the
// HTTP transport, the mutation handlers and the sync engine.
package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"pontosync/internal/app/client/actions"
	"pontosync/internal/app/client/config"
	"pontosync/internal/app/client/store"
)

type App struct {
	Config  *config.Config
	Log     *slog.Logger
	Store   *store.Store
	API     *httpClient
	Actions *actions.Manager
	Sync    *SyncService
}

// New opens the local database and wires every component. A previously
// saved session token is restored so the app starts authenticated.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	st, err := store.Open(cfg.DataPath)
	if err != nil {
		return nil, err
	}

	api := NewHTTPClient(cfg, log)

	token, err := st.GetMeta(context.Background(), store.MetaAuthToken)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("falha ao carregar sessão: %w", err)
	}
	api.SetToken(token)

	return &App{
		Config:  cfg,
		Log:     log,
		Store:   st,
		API:     api,
		Actions: actions.New(st, log),
		Sync:    NewSyncService(st, api, log, cfg),
	}, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}

// Login authenticates against the server and persists the session so
// later commands and the background worker reuse it.
func (a *App) Login(ctx context.Context, username, password string) error {
	resp, err := a.API.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if err := a.Store.SetMeta(ctx, store.MetaAuthToken, resp.Token); err != nil {
		return fmt.Errorf("falha ao salvar sessão: %w", err)
	}
	if err := a.Store.SetMeta(ctx, store.MetaUsername, resp.User.Username); err != nil {
		return fmt.Errorf("falha ao salvar sessão: %w", err)
	}
	if err := a.Store.SetMeta(ctx, store.MetaUserServerID, strconv.FormatInt(resp.User.UserID, 10)); err != nil {
		return fmt.Errorf("falha ao salvar sessão: %w", err)
	}
	if resp.User.EmployeeID != nil {
		if err := a.Store.SetMeta(ctx, store.MetaEmployeeServerID, strconv.FormatInt(*resp.User.EmployeeID, 10)); err != nil {
			return fmt.Errorf("falha ao salvar sessão: %w", err)
		}
	}
	return nil
}

// Logout drops the saved session. Local data stays untouched so the
// outbox survives across sessions.
func (a *App) Logout(ctx context.Context) error {
	for _, key := range []string{store.MetaAuthToken, store.MetaUsername, store.MetaUserServerID, store.MetaEmployeeServerID} {
		if err := a.Store.DeleteMeta(ctx, key); err != nil {
			return fmt.Errorf("falha ao encerrar sessão: %w", err)
		}
	}
	a.API.SetToken("")
	return nil
}

// CurrentUser returns the saved session username, or "" when logged out.
func (a *App) CurrentUser(ctx context.Context) (string, error) {
	token, err := a.Store.GetMeta(ctx, store.MetaAuthToken)
	if err != nil || token == "" {
		return "", err
	}
	return a.Store.GetMeta(ctx, store.MetaUsername)
}

// Run keeps the background sync worker alive until SIGINT or SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		a.Sync.RunWorker(ctx, time.Duration(a.Config.SyncIntervalSeconds)*time.Second)
		close(done)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		a.Log.Info("shutting down")
		cancel()
	case <-ctx.Done():
	}

	<-done
	return nil
}
