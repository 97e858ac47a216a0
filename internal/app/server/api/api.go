package api

import (
	authAPI "pontosync/internal/app/server/api/http/auth"
	healthAPI "pontosync/internal/app/server/api/http/health"
	"pontosync/internal/app/server/api/http/middleware"
	authMiddleware "pontosync/internal/app/server/api/http/middleware/auth"
	"pontosync/internal/app/server/api/http/middleware/logger"
	syncAPI "pontosync/internal/app/server/api/http/sync"
	"pontosync/internal/app/server/config"
	"pontosync/internal/domain/auth"
	"pontosync/internal/domain/sync"
	"pontosync/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health *healthAPI.Handler
	Auth   *authAPI.Handler
	Sync   *syncAPI.Handler
}

// New builds a *chi.Mux with every operation registered through huma.Register.
func New(storage *postgres.Storage, cfg *config.Config, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	humaConfig := huma.DefaultConfig("PontoSync API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, humaConfig)

	h := handlers(storage, cfg, log)
	h.Health.SetupRoutes(API)
	h.Auth.SetupRoutes(API)
	h.Sync.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, cfg *config.Config, log *slog.Logger) *Handlers {
	authRepo := postgres.NewAuthRepository(storage, log)
	authService := auth.NewService(authRepo, log, cfg.Auth.Secret, cfg.Auth.Pepper)
	authMW := authMiddleware.New(authService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	authHandler := authAPI.NewHandler(authService, log, middlewares.GetAllAndClear())

	syncRepo := postgres.NewSyncRepository(storage, log)
	syncService := sync.NewService(syncRepo, log, cfg.Auth.Pepper)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	syncHandler := syncAPI.NewHandler(syncService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		Auth:   authHandler,
		Sync:   syncHandler,
	}
}
