package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"pontosync/internal/app/server/api"
	"pontosync/internal/app/server/config"
	"pontosync/internal/infrastructure/storage/postgres"
	"pontosync/internal/utils/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf := config.MustLoad()
	log := logger.New(conf.Env)

	storage, err := postgres.New(conf)
	if err != nil {
		log.Error("storage init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	server := &http.Server{
		Addr:    conf.Server.RunAddress,
		Handler: api.New(storage, conf, log),
	}

	go func() {
		log.Info("server listening", slog.String("address", conf.Server.RunAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", slog.String("error", err.Error()))
	}
}
