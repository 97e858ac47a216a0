package sync

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"pontosync/internal/domain/sync"
)

type Handler struct {
	service    sync.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service sync.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.pushOp(), h.push)
	huma.Register(api, h.pullOp(), h.pull)
}

func (h *Handler) push(ctx context.Context, input *pushInput) (*pushOutput, error) {
	response, err := h.service.Push(ctx, input.Body)
	if err != nil {
		h.log.Error("push failed", slog.String("error", err.Error()))
		return nil, huma.Error500InternalServerError("internal error")
	}

	return &pushOutput{Body: *response}, nil
}

func (h *Handler) pull(ctx context.Context, input *pullInput) (*pullOutput, error) {
	since := parseSince(input.Since)

	response, err := h.service.Pull(ctx, since)
	if err != nil {
		h.log.Error("pull failed", slog.String("error", err.Error()))
		return nil, huma.Error500InternalServerError("internal error")
	}

	return &pullOutput{Body: *response}, nil
}

// parseSince treats unparsable watermarks as the zero time so a broken
// client falls back to a full pull instead of missing rows.
func parseSince(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
