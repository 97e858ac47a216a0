package auth

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"pontosync/internal/domain/auth"
)

type Handler struct {
	service    auth.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service auth.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.loginOp(), h.login)
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	response, err := h.service.Login(ctx, input.Body)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInactiveUser):
			return nil, huma.Error403Forbidden("inactive_user")
		case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidInput):
			return nil, huma.Error401Unauthorized("invalid_credentials")
		default:
			h.log.Error("login failed", slog.String("error", err.Error()))
			return nil, huma.Error500InternalServerError("internal error")
		}
	}

	return &loginOutput{Body: *response}, nil
}
