package auth

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Authenticate a user",
		Description: "Validates credentials and returns a bearer token with the user identity",
		Tags:        []string{"auth"},
		Middlewares: h.middleware,
	}
}
