package auth

import "pontosync/internal/domain/auth"

type loginInput struct {
	Body auth.LoginRequest
}

type loginOutput struct {
	Body auth.LoginResponse
}
