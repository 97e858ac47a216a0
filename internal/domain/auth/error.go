package auth

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid_credentials")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInactiveUser       = errors.New("inactive_user")
	ErrInvalidToken       = errors.New("invalid token")
)
