package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"pontosync/internal/domain/auth"
)

type AuthRepository struct {
	storage *Storage
	log     *slog.Logger
}

func NewAuthRepository(storage *Storage, log *slog.Logger) *AuthRepository {
	return &AuthRepository{
		storage: storage,
		log:     log.With(slog.String("component", "auth_repository")),
	}
}

func (r *AuthRepository) GetAccountByUsername(ctx context.Context, username string) (*auth.Account, error) {
	var acc auth.Account
	err := r.storage.Pool().QueryRow(ctx,
		`SELECT user_id, person_id, username, password_hash, is_active
		 FROM user_account WHERE username = $1`, username).
		Scan(&acc.ID, &acc.PersonID, &acc.Username, &acc.PasswordHash, &acc.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (r *AuthRepository) GetEmployeeIDByPersonID(ctx context.Context, personID int64) (*int64, error) {
	var id int64
	err := r.storage.Pool().QueryRow(ctx,
		`SELECT employee_id FROM employee WHERE person_id = $1`, personID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &id, nil
}
