package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/exp/slog"
)

// TokenTTL matches the original server: tokens live for seven days.
const TokenTTL = 7 * 24 * time.Hour

// Account is the credential-bearing view of a user account.
type Account struct {
	ID           int64
	PersonID     int64
	Username     string
	PasswordHash string
	IsActive     bool
}

// Repository provides the lookups the login flow needs.
type Repository interface {
	GetAccountByUsername(ctx context.Context, username string) (*Account, error)
	GetEmployeeIDByPersonID(ctx context.Context, personID int64) (*int64, error)
}

// ErrNotFound is returned by repositories when no account matches.
var ErrNotFound = errors.New("not found")

type Servicer interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Validate(ctx context.Context, token string) (int64, error)
}

type Service struct {
	repo   Repository
	log    *slog.Logger
	secret string
	pepper string
	now    func() time.Time
}

func NewService(repo Repository, log *slog.Logger, secret, pepper string) *Service {
	return &Service{
		repo:   repo,
		log:    log.With(slog.String("component", "auth_service")),
		secret: secret,
		pepper: pepper,
		now:    time.Now,
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidInput
	}

	account, err := s.repo.GetAccountByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(account.PasswordHash, req.Password, s.pepper) {
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, ErrInactiveUser
	}

	employeeID, err := s.repo.GetEmployeeIDByPersonID(ctx, account.PersonID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	token, expiresAt, err := NewToken(account.ID, account.Username, s.secret, TokenTTL, now)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", slog.String("username", account.Username))

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: UserInfo{
			UserID:     account.ID,
			PersonID:   account.PersonID,
			EmployeeID: employeeID,
			Username:   account.Username,
		},
		ServerTime: now,
	}, nil
}

// Validate checks a bearer token and returns the account id it carries.
func (s *Service) Validate(_ context.Context, token string) (int64, error) {
	claims, err := ParseToken(token, s.secret)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
