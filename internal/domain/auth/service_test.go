package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type fakeRepo struct {
	accounts    map[string]*Account
	employeeIDs map[int64]int64
}

func (f *fakeRepo) GetAccountByUsername(_ context.Context, username string) (*Account, error) {
	if acc, ok := f.accounts[username]; ok {
		cp := *acc
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) GetEmployeeIDByPersonID(_ context.Context, personID int64) (*int64, error) {
	if id, ok := f.employeeIDs[personID]; ok {
		return &id, nil
	}
	return nil, ErrNotFound
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

const testPepper = "test-pepper"

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()

	hash, err := HashPassword("secret123", testPepper)
	require.NoError(t, err)

	repo := &fakeRepo{
		accounts: map[string]*Account{
			"ana": {ID: 1, PersonID: 10, Username: "ana", PasswordHash: hash, IsActive: true},
			"bob": {ID: 2, PersonID: 20, Username: "bob", PasswordHash: hash, IsActive: false},
		},
		employeeIDs: map[int64]int64{10: 100},
	}

	svc := NewService(repo, slog.New(slog.NewTextHandler(discard{}, nil)), "test-secret", testPepper)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Username: "ana", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(1), resp.User.UserID)
	assert.Equal(t, int64(10), resp.User.PersonID)
	require.NotNil(t, resp.User.EmployeeID)
	assert.Equal(t, int64(100), *resp.User.EmployeeID)
	assert.Equal(t, svc.now().Add(TokenTTL), resp.ExpiresAt)
}

func TestLogin_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"empty username", "", "secret123", ErrInvalidInput},
		{"empty password", "ana", "", ErrInvalidInput},
		{"unknown user", "nobody", "secret123", ErrInvalidCredentials},
		{"wrong password", "ana", "wrong", ErrInvalidCredentials},
		{"inactive user", "bob", "secret123", ErrInactiveUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, LoginRequest{Username: tt.username, Password: tt.password})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLogin_NoEmployee(t *testing.T) {
	svc, repo := newTestService(t)
	delete(repo.employeeIDs, 10)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "ana", Password: "secret123"})
	require.NoError(t, err)
	assert.Nil(t, resp.User.EmployeeID)
}

func TestValidate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Username: "ana", Password: "secret123"})
	require.NoError(t, err)

	userID, err := svc.Validate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), userID)

	_, err = svc.Validate(ctx, "not-a-token")
	assert.Error(t, err)

	other, _, err := NewToken(1, "ana", "other-secret", TokenTTL, svc.now())
	require.NoError(t, err)
	_, err = svc.Validate(ctx, other)
	assert.Error(t, err)
}
