package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/dmitrijs2005/identity-client/internal/client/client"
	"github.com/dmitrijs2005/identity-client/internal/client/models"
	"github.com/dmitrijs2005/identity-client/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/identity-client/internal/client/session"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupSession(t *testing.T) (*session.Store, metadata.Repository) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	repo := metadata.NewSQLiteRepository(db)
	return session.NewStore(repo, nil), repo
}

// ---- fake client ----

// fakeClient реализует client.Client для юнит-тестов сервисов.
type fakeClient struct {
	mu sync.Mutex

	LoginRet models.TokenResult
	LoginErr error

	RegisterRet models.RegisterResult
	RegisterErr error

	StatusRet models.StatusResult
	StatusErr error

	LogoutErr   error
	logoutCalls []string

	RefreshRet models.TokenResult
	RefreshErr error

	IntrospectRet models.IntrospectResult
	IntrospectErr error

	ResetCodeErr error
	ResetErr     error

	Users    []models.User
	UsersErr error

	PingErr  error
	CloseErr error

	// для проверок аргументов
	LastLogin     models.LoginRequest
	LastRegister  models.RegisterRequest
	LastCode      string
	LastOld       string
	LastNew       string
	LastToken     string
	LastResetUser string
	LastReset     models.ResetPasswordRequest
	LastUserID    string
	closed        bool
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Login(_ context.Context, req models.LoginRequest) (models.TokenResult, error) {
	f.LastLogin = req
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(_ context.Context, req models.RegisterRequest) (models.RegisterResult, error) {
	f.LastRegister = req
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) VerifyEmail(_ context.Context, code string) (models.StatusResult, error) {
	f.LastCode = code
	return f.StatusRet, f.StatusErr
}

func (f *fakeClient) ChangePassword(_ context.Context, oldPassword, newPassword string) (models.StatusResult, error) {
	f.LastOld, f.LastNew = oldPassword, newPassword
	return f.StatusRet, f.StatusErr
}

func (f *fakeClient) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls = append(f.logoutCalls, token)
	return f.LogoutErr
}

func (f *fakeClient) LogoutCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.logoutCalls...)
}

func (f *fakeClient) Refresh(_ context.Context, token string) (models.TokenResult, error) {
	f.LastToken = token
	return f.RefreshRet, f.RefreshErr
}

func (f *fakeClient) Introspect(_ context.Context, token string) (models.IntrospectResult, error) {
	f.LastToken = token
	return f.IntrospectRet, f.IntrospectErr
}

func (f *fakeClient) SendPasswordResetCode(_ context.Context, username string) error {
	f.LastResetUser = username
	return f.ResetCodeErr
}

func (f *fakeClient) ResetPasswordWithCode(_ context.Context, req models.ResetPasswordRequest) error {
	f.LastReset = req
	return f.ResetErr
}

func (f *fakeClient) ListUsers(context.Context) ([]models.User, error) {
	return f.Users, f.UsersErr
}

func (f *fakeClient) GetUser(_ context.Context, id string) (models.User, error) {
	f.LastUserID = id
	for _, u := range f.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, &client.APIError{Status: 404, Code: 1005, Message: "User not existed"}
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) Close() error {
	f.closed = true
	return f.CloseErr
}
