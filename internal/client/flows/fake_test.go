package flows

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/identity-client/internal/claims"
	"github.com/dmitrijs2005/identity-client/internal/client/models"
	"github.com/dmitrijs2005/identity-client/internal/client/router"
	"github.com/dmitrijs2005/identity-client/internal/client/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// ---- fake auth service ----

type fakeAuth struct {
	mu    sync.Mutex
	calls []string

	// block, если задан, задерживает Login до закрытия канала
	block chan struct{}

	LoginErr     error
	RegisterRet  models.RegisterResult
	RegisterErr  error
	VerifyErr    error
	ChangeRet    models.StatusResult
	ChangeErr    error
	SendCodeErr  error
	ResetErr     error
	LastUsername string
	LastCode     string
	LastPassword string
	LastOld      string
	LastRegister models.RegisterRequest
}

var _ services.AuthService = (*fakeAuth)(nil)

func (f *fakeAuth) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAuth) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAuth) Login(_ context.Context, username, password string) error {
	f.record("login")
	if f.block != nil {
		<-f.block
	}
	f.LastUsername, f.LastPassword = username, password
	return f.LoginErr
}

func (f *fakeAuth) Register(_ context.Context, req models.RegisterRequest) (models.RegisterResult, error) {
	f.record("register")
	f.LastRegister = req
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeAuth) VerifyEmail(_ context.Context, code string) (models.StatusResult, error) {
	f.record("verify")
	f.LastCode = code
	return models.StatusResult{Success: f.VerifyErr == nil}, f.VerifyErr
}

func (f *fakeAuth) ChangePassword(_ context.Context, oldPassword, newPassword string) (models.StatusResult, error) {
	f.record("change")
	f.LastOld, f.LastPassword = oldPassword, newPassword
	return f.ChangeRet, f.ChangeErr
}

func (f *fakeAuth) SendPasswordResetCode(_ context.Context, username string) error {
	f.record("send-code")
	f.LastUsername = username
	return f.SendCodeErr
}

func (f *fakeAuth) ResetPasswordWithCode(_ context.Context, username, code, newPassword string) error {
	f.record("reset")
	f.LastUsername, f.LastCode, f.LastPassword = username, code, newPassword
	return f.ResetErr
}

func (f *fakeAuth) Logout(context.Context) error             { return nil }
func (f *fakeAuth) Refresh(context.Context) error            { return nil }
func (f *fakeAuth) Introspect(context.Context) (bool, error) { return true, nil }
func (f *fakeAuth) Ping(context.Context) error               { return nil }
func (f *fakeAuth) Close(context.Context) error              { return nil }

// ---- fake admin service ----

type fakeAdmin struct {
	Users    []models.User
	UsersErr error
	calls    int
}

func (f *fakeAdmin) ListUsers(context.Context) ([]models.User, error) {
	f.calls++
	return f.Users, f.UsersErr
}

func (f *fakeAdmin) GetUser(_ context.Context, id string) (models.User, error) {
	for _, u := range f.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, f.UsersErr
}

// ---- notifier / session / scheduler ----

type notice struct {
	ok  bool
	msg string
}

type recorder struct {
	mu      sync.Mutex
	notices []notice
}

func (r *recorder) Success(msg string) { r.add(notice{ok: true, msg: msg}) }
func (r *recorder) Error(msg string)   { r.add(notice{ok: false, msg: msg}) }

func (r *recorder) add(n notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) Last() notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return notice{}
	}
	return r.notices[len(r.notices)-1]
}

func (r *recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}

type fakeSession struct {
	token string
}

func (s fakeSession) Token() string         { return s.token }
func (s fakeSession) Claims() claims.Claims { return claims.Inspect(s.token) }

// manualScheduler запоминает отложенные функции вместо таймера.
type manualScheduler struct {
	delays []time.Duration
	fns    []func()
}

func (m *manualScheduler) Schedule(d time.Duration, fn func()) {
	m.delays = append(m.delays, d)
	m.fns = append(m.fns, fn)
}

func (m *manualScheduler) Fire() {
	for _, fn := range m.fns {
		fn()
	}
	m.fns = nil
}

func newNavigator(authenticated bool) *router.Navigator {
	return router.NewNavigator(router.NewGuard(func() bool { return authenticated }))
}

func makeToken(t *testing.T, c jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}
