package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/identity-client/internal/client/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIdentity is a minimal stand-in for the identity service.
type fakeIdentity struct {
	lastAuth      string
	lastRequestID string
	lastBody      map[string]any
	logoutStatus  int
}

func writeEnvelope(w http.ResponseWriter, status int, code int, message string, result any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"code": code, "result": result}
	if message != "" {
		body["message"] = message
	} else {
		body["message"] = nil
	}
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeIdentity) capture(r *http.Request) {
	f.lastAuth = r.Header.Get("Authorization")
	f.lastRequestID = r.Header.Get("X-Request-ID")
	f.lastBody = nil
	b, _ := io.ReadAll(r.Body)
	if len(b) > 0 {
		_ = json.Unmarshal(b, &f.lastBody)
	}
}

func (f *fakeIdentity) router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/identity").Subrouter()

	api.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.capture(r)
		if f.lastBody["password"] != "password123" {
			writeEnvelope(w, http.StatusUnauthorized, 1006, "Unauthenticated", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, 1000, "", models.TokenResult{Token: "h.p.s", Authenticated: true})
	}).Methods(http.MethodPost)

	api.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		f.capture(r)
		if f.lastBody["username"] == "taken0001" {
			writeEnvelope(w, http.StatusBadRequest, 1002, "User already existed", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, 1000, "", models.RegisterResult{Message: "ok", VerificationCode: "482913", Success: true})
	}).Methods(http.MethodPost)

	api.HandleFunc("/auth/verify-email", func(w http.ResponseWriter, r *http.Request) {
		f.capture(r)
		writeEnvelope(w, http.StatusOK, 1000, "", models.StatusResult{Message: "verified", Success: true})
	}).Methods(http.MethodPost)

	api.HandleFunc("/auth/change-password", func(w http.ResponseWriter, r *http.Request) {
		f.capture(r)
		writeEnvelope(w, http.StatusBadRequest, 1013, "Invalid old password", nil)
	}).Methods(http.MethodPost)

	api.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.capture(r)
		status := f.logoutStatus
		if status == 0 {
			status = http.StatusOK
		}
		writeEnvelope(w, status, 1000, "", nil)
	}).Methods(http.MethodPost)

	api.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.capture(r)
		writeEnvelope(w, http.StatusOK, 1000, "", models.TokenResult{Token: "h.p2.s", Authenticated: true})
	}).Methods(http.MethodPost)

	api.HandleFunc("/auth/introspect", func(w http.ResponseWriter, r *http.Request) {
		f.capture(r)
		writeEnvelope(w, http.StatusOK, 1000, "", models.IntrospectResult{Valid: f.lastBody["token"] == "h.p.s"})
	}).Methods(http.MethodPost)

	api.HandleFunc("/auth/send-password-reset-code", func(w http.ResponseWriter, r *http.Request) {
		f.capture(r)
		writeEnvelope(w, http.StatusOK, 1000, "", "Verification code sent")
	}).Methods(http.MethodPost)

	api.HandleFunc("/auth/reset-password-with-code", func(w http.ResponseWriter, r *http.Request) {
		f.capture(r)
		writeEnvelope(w, http.StatusOK, 1000, "", map[string]any{"success": true})
	}).Methods(http.MethodPost)

	api.HandleFunc("/admin/users", func(w http.ResponseWriter, r *http.Request) {
		f.capture(r)
		if f.lastAuth != "Bearer admin.token.sig" {
			writeEnvelope(w, http.StatusForbidden, 1007, "You do not have permission", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, 1000, "", []models.User{
			{ID: "1", Username: "admin0001", IsVerified: true},
			{ID: "2", Username: "alice2024", Email: "alice@example.com"},
		})
	}).Methods(http.MethodGet)

	api.HandleFunc("/admin/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.capture(r)
		id := mux.Vars(r)["id"]
		if id != "2" {
			writeEnvelope(w, http.StatusNotFound, 1005, "User not existed", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, 1000, "", models.User{ID: "2", Username: "alice2024"})
	}).Methods(http.MethodGet)

	api.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>"))
	})

	return r
}

func newTestClient(t *testing.T) (*HTTPClient, *fakeIdentity) {
	t.Helper()
	f := &fakeIdentity{}
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/identity/", 5*time.Second, nil, nil), f
}

func TestHTTPClient_Login(t *testing.T) {
	c, f := newTestClient(t)

	res, err := c.Login(context.Background(), models.LoginRequest{Username: "alice2024", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, models.TokenResult{Token: "h.p.s", Authenticated: true}, res)
	assert.Equal(t, "alice2024", f.lastBody["username"])
	assert.Empty(t, f.lastAuth, "no token source installed")

	_, err = uuid.Parse(f.lastRequestID)
	assert.NoError(t, err, "every request carries a uuid request id")
}

func TestHTTPClient_BearerHeader(t *testing.T) {
	c, f := newTestClient(t)
	c.SetTokenSource(func() string { return "admin.token.sig" })

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice2024", users[1].Username)
	assert.Equal(t, "Bearer admin.token.sig", f.lastAuth)
}

func TestHTTPClient_ServerMessageSurfacedVerbatim(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Register(context.Background(), models.RegisterRequest{Username: "taken0001"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, 1002, apiErr.Code)
	assert.Equal(t, "User already existed", err.Error())

	_, err = c.ChangePassword(context.Background(), "old1", "new1")
	assert.EqualError(t, err, "Invalid old password")
}

func TestHTTPClient_UnauthorizedHookRunsForAnyEndpoint(t *testing.T) {
	c, _ := newTestClient(t)

	var calls atomic.Int32
	c.OnUnauthorized(func(context.Context, string) { calls.Add(1) })

	_, err := c.Login(context.Background(), models.LoginRequest{Username: "alice2024", Password: "wrong"})
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), calls.Load())

	// 403 is not a session teardown
	_, err = c.ListUsers(context.Background())
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPClient_LogoutCarriesItsOwnToken(t *testing.T) {
	c, f := newTestClient(t)
	f.logoutStatus = http.StatusUnauthorized
	c.SetTokenSource(func() string { return "" })

	var calls atomic.Int32
	c.OnUnauthorized(func(context.Context, string) { calls.Add(1) })

	err := c.Logout(context.Background(), "h.p.s")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(0), calls.Load(), "a refused logout must not tear down the current session")
	assert.Equal(t, "Bearer h.p.s", f.lastAuth)
	assert.Equal(t, "h.p.s", f.lastBody["token"])
}

func TestHTTPClient_UnauthorizedHookGetsRequestToken(t *testing.T) {
	c, _ := newTestClient(t)
	c.SetTokenSource(func() string { return "old.token.sig" })

	var got string
	c.OnUnauthorized(func(_ context.Context, token string) { got = token })

	_, err := c.Login(context.Background(), models.LoginRequest{Username: "alice2024", Password: "wrong"})
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "old.token.sig", got)
}

func TestHTTPClient_OtherEndpoints(t *testing.T) {
	c, f := newTestClient(t)
	ctx := context.Background()

	st, err := c.VerifyEmail(ctx, "123456")
	require.NoError(t, err)
	assert.True(t, st.Success)
	assert.Equal(t, "123456", f.lastBody["verificationCode"])

	tr, err := c.Refresh(ctx, "h.p.s")
	require.NoError(t, err)
	assert.Equal(t, "h.p2.s", tr.Token)

	ir, err := c.Introspect(ctx, "h.p.s")
	require.NoError(t, err)
	assert.True(t, ir.Valid)

	require.NoError(t, c.SendPasswordResetCode(ctx, "alice2024"))
	assert.Equal(t, "alice2024", f.lastBody["username"])

	require.NoError(t, c.ResetPasswordWithCode(ctx, models.ResetPasswordRequest{
		Username: "alice2024", VerificationCode: "654321", NewPassword: "newpass1",
	}))
	assert.Equal(t, "654321", f.lastBody["verificationCode"])
	assert.Equal(t, "newpass1", f.lastBody["newPassword"])

	require.NoError(t, c.Logout(ctx, "h.p.s"))
}

func TestHTTPClient_GetUser(t *testing.T) {
	c, _ := newTestClient(t)

	u, err := c.GetUser(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "alice2024", u.Username)

	_, err = c.GetUser(context.Background(), "99")
	require.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "User not existed")
}

func TestHTTPClient_BadResponse(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := call[models.TokenResult](context.Background(), c, http.MethodGet, "/broken", nil)
	require.ErrorIs(t, err, ErrBadResponse)
}

func TestHTTPClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url+"/identity", time.Second, nil, nil)

	_, err := c.Login(context.Background(), models.LoginRequest{Username: "u", Password: "p"})
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestHTTPClient_PingAnyStatusIsReachable(t *testing.T) {
	c, _ := newTestClient(t)
	var hooked bool
	c.OnUnauthorized(func(context.Context, string) { hooked = true })

	require.NoError(t, c.Ping(context.Background()))
	assert.False(t, hooked)
	require.NoError(t, c.Close())
}

func TestAPIError_FallsBackToStatusText(t *testing.T) {
	err := decodeAPIError(http.StatusInternalServerError, []byte("oops"))
	assert.EqualError(t, err, "Internal Server Error")
	assert.False(t, errors.Is(err, ErrUnauthorized))
}
