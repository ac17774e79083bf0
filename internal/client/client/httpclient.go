package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/identity-client/internal/client/models"
	"github.com/dmitrijs2005/identity-client/internal/common"
	"github.com/dmitrijs2005/identity-client/internal/logging"
	"github.com/google/uuid"
)

const maxResponseBody = 1 << 20

// HTTPClient implements Client over the identity service's JSON API.
//
// Every request carries a fresh X-Request-ID and, when the token source
// returns a token, an "Authorization: Bearer" header. Any 401 response, from
// any endpoint but logout, invokes the unauthorized hook with the token the
// request carried before the error is returned.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logging.Logger

	mu             sync.RWMutex
	tokenSource    func() string
	onUnauthorized func(ctx context.Context, token string)
}

// sendOptions override the per-request defaults. The zero value reads the
// bearer from the token source and runs the unauthorized hook on 401.
type sendOptions struct {
	bearer   string
	skipHook bool
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the API rooted at baseURL
// (e.g. http://localhost:8080/identity). A nil httpClient is replaced by one
// with the given timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, httpClient *http.Client, log logging.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log.With("component", "http_client"),
	}
}

// SetTokenSource installs the function read before every request.
func (c *HTTPClient) SetTokenSource(fn func() string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokenSource = fn
}

// OnUnauthorized installs the hook run for every 401 response. token is the
// bearer the refused request carried, "" when it had none.
func (c *HTTPClient) OnUnauthorized(fn func(ctx context.Context, token string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *HTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokenSource == nil {
		return ""
	}
	return c.tokenSource()
}

func (c *HTTPClient) unauthorized(ctx context.Context, token string) {
	c.mu.RLock()
	hook := c.onUnauthorized
	c.mu.RUnlock()
	if hook != nil {
		hook(ctx, token)
	}
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body any, token string) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeader, uuid.NewString())
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}
	return req, nil
}

// do sends one request and returns the raw "result" of a 2xx envelope.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	return c.send(ctx, method, path, body, sendOptions{})
}

func (c *HTTPClient) send(ctx context.Context, method, path string, body any, opts sendOptions) (json.RawMessage, error) {
	token := opts.bearer
	if token == "" {
		token = c.token()
	}

	req, err := c.newRequest(ctx, method, path, body, token)
	if err != nil {
		return nil, err
	}
	reqID := req.Header.Get(common.RequestIDHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode, "request_id", reqID)

	if resp.StatusCode == http.StatusUnauthorized && !opts.skipHook {
		c.unauthorized(ctx, token)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp.StatusCode, data)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var env models.Envelope[json.RawMessage]
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	return env.Result, nil
}

func decodeAPIError(status int, data []byte) error {
	apiErr := &APIError{Status: status}

	var env models.Envelope[json.RawMessage]
	if err := json.Unmarshal(data, &env); err == nil {
		apiErr.Code = env.Code
		apiErr.Message = env.Msg()
	}
	return apiErr
}

// call performs a request and decodes the result into T.
func call[T any](ctx context.Context, c *HTTPClient, method, path string, body any) (T, error) {
	var out T

	raw, err := c.do(ctx, method, path, body)
	if err != nil {
		return out, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	return out, nil
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (models.TokenResult, error) {
	return call[models.TokenResult](ctx, c, http.MethodPost, "/auth/login", req)
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResult, error) {
	return call[models.RegisterResult](ctx, c, http.MethodPost, "/auth/register", req)
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, code string) (models.StatusResult, error) {
	return call[models.StatusResult](ctx, c, http.MethodPost, "/auth/verify-email",
		models.VerifyEmailRequest{VerificationCode: code})
}

func (c *HTTPClient) ChangePassword(ctx context.Context, oldPassword, newPassword string) (models.StatusResult, error) {
	return call[models.StatusResult](ctx, c, http.MethodPost, "/auth/change-password",
		models.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword})
}

// Logout revokes token. The request is authorized with token itself, since
// the session that held it is usually gone by now, and a 401 does not run
// the unauthorized hook: a newer session must survive a late refusal.
func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	_, err := c.send(ctx, http.MethodPost, "/auth/logout", models.TokenRequest{Token: token},
		sendOptions{bearer: token, skipHook: true})
	return err
}

func (c *HTTPClient) Refresh(ctx context.Context, token string) (models.TokenResult, error) {
	return call[models.TokenResult](ctx, c, http.MethodPost, "/auth/refresh", models.TokenRequest{Token: token})
}

func (c *HTTPClient) Introspect(ctx context.Context, token string) (models.IntrospectResult, error) {
	return call[models.IntrospectResult](ctx, c, http.MethodPost, "/auth/introspect", models.TokenRequest{Token: token})
}

func (c *HTTPClient) SendPasswordResetCode(ctx context.Context, username string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/send-password-reset-code",
		models.PasswordResetCodeRequest{Username: username})
	return err
}

func (c *HTTPClient) ResetPasswordWithCode(ctx context.Context, req models.ResetPasswordRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/reset-password-with-code", req)
	return err
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	return call[[]models.User](ctx, c, http.MethodGet, "/admin/users", nil)
}

func (c *HTTPClient) GetUser(ctx context.Context, id string) (models.User, error) {
	return call[models.User](ctx, c, http.MethodGet, "/admin/users/"+url.PathEscape(id), nil)
}

// Ping reports whether the API host answers HTTP at all. Any status counts
// as reachable; the unauthorized hook is not involved.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	_ = resp.Body.Close()
	return nil
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
