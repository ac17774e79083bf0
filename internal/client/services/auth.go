// Package services contains application services for the identity client.
// This file defines the authentication service: login, registration, email
// verification, password changes and resets, logout, and token round trips.
// Every operation that succeeds against the server is reflected in the
// session store.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/identity-client/internal/client/client"
	"github.com/dmitrijs2005/identity-client/internal/client/models"
	"github.com/dmitrijs2005/identity-client/internal/client/session"
	"github.com/dmitrijs2005/identity-client/internal/logging"
)

// DefaultLogoutTimeout bounds the background logout call.
const DefaultLogoutTimeout = 5 * time.Second

// ErrNotAuthenticated is returned when the server answers a login with
// authenticated=false.
var ErrNotAuthenticated = errors.New("authentication failed")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange credentials for a token and open a session.
//   - Register: create an account; returns the server's verification code.
//   - Logout: close the local session now, notify the server in background.
//   - Refresh: replace the session token, keeping the user.
//   - Ping: check server liveness.
//   - Close: wait for background calls and release client resources.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResult, error)
	VerifyEmail(ctx context.Context, code string) (models.StatusResult, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) (models.StatusResult, error)
	SendPasswordResetCode(ctx context.Context, username string) error
	ResetPasswordWithCode(ctx context.Context, username, code, newPassword string) error
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
	Introspect(ctx context.Context) (bool, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client        client.Client
	session       *session.Store
	log           logging.Logger
	logoutTimeout time.Duration

	pending sync.WaitGroup
}

// NewAuthService constructs an AuthService bound to the given API client
// and session store.
func NewAuthService(c client.Client, s *session.Store, log logging.Logger) AuthService {
	if log == nil {
		log = logging.NewNop()
	}
	return &authService{
		client:        c,
		session:       s,
		log:           log.With("component", "auth_service"),
		logoutTimeout: DefaultLogoutTimeout,
	}
}

// Login authenticates and stores the token together with a placeholder
// profile. The session is untouched on any failure.
func (a *authService) Login(ctx context.Context, username, password string) error {
	res, err := a.client.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if !res.Authenticated || res.Token == "" {
		return ErrNotAuthenticated
	}

	if err := a.session.Set(ctx, res.Token, *models.PlaceholderUser(username)); err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	a.log.Info(ctx, "logged in", "username", username)
	return nil
}

func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResult, error) {
	res, err := a.client.Register(ctx, req)
	if err != nil {
		return models.RegisterResult{}, fmt.Errorf("register error: %w", err)
	}
	a.log.Info(ctx, "registered", "username", req.Username)
	return res, nil
}

func (a *authService) VerifyEmail(ctx context.Context, code string) (models.StatusResult, error) {
	res, err := a.client.VerifyEmail(ctx, code)
	if err != nil {
		return models.StatusResult{}, fmt.Errorf("verify email error: %w", err)
	}
	return res, nil
}

func (a *authService) ChangePassword(ctx context.Context, oldPassword, newPassword string) (models.StatusResult, error) {
	res, err := a.client.ChangePassword(ctx, oldPassword, newPassword)
	if err != nil {
		return models.StatusResult{}, fmt.Errorf("change password error: %w", err)
	}
	return res, nil
}

func (a *authService) SendPasswordResetCode(ctx context.Context, username string) error {
	if err := a.client.SendPasswordResetCode(ctx, username); err != nil {
		return fmt.Errorf("send reset code error: %w", err)
	}
	return nil
}

func (a *authService) ResetPasswordWithCode(ctx context.Context, username, code, newPassword string) error {
	err := a.client.ResetPasswordWithCode(ctx, models.ResetPasswordRequest{
		Username:         username,
		VerificationCode: code,
		NewPassword:      newPassword,
	})
	if err != nil {
		return fmt.Errorf("reset password error: %w", err)
	}
	return nil
}

// Logout clears the local session synchronously and tells the server in the
// background. The server call never delays or fails the local logout; its
// outcome is only logged. Only the local clear error is returned.
func (a *authService) Logout(ctx context.Context) error {
	token := a.session.Token()
	err := a.session.Clear(ctx)

	if token != "" {
		a.pending.Add(1)
		go func() {
			defer a.pending.Done()
			bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.logoutTimeout)
			defer cancel()
			if err := a.client.Logout(bg, token); err != nil {
				a.log.Warn(bg, "server logout failed", "error", err)
				return
			}
			a.log.Debug(bg, "server logout done")
		}()
	}

	if err != nil {
		return fmt.Errorf("logout error: %w", err)
	}
	return nil
}

func (a *authService) Refresh(ctx context.Context) error {
	token := a.session.Token()
	if token == "" {
		return session.ErrNoSession
	}

	res, err := a.client.Refresh(ctx, token)
	if err != nil {
		return fmt.Errorf("refresh error: %w", err)
	}
	if res.Token == "" {
		return fmt.Errorf("refresh error: %w", client.ErrBadResponse)
	}
	if err := a.session.ReplaceToken(ctx, res.Token); err != nil {
		return fmt.Errorf("refresh error: %w", err)
	}
	return nil
}

// Introspect asks the server whether the current token is still valid.
func (a *authService) Introspect(ctx context.Context) (bool, error) {
	token := a.session.Token()
	if token == "" {
		return false, session.ErrNoSession
	}

	res, err := a.client.Introspect(ctx, token)
	if err != nil {
		return false, fmt.Errorf("introspect error: %w", err)
	}
	return res.Valid, nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close waits for pending background logouts, then releases the client.
func (a *authService) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
	return a.client.Close()
}
