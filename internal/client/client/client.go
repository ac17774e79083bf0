package client

import (
	"context"

	"github.com/dmitrijs2005/identity-client/internal/client/models"
)

// Client is the transport-agnostic contract of the remote identity API.
// Every method maps to one endpoint; results are the unwrapped "result"
// field of the response envelope.
type Client interface {
	Login(ctx context.Context, req models.LoginRequest) (models.TokenResult, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResult, error)
	VerifyEmail(ctx context.Context, code string) (models.StatusResult, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) (models.StatusResult, error)
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (models.TokenResult, error)
	Introspect(ctx context.Context, token string) (models.IntrospectResult, error)
	SendPasswordResetCode(ctx context.Context, username string) error
	ResetPasswordWithCode(ctx context.Context, req models.ResetPasswordRequest) error
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	Ping(ctx context.Context) error
	Close() error
}
