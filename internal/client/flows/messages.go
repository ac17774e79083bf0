package flows

import (
	"errors"

	"github.com/dmitrijs2005/identity-client/internal/client/client"
	"github.com/dmitrijs2005/identity-client/internal/client/services"
	"github.com/dmitrijs2005/identity-client/internal/client/session"
)

const (
	MsgNetwork          = "Network error. Please check your connection and try again."
	MsgUnknown          = "An unknown error occurred."
	MsgLoginFailed      = "Login failed. Please check your username and password."
	MsgNoToken          = "No session token found. Please log in again."
	MsgRegistered       = "Registration successful! A verification code has been sent to your email."
	MsgEmailVerified    = "Email verified successfully! You can log in now."
	MsgCodeSent         = "A verification code has been sent to your email."
	MsgCodeAccepted     = "Verification code accepted."
	MsgPasswordChanged  = "Password changed successfully!"
	MsgPasswordReset    = "Password reset successfully!"
	MsgLoginRequired    = "You need to log in to access this page."
	MsgAdminOnly        = "You do not have permission to access user management. Only ADMIN can access it."
	MsgUsersUnavailable = "Could not load the user list. You may not have ADMIN permission."
	MsgUsersEmpty       = "The user list is empty. You may not have ADMIN permission."
)

// DisplayMessage turns any error into the single line shown to the user.
// Server messages are passed through verbatim.
func DisplayMessage(err error) string {
	var apiErr *client.APIError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, client.ErrUnavailable):
		return MsgNetwork
	case errors.Is(err, services.ErrNotAuthenticated):
		return MsgLoginFailed
	case errors.Is(err, session.ErrNoSession):
		return MsgNoToken
	case errors.Is(err, ErrBusy), errors.Is(err, ErrInvalid), errors.Is(err, ErrWrongStep):
		return err.Error()
	}
	return MsgUnknown
}
