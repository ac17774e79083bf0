package models

// Envelope wraps every identity API response body.
type Envelope[T any] struct {
	Code    int     `json:"code"`
	Message *string `json:"message"`
	Result  T       `json:"result"`
}

// Msg returns the envelope message or "" when it is null.
func (e Envelope[T]) Msg() string {
	if e.Message == nil {
		return ""
	}
	return *e.Message
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResult is returned by login and refresh.
type TokenResult struct {
	Token         string `json:"token"`
	Authenticated bool   `json:"authenticated"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	DOB       string `json:"dob"`
}

type RegisterResult struct {
	Message          string `json:"message"`
	VerificationCode string `json:"verificationCode"`
	Success          bool   `json:"success"`
}

type VerifyEmailRequest struct {
	VerificationCode string `json:"verificationCode"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// StatusResult is returned by verify-email and change-password.
type StatusResult struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// TokenRequest is the body of logout, refresh and introspect.
type TokenRequest struct {
	Token string `json:"token"`
}

type IntrospectResult struct {
	Valid bool `json:"valid"`
}

type PasswordResetCodeRequest struct {
	Username string `json:"username"`
}

type ResetPasswordRequest struct {
	Username         string `json:"username"`
	VerificationCode string `json:"verificationCode"`
	NewPassword      string `json:"newPassword"`
}
