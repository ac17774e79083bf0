package flows

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/identity-client/internal/client/services"
	"github.com/dmitrijs2005/identity-client/internal/client/session"
	"github.com/dmitrijs2005/identity-client/internal/validate"
)

type ChangeState int

const (
	ChangeRequestCode ChangeState = iota
	ChangeEnterCode
)

// ChangePassword lets a signed-in user change their password with a code
// mailed to them. The account is the subject of the session token.
type ChangePassword struct {
	form
	auth    services.AuthService
	session Session
	notify  Notifier

	stateMu sync.RWMutex
	state   ChangeState
}

func NewChangePassword(auth services.AuthService, s Session, notify Notifier) *ChangePassword {
	return &ChangePassword{auth: auth, session: s, notify: notify}
}

func (c *ChangePassword) State() ChangeState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

func (c *ChangePassword) setState(s ChangeState) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()
}

// subject returns the username of the session, or reports that there is none.
func (c *ChangePassword) subject() (string, error) {
	if c.session.Token() == "" {
		return "", session.ErrNoSession
	}
	sub := c.session.Claims().Subject
	if sub == "" {
		return "", session.ErrNoSession
	}
	return sub, nil
}

// expect fails with ErrWrongStep unless the flow is at s.
func (c *ChangePassword) expect(s ChangeState) error {
	if c.State() != s {
		return ErrWrongStep
	}
	return nil
}

// SendCode asks the server to mail a code to the session's user.
func (c *ChangePassword) SendCode(ctx context.Context) error {
	if err := c.expect(ChangeRequestCode); err != nil {
		return err
	}
	if _, err := c.begin(nil); err != nil {
		return err
	}
	defer c.end()

	username, err := c.subject()
	if err == nil {
		err = c.auth.SendPasswordResetCode(ctx, username)
	}
	if err != nil {
		c.notify.Error(DisplayMessage(err))
		return err
	}

	c.notify.Success(MsgCodeSent)
	c.setState(ChangeEnterCode)
	return nil
}

// Submit resets the password with the mailed code and starts over.
func (c *ChangePassword) Submit(ctx context.Context) error {
	if err := c.expect(ChangeEnterCode); err != nil {
		return err
	}
	v, err := c.begin(func(v map[string]string) validate.Fields {
		f := validate.Fields{}
		f.Set(validate.FieldVerificationCode, validate.VerificationCode(v[validate.FieldVerificationCode]))
		f.Set(validate.FieldNewPassword, validate.Password(v[validate.FieldNewPassword]))
		f.Set(validate.FieldConfirmPassword, validate.Confirmation(v[validate.FieldNewPassword], v[validate.FieldConfirmPassword]))
		return f
	})
	if err != nil {
		return err
	}
	defer c.end()

	username, err := c.subject()
	if err == nil {
		err = c.auth.ResetPasswordWithCode(ctx, username,
			strings.TrimSpace(v[validate.FieldVerificationCode]), v[validate.FieldNewPassword])
	}
	if err != nil {
		c.notify.Error(DisplayMessage(err))
		return err
	}

	c.reset()
	c.setState(ChangeRequestCode)
	c.notify.Success(MsgPasswordChanged)
	return nil
}

// SubmitWithOldPassword changes the password by proving the current one,
// without a mailed code.
func (c *ChangePassword) SubmitWithOldPassword(ctx context.Context) error {
	v, err := c.begin(func(v map[string]string) validate.Fields {
		f := validate.Fields{}
		f.Set(validate.FieldOldPassword, validate.Required(v[validate.FieldOldPassword], "current password"))
		f.Set(validate.FieldNewPassword, validate.Password(v[validate.FieldNewPassword]))
		f.Set(validate.FieldConfirmPassword, validate.Confirmation(v[validate.FieldNewPassword], v[validate.FieldConfirmPassword]))
		return f
	})
	if err != nil {
		return err
	}
	defer c.end()

	res, err := c.auth.ChangePassword(ctx, v[validate.FieldOldPassword], v[validate.FieldNewPassword])
	if err != nil {
		c.notify.Error(DisplayMessage(err))
		return err
	}

	c.reset()
	msg := res.Message
	if msg == "" {
		msg = MsgPasswordChanged
	}
	c.notify.Success(msg)
	return nil
}

// Back returns to the first step.
func (c *ChangePassword) Back() {
	c.clearErrors()
	c.setState(ChangeRequestCode)
}
