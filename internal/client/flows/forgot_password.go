package flows

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/identity-client/internal/client/services"
	"github.com/dmitrijs2005/identity-client/internal/validate"
)

type ForgotState int

const (
	ForgotUsername ForgotState = iota
	ForgotCode
	ForgotNewPassword
)

// ForgotPassword resets the password of any account in three steps:
// username, code, new password. The code step is checked locally only; the
// server validates it with the final reset call.
type ForgotPassword struct {
	form
	auth   services.AuthService
	notify Notifier

	stateMu sync.RWMutex
	state   ForgotState
}

func NewForgotPassword(auth services.AuthService, notify Notifier) *ForgotPassword {
	return &ForgotPassword{auth: auth, notify: notify}
}

func (p *ForgotPassword) State() ForgotState {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	return p.state
}

func (p *ForgotPassword) setState(s ForgotState) {
	p.stateMu.Lock()
	p.state = s
	p.stateMu.Unlock()
}

// expect fails with ErrWrongStep unless the flow is at s.
func (p *ForgotPassword) expect(s ForgotState) error {
	if p.State() != s {
		return ErrWrongStep
	}
	return nil
}

func checkUsername(f validate.Fields, v map[string]string) {
	f.Set(validate.FieldUsername, validate.Required(v[validate.FieldUsername], "username"))
}

func checkCode(f validate.Fields, v map[string]string) {
	f.Set(validate.FieldVerificationCode, validate.VerificationCode(v[validate.FieldVerificationCode]))
}

// SendCode requests a reset code for the username field.
func (p *ForgotPassword) SendCode(ctx context.Context) error {
	if err := p.expect(ForgotUsername); err != nil {
		return err
	}
	v, err := p.begin(func(v map[string]string) validate.Fields {
		f := validate.Fields{}
		checkUsername(f, v)
		return f
	})
	if err != nil {
		return err
	}
	defer p.end()

	if err := p.auth.SendPasswordResetCode(ctx, strings.TrimSpace(v[validate.FieldUsername])); err != nil {
		p.notify.Error(DisplayMessage(err))
		return err
	}

	p.notify.Success(MsgCodeSent)
	p.setState(ForgotCode)
	return nil
}

// CheckCode accepts a well-formed code and moves on. No request is made.
func (p *ForgotPassword) CheckCode() error {
	if err := p.expect(ForgotCode); err != nil {
		return err
	}
	_, err := p.begin(func(v map[string]string) validate.Fields {
		f := validate.Fields{}
		checkCode(f, v)
		return f
	})
	if err != nil {
		return err
	}
	defer p.end()

	p.notify.Success(MsgCodeAccepted)
	p.setState(ForgotNewPassword)
	return nil
}

// Submit performs the reset and starts over. Username and code are checked
// again, since either may have been edited after its own step.
func (p *ForgotPassword) Submit(ctx context.Context) error {
	if err := p.expect(ForgotNewPassword); err != nil {
		return err
	}
	v, err := p.begin(func(v map[string]string) validate.Fields {
		f := validate.Fields{}
		checkUsername(f, v)
		checkCode(f, v)
		f.Set(validate.FieldNewPassword, validate.Password(v[validate.FieldNewPassword]))
		f.Set(validate.FieldConfirmPassword, validate.Confirmation(v[validate.FieldNewPassword], v[validate.FieldConfirmPassword]))
		return f
	})
	if err != nil {
		return err
	}
	defer p.end()

	err = p.auth.ResetPasswordWithCode(ctx,
		strings.TrimSpace(v[validate.FieldUsername]),
		strings.TrimSpace(v[validate.FieldVerificationCode]),
		v[validate.FieldNewPassword])
	if err != nil {
		p.notify.Error(DisplayMessage(err))
		return err
	}

	p.reset()
	p.setState(ForgotUsername)
	p.notify.Success(MsgPasswordReset)
	return nil
}

// Back steps to the previous state; on the first step it does nothing.
func (p *ForgotPassword) Back() {
	p.clearErrors()
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	if p.state > ForgotUsername {
		p.state--
	}
}
