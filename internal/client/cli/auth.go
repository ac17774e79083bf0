package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dmitrijs2005/identity-client/internal/client/flows"
	"github.com/dmitrijs2005/identity-client/internal/client/router"
	"github.com/dmitrijs2005/identity-client/internal/common"
	"github.com/dmitrijs2005/identity-client/internal/validate"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

const backCommand = "back"

// fieldSetter is implemented by every flow controller.
type fieldSetter interface {
	SetField(name, value string)
}

// enter opens r through the route guard. It reports false, after telling the
// user, when the guard sent them elsewhere.
func (a *App) enter(r router.Route) bool {
	got, _ := a.nav.Go(string(r))
	if got != r {
		printlnFn(fmt.Sprintf("Please log in to open %s.", r))
		return false
	}
	return true
}

// ask reads one line into field.
func (a *App) ask(f fieldSetter, field, prompt string) (string, error) {
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	f.SetField(field, v)
	return v, nil
}

// askSecret reads a password into field and wipes the input buffer.
func (a *App) askSecret(f fieldSetter, field, prompt string) error {
	pw, err := getPassword(a.out, prompt)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	f.SetField(field, string(pw))
	return nil
}

// reportInvalid prints field errors for ErrInvalid and the reason for
// ErrBusy or ErrWrongStep. Other errors were already shown by the flow's
// notifier.
func reportInvalid(err error, errs validate.Fields) {
	switch {
	case errors.Is(err, flows.ErrInvalid):
		for _, k := range slices.Sorted(maps.Keys(errs)) {
			printlnFn(fmt.Sprintf("  %s: %s", k, errs[k]))
		}
	case errors.Is(err, flows.ErrBusy), errors.Is(err, flows.ErrWrongStep):
		printlnFn(err.Error())
	}
}

// Login prompts for credentials and signs in. On success the dashboard is
// shown.
func (a *App) Login(ctx context.Context) error {
	if !a.enter(router.RouteLogin) {
		return nil
	}

	if _, err := a.ask(a.login, validate.FieldUsername, "Enter username"); err != nil {
		return err
	}
	if err := a.askSecret(a.login, validate.FieldPassword, "Enter password"); err != nil {
		return err
	}

	if err := a.login.Submit(ctx); err != nil {
		reportInvalid(err, a.login.Errors())
		return err
	}

	a.render(ctx, a.nav.Current())
	return nil
}

// Register prompts for the full profile and creates an account. The
// verification code returned by the server is printed.
func (a *App) Register(ctx context.Context) error {
	if !a.enter(router.RouteRegister) {
		return nil
	}
	if a.register.State() == flows.RegisterDone {
		a.register = flows.NewRegister(a.authService, a.notify)
	}

	prompts := []struct {
		field  string
		prompt string
		secret bool
	}{
		{validate.FieldUsername, "Enter username", false},
		{validate.FieldPassword, "Enter password", true},
		{validate.FieldConfirmPassword, "Confirm password", true},
		{validate.FieldEmail, "Enter email", false},
		{validate.FieldFirstName, "Enter first name", false},
		{validate.FieldLastName, "Enter last name", false},
		{validate.FieldDOB, "Enter date of birth (YYYY-MM-DD)", false},
	}
	for _, p := range prompts {
		var err error
		if p.secret {
			err = a.askSecret(a.register, p.field, p.prompt)
		} else {
			_, err = a.ask(a.register, p.field, p.prompt)
		}
		if err != nil {
			return err
		}
	}

	if err := a.register.Submit(ctx); err != nil {
		reportInvalid(err, a.register.Errors())
		return err
	}

	printlnFn("Your verification code: " + a.register.Code())
	printlnFn("Use 'verify' to confirm your email address.")
	return nil
}

// VerifyEmail prompts for the code issued at registration.
func (a *App) VerifyEmail(ctx context.Context) error {
	if !a.enter(router.RouteVerifyEmail) {
		return nil
	}

	if _, err := a.ask(a.verify, validate.FieldVerificationCode, "Enter verification code"); err != nil {
		return err
	}
	if err := a.verify.Submit(ctx); err != nil {
		reportInvalid(err, a.verify.Errors())
		return err
	}
	return nil
}

// ForgotPassword runs the public three-step reset.
func (a *App) ForgotPassword(ctx context.Context) error {
	if !a.enter(router.RouteForgotPassword) {
		return nil
	}
	return a.runForgot(ctx)
}

// ChangePasswordWithCode runs the same three-step reset for a signed-in user.
func (a *App) ChangePasswordWithCode(ctx context.Context) error {
	if !a.enter(router.RouteChangePasswordWithCode) {
		return nil
	}
	return a.runForgot(ctx)
}

// runForgot drives the reset flow from its current step until it completes
// or a step fails. A failed step is resumed by the next call.
func (a *App) runForgot(ctx context.Context) error {
	f := a.forgotPassword
	for {
		switch f.State() {
		case flows.ForgotUsername:
			if _, err := a.ask(f, validate.FieldUsername, "Enter username"); err != nil {
				return err
			}
			if err := f.SendCode(ctx); err != nil {
				reportInvalid(err, f.Errors())
				return err
			}

		case flows.ForgotCode:
			code, err := a.ask(f, validate.FieldVerificationCode, "Enter verification code (or 'back')")
			if err != nil {
				return err
			}
			if strings.EqualFold(code, backCommand) {
				f.Back()
				continue
			}
			if err := f.CheckCode(); err != nil {
				reportInvalid(err, f.Errors())
				return err
			}

		case flows.ForgotNewPassword:
			if err := a.askSecret(f, validate.FieldNewPassword, "Enter new password"); err != nil {
				return err
			}
			if err := a.askSecret(f, validate.FieldConfirmPassword, "Confirm new password"); err != nil {
				return err
			}
			if err := f.Submit(ctx); err != nil {
				reportInvalid(err, f.Errors())
				return err
			}
			return nil
		}
	}
}

// ChangePassword mails a code to the signed-in user and resets the password
// with it.
func (a *App) ChangePassword(ctx context.Context) error {
	if !a.enter(router.RouteChangePassword) {
		return nil
	}
	c := a.changePassword

	if c.State() == flows.ChangeRequestCode {
		if err := c.SendCode(ctx); err != nil {
			reportInvalid(err, c.Errors())
			return err
		}
	}

	code, err := a.ask(c, validate.FieldVerificationCode, "Enter verification code (or 'back')")
	if err != nil {
		return err
	}
	if strings.EqualFold(code, backCommand) {
		c.Back()
		return nil
	}
	if err := a.askSecret(c, validate.FieldNewPassword, "Enter new password"); err != nil {
		return err
	}
	if err := a.askSecret(c, validate.FieldConfirmPassword, "Confirm new password"); err != nil {
		return err
	}

	if err := c.Submit(ctx); err != nil {
		reportInvalid(err, c.Errors())
		return err
	}
	return nil
}

// ChangePasswordWithOld changes the password by proving the current one.
func (a *App) ChangePasswordWithOld(ctx context.Context) error {
	if !a.enter(router.RouteChangePassword) {
		return nil
	}
	c := a.changePassword

	if err := a.askSecret(c, validate.FieldOldPassword, "Enter current password"); err != nil {
		return err
	}
	if err := a.askSecret(c, validate.FieldNewPassword, "Enter new password"); err != nil {
		return err
	}
	if err := a.askSecret(c, validate.FieldConfirmPassword, "Confirm new password"); err != nil {
		return err
	}

	if err := c.SubmitWithOldPassword(ctx); err != nil {
		reportInvalid(err, c.Errors())
		return err
	}
	return nil
}

// Logout ends the session locally; the server is told in the background.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("You are not logged in.")
		return nil
	}

	err := a.authService.Logout(ctx)
	a.nav.Redirect(router.RouteLogin)
	if err != nil {
		a.log.Warn(ctx, "local logout incomplete", "error", err)
	}
	printlnFn("Logged out.")
	return nil
}
