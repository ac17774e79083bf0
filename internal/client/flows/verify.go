package flows

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/identity-client/internal/client/router"
	"github.com/dmitrijs2005/identity-client/internal/client/services"
	"github.com/dmitrijs2005/identity-client/internal/validate"
)

// VerifyEmail confirms an address with the code issued at registration.
type VerifyEmail struct {
	form
	auth   services.AuthService
	notify Notifier
	nav    Navigator
}

func NewVerifyEmail(auth services.AuthService, notify Notifier, nav Navigator) *VerifyEmail {
	return &VerifyEmail{auth: auth, notify: notify, nav: nav}
}

func (e *VerifyEmail) Submit(ctx context.Context) error {
	v, err := e.begin(func(v map[string]string) validate.Fields {
		f := validate.Fields{}
		f.Set(validate.FieldVerificationCode, validate.VerificationCode(v[validate.FieldVerificationCode]))
		return f
	})
	if err != nil {
		return err
	}
	defer e.end()

	code := strings.TrimSpace(v[validate.FieldVerificationCode])
	if _, err := e.auth.VerifyEmail(ctx, code); err != nil {
		e.notify.Error(DisplayMessage(err))
		return err
	}

	e.reset()
	e.notify.Success(MsgEmailVerified)
	e.nav.Redirect(router.RouteLogin)
	return nil
}
