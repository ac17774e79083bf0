package flows

import (
	"context"

	"github.com/dmitrijs2005/identity-client/internal/client/router"
	"github.com/dmitrijs2005/identity-client/internal/client/services"
	"github.com/dmitrijs2005/identity-client/internal/validate"
)

// Login is the single-step sign-in screen.
type Login struct {
	form
	auth   services.AuthService
	notify Notifier
	nav    Navigator
}

func NewLogin(auth services.AuthService, notify Notifier, nav Navigator) *Login {
	return &Login{auth: auth, notify: notify, nav: nav}
}

// Submit signs in with the username and password fields and moves to the
// dashboard on success.
func (l *Login) Submit(ctx context.Context) error {
	v, err := l.begin(func(v map[string]string) validate.Fields {
		f := validate.Fields{}
		f.Set(validate.FieldUsername, validate.Username(v[validate.FieldUsername]))
		f.Set(validate.FieldPassword, validate.Password(v[validate.FieldPassword]))
		return f
	})
	if err != nil {
		return err
	}
	defer l.end()

	if err := l.auth.Login(ctx, v[validate.FieldUsername], v[validate.FieldPassword]); err != nil {
		l.notify.Error(DisplayMessage(err))
		return err
	}

	l.reset()
	l.nav.Redirect(router.RouteDashboard)
	return nil
}
