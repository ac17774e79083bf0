package flows

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/identity-client/internal/client/models"
	"github.com/dmitrijs2005/identity-client/internal/client/services"
	"github.com/dmitrijs2005/identity-client/internal/validate"
)

type RegisterState int

const (
	RegisterEntry RegisterState = iota
	// RegisterDone shows the verification code; it has no way forward.
	RegisterDone
)

// Register collects the full profile and creates the account.
type Register struct {
	form
	auth   services.AuthService
	notify Notifier

	stateMu sync.RWMutex
	state   RegisterState
	code    string
}

func NewRegister(auth services.AuthService, notify Notifier) *Register {
	return &Register{auth: auth, notify: notify}
}

func draftOf(v map[string]string) validate.Draft {
	return validate.Draft{
		Username:        v[validate.FieldUsername],
		Password:        v[validate.FieldPassword],
		ConfirmPassword: v[validate.FieldConfirmPassword],
		Email:           v[validate.FieldEmail],
		FirstName:       v[validate.FieldFirstName],
		LastName:        v[validate.FieldLastName],
		DOB:             v[validate.FieldDOB],
	}
}

func (r *Register) Submit(ctx context.Context) error {
	v, err := r.begin(func(v map[string]string) validate.Fields {
		return draftOf(v).Validate()
	})
	if err != nil {
		return err
	}
	defer r.end()

	d := draftOf(v)
	res, err := r.auth.Register(ctx, models.RegisterRequest{
		Username:  d.Username,
		Password:  d.Password,
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		DOB:       d.DOB,
	})
	if err != nil {
		r.notify.Error(DisplayMessage(err))
		return err
	}

	r.reset()
	r.stateMu.Lock()
	r.state = RegisterDone
	r.code = res.VerificationCode
	r.stateMu.Unlock()

	r.notify.Success(MsgRegistered)
	return nil
}

func (r *Register) State() RegisterState {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	return r.state
}

// Code is the verification code returned by the server, once registered.
func (r *Register) Code() string {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	return r.code
}
