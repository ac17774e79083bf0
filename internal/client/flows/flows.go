// Package flows implements the screen controllers of the client as small
// state machines.
//
// A controller owns its form values, the per-field validation errors, and a
// submitting flag. Submissions are rejected with ErrBusy while another one is
// in flight, and with ErrInvalid (before any network call) when a field fails
// validation. Outcomes are reported through a Notifier and page changes
// through a Navigator, so controllers stay independent of the terminal.
package flows

import (
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/dmitrijs2005/identity-client/internal/claims"
	"github.com/dmitrijs2005/identity-client/internal/client/router"
	"github.com/dmitrijs2005/identity-client/internal/validate"
)

var (
	ErrBusy    = errors.New("a request is already in progress")
	ErrInvalid = errors.New("please correct the highlighted fields")

	// ErrWrongStep is returned by a step method called while its controller
	// is at another step.
	ErrWrongStep = errors.New("this step is not available now")
)

// Notifier shows transient success and error notices.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Navigator changes the current screen.
type Navigator interface {
	Redirect(r router.Route)
	Current() router.Route
}

// Session is the read side of the session store used by the controllers.
type Session interface {
	Token() string
	Claims() claims.Claims
}

// Scheduler runs fn once after d, like time.AfterFunc.
type Scheduler func(d time.Duration, fn func())

// AfterFunc is the production Scheduler.
func AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// form is the shared state of every controller. The zero value is ready.
type form struct {
	mu         sync.Mutex
	values     map[string]string
	errs       validate.Fields
	submitting bool
}

// SetField stores value and clears the error of that field only.
func (f *form) SetField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[name] = value
	f.errs.Clear(name)
}

func (f *form) Field(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

// Errors returns a copy of the current field errors.
func (f *form) Errors() validate.Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.errs)
}

func (f *form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// begin marks the form as submitting after check passes. check runs under
// the lock and receives a snapshot of the values.
func (f *form) begin(check func(v map[string]string) validate.Fields) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitting {
		return nil, ErrBusy
	}

	values := maps.Clone(f.values)
	if check != nil {
		errs := check(values)
		if !errs.OK() {
			f.errs = errs
			return nil, ErrInvalid
		}
	}
	f.errs = validate.Fields{}
	f.submitting = true
	return values, nil
}

func (f *form) end() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
}

// reset drops all values and errors.
func (f *form) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = map[string]string{}
	f.errs = validate.Fields{}
}

func (f *form) clearErrors() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = validate.Fields{}
}
