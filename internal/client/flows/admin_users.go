package flows

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/identity-client/internal/client/client"
	"github.com/dmitrijs2005/identity-client/internal/client/models"
	"github.com/dmitrijs2005/identity-client/internal/client/router"
	"github.com/dmitrijs2005/identity-client/internal/client/services"
	"github.com/dmitrijs2005/identity-client/internal/client/session"
)

// RedirectDelay is how long a refusal stays on screen before the user is
// sent back to the dashboard.
const RedirectDelay = 3 * time.Second

type AdminState int

const (
	AdminLoading AdminState = iota
	AdminReady
	AdminDenied
)

// AdminUsers is the user management screen. The role check on the token is
// advisory: the server decides, and a refused or empty listing is treated
// like a missing role.
type AdminUsers struct {
	admin    services.AdminService
	session  Session
	notify   Notifier
	nav      Navigator
	schedule Scheduler

	mu      sync.RWMutex
	state   AdminState
	users   []models.User
	message string
}

func NewAdminUsers(admin services.AdminService, s Session, notify Notifier, nav Navigator, schedule Scheduler) *AdminUsers {
	if schedule == nil {
		schedule = AfterFunc
	}
	return &AdminUsers{admin: admin, session: s, notify: notify, nav: nav, schedule: schedule}
}

func (a *AdminUsers) deny(msg string, redirect bool) {
	a.mu.Lock()
	a.state = AdminDenied
	a.users = nil
	a.message = msg
	a.mu.Unlock()

	if redirect {
		a.schedule(RedirectDelay, func() {
			// only if the user is still looking at the refusal
			if a.nav.Current() == router.RouteUserManagement {
				a.nav.Redirect(router.RouteDashboard)
			}
		})
	}
}

// Load checks the session and fetches the user list.
func (a *AdminUsers) Load(ctx context.Context) error {
	a.mu.Lock()
	a.state = AdminLoading
	a.message = ""
	a.mu.Unlock()

	if a.session.Token() == "" {
		a.deny(MsgLoginRequired, false)
		return session.ErrNoSession
	}
	if !a.session.Claims().IsAdmin() {
		a.deny(MsgAdminOnly, true)
		return client.ErrForbidden
	}

	users, err := a.admin.ListUsers(ctx)
	if err != nil {
		a.deny(MsgUsersUnavailable, true)
		return err
	}
	if len(users) == 0 {
		a.deny(MsgUsersEmpty, true)
		return client.ErrForbidden
	}

	a.mu.Lock()
	a.state = AdminReady
	a.users = users
	a.mu.Unlock()
	return nil
}

// Detail fetches one user record.
func (a *AdminUsers) Detail(ctx context.Context, id string) (models.User, error) {
	u, err := a.admin.GetUser(ctx, id)
	if err != nil {
		a.notify.Error(DisplayMessage(err))
		return models.User{}, err
	}
	return u, nil
}

func (a *AdminUsers) State() AdminState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *AdminUsers) Users() []models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]models.User(nil), a.users...)
}

// Message is the screen-level refusal text, if any.
func (a *AdminUsers) Message() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.message
}
