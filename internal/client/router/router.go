// Package router maps screen paths to routes and decides where a request for
// a path actually lands given the session state.
package router

import (
	"strings"
	"sync"
)

type Route string

const (
	RouteRoot                   Route = "/"
	RouteLogin                  Route = "/login"
	RouteRegister               Route = "/register"
	RouteVerifyEmail            Route = "/verify-email"
	RouteForgotPassword         Route = "/forgot-password"
	RouteDashboard              Route = "/dashboard"
	RouteChangePassword         Route = "/change-password"
	RouteChangePasswordWithCode Route = "/change-password-with-code"
	RouteUserManagement         Route = "/user-management"
)

// protected routes require an authenticated session.
var protected = map[Route]bool{
	RouteDashboard:              true,
	RouteChangePassword:         true,
	RouteChangePasswordWithCode: true,
	RouteUserManagement:         true,
}

var public = map[Route]bool{
	RouteLogin:          true,
	RouteRegister:       true,
	RouteVerifyEmail:    true,
	RouteForgotPassword: true,
}

func (r Route) Protected() bool {
	return protected[r]
}

// Known reports whether r names a screen.
func (r Route) Known() bool {
	return protected[r] || public[r]
}

// Routes lists every screen, public first.
func Routes() []Route {
	return []Route{
		RouteLogin, RouteRegister, RouteVerifyEmail, RouteForgotPassword,
		RouteDashboard, RouteChangePassword, RouteChangePasswordWithCode, RouteUserManagement,
	}
}

// Parse normalizes user input such as "dashboard" or "/login/" to a Route.
func Parse(path string) Route {
	p := strings.TrimSpace(path)
	p = strings.TrimRight(p, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return Route(p)
}

// Guard resolves requested paths against the authentication state.
type Guard struct {
	authenticated func() bool
}

func NewGuard(authenticated func() bool) *Guard {
	return &Guard{authenticated: authenticated}
}

// Resolve returns the route to show for path and whether it differs from the
// one requested. The root and unknown paths go to the dashboard; protected
// routes go to login when no session is active.
func (g *Guard) Resolve(path string) (Route, bool) {
	requested := Parse(path)

	target := requested
	if !target.Known() {
		target = RouteDashboard
	}
	if target.Protected() && !g.authenticated() {
		target = RouteLogin
	}
	return target, target != requested
}

// Navigator holds the current route. It is safe for concurrent use.
type Navigator struct {
	mu      sync.RWMutex
	current Route
	guard   *Guard
}

func NewNavigator(guard *Guard) *Navigator {
	n := &Navigator{guard: guard}
	n.current, _ = guard.Resolve(string(RouteRoot))
	return n
}

// Go navigates through the guard and returns where it landed.
func (n *Navigator) Go(path string) (Route, bool) {
	target, redirected := n.guard.Resolve(path)

	n.mu.Lock()
	n.current = target
	n.mu.Unlock()
	return target, redirected
}

// Redirect moves to r unconditionally.
func (n *Navigator) Redirect(r Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = r
}

func (n *Navigator) Current() Route {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// Recheck re-applies the guard to the current route, e.g. after the session
// ended.
func (n *Navigator) Recheck() Route {
	r, _ := n.Go(string(n.Current()))
	return r
}
