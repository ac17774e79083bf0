package router

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Route
	}{
		{"/login", RouteLogin},
		{"login", RouteLogin},
		{" /dashboard/ ", RouteDashboard},
		{"/", RouteRoot},
		{"", RouteRoot},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Parse(tt.in), tt.in)
	}
}

func TestGuard_Resolve(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		authenticated  bool
		want           Route
		wantRedirected bool
	}{
		{"public anonymous", "/register", false, RouteRegister, false},
		{"public authenticated", "/login", true, RouteLogin, false},
		{"protected anonymous", "/change-password", false, RouteLogin, true},
		{"protected authenticated", "/user-management", true, RouteUserManagement, false},
		{"root authenticated", "/", true, RouteDashboard, true},
		{"root anonymous", "/", false, RouteLogin, true},
		{"unknown authenticated", "/nowhere", true, RouteDashboard, true},
		{"unknown anonymous", "/nowhere", false, RouteLogin, true},
		{"debug token is not a route", "/debug-token", true, RouteDashboard, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGuard(func() bool { return tt.authenticated })
			got, redirected := g.Resolve(tt.path)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRedirected, redirected)
		})
	}
}

func TestRoutes_ProtectedSet(t *testing.T) {
	var prot []Route
	for _, r := range Routes() {
		assert.True(t, r.Known())
		if r.Protected() {
			prot = append(prot, r)
		}
	}
	assert.ElementsMatch(t, []Route{
		RouteDashboard, RouteChangePassword, RouteChangePasswordWithCode, RouteUserManagement,
	}, prot)
	assert.False(t, RouteRoot.Known())
}

func TestNavigator(t *testing.T) {
	var authed atomic.Bool
	nav := NewNavigator(NewGuard(authed.Load))
	assert.Equal(t, RouteLogin, nav.Current())

	r, redirected := nav.Go("/dashboard")
	assert.Equal(t, RouteLogin, r)
	assert.True(t, redirected)

	authed.Store(true)
	r, redirected = nav.Go("/dashboard")
	assert.Equal(t, RouteDashboard, r)
	assert.False(t, redirected)

	authed.Store(false)
	assert.Equal(t, RouteLogin, nav.Recheck())

	nav.Redirect(RouteVerifyEmail)
	assert.Equal(t, RouteVerifyEmail, nav.Current())
}

func TestNavigator_ConcurrentRedirects(t *testing.T) {
	nav := NewNavigator(NewGuard(func() bool { return true }))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nav.Redirect(RouteLogin)
			_ = nav.Current()
		}()
	}
	wg.Wait()
	assert.Equal(t, RouteLogin, nav.Current())
}
