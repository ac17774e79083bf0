package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/identity-client/internal/client/flows"
	"github.com/dmitrijs2005/identity-client/internal/client/models"
	"github.com/dmitrijs2005/identity-client/internal/client/router"
)

// render prints what the screen at r shows without asking for input.
func (a *App) render(ctx context.Context, r router.Route) {
	switch r {
	case router.RouteDashboard:
		a.printDashboard()
	case router.RouteLogin:
		printlnFn("Type 'login' to sign in, 'register' to create an account or 'forgot' to reset your password.")
	case router.RouteRegister:
		printlnFn("Type 'register' to create an account.")
	case router.RouteVerifyEmail:
		printlnFn("Type 'verify' to enter your verification code.")
	}
}

// Go opens the screen at path. The guard may send the user elsewhere;
// the screen actually opened is then run.
func (a *App) Go(ctx context.Context, path string) error {
	target, redirected := a.nav.Go(path)
	if redirected {
		printlnFn(fmt.Sprintf("Redirected to %s.", target))
	}

	switch target {
	case router.RouteLogin:
		return a.Login(ctx)
	case router.RouteRegister:
		return a.Register(ctx)
	case router.RouteVerifyEmail:
		return a.VerifyEmail(ctx)
	case router.RouteForgotPassword, router.RouteChangePasswordWithCode:
		return a.runForgot(ctx)
	case router.RouteChangePassword:
		return a.ChangePassword(ctx)
	case router.RouteUserManagement:
		return a.Users(ctx)
	default:
		a.render(ctx, target)
		return nil
	}
}

// WhoAmI shows the dashboard.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.enter(router.RouteDashboard) {
		return nil
	}
	a.printDashboard()
	return nil
}

func (a *App) printDashboard() {
	u, ok := a.session.User()
	if !ok {
		return
	}

	verified := "no"
	if u.IsVerified {
		verified = "yes"
	}
	printlnFn("Welcome, " + u.FullName())
	printlnFn("  Username:       " + u.Username)
	printlnFn("  Email:          " + orDash(u.Email))
	printlnFn("  Date of birth:  " + orDash(u.DateOfBirth))
	printlnFn("  Verified:       " + verified)

	printlnFn("Actions:")
	printlnFn("  change-password            change your password")
	printlnFn("  change-password-with-code  reset your password with a code")
	if a.session.Claims().IsAdmin() {
		printlnFn("  users                      manage users")
	}
	printlnFn("  logout                     sign out")
}

// Users lists all accounts. Non-administrators see a refusal and are sent
// back to the dashboard shortly after.
func (a *App) Users(ctx context.Context) error {
	if !a.enter(router.RouteUserManagement) {
		return nil
	}

	if err := a.adminUsers.Load(ctx); err != nil {
		msg := a.adminUsers.Message()
		printlnFn(msg)
		// a 401 has already moved the user to the login screen
		if msg != flows.MsgLoginRequired && a.nav.Current() == router.RouteUserManagement {
			printlnFn(fmt.Sprintf("Returning to the dashboard in %d seconds...", int(flows.RedirectDelay/time.Second)))
		}
		return err
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tNAME\tVERIFIED")
	for _, u := range a.adminUsers.Users() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", u.ID, u.Username, orDash(u.Email), u.FullName(), u.IsVerified)
	}
	_ = tw.Flush()
	printlnFn(strings.TrimRight(sb.String(), "\n"))
	return nil
}

// User shows one account by id.
func (a *App) User(ctx context.Context, id string) error {
	if !a.enter(router.RouteUserManagement) {
		return nil
	}

	u, err := a.adminUsers.Detail(ctx, id)
	if err != nil {
		return err
	}
	printUser(u)
	return nil
}

func printUser(u models.User) {
	printlnFn("ID:             " + u.ID)
	printlnFn("Username:       " + u.Username)
	printlnFn("Name:           " + u.FullName())
	printlnFn("Email:          " + orDash(u.Email))
	printlnFn("Date of birth:  " + orDash(u.DateOfBirth))
	printlnFn(fmt.Sprintf("Verified:       %t", u.IsVerified))
	printlnFn("Created:        " + orDash(u.CreatedAt))
	printlnFn("Updated:        " + orDash(u.UpdatedAt))
}

// Token prints the decoded payload of the current token.
func (a *App) Token(ctx context.Context) error {
	if !a.enter(router.RouteDashboard) {
		return nil
	}

	c := a.session.Claims()
	printlnFn("Subject:  " + orDash(c.Subject))
	printlnFn("Scope:    " + orDash(c.Scope))
	if !c.ExpiresAt.IsZero() {
		exp := c.ExpiresAt.Format(time.RFC3339)
		if c.Expired(time.Now()) {
			exp += " (expired)"
		}
		printlnFn("Expires:  " + exp)
	}
	printlnFn(c.Pretty())
	return nil
}

// Introspect asks the server whether the current token is still valid.
func (a *App) Introspect(ctx context.Context) error {
	if !a.enter(router.RouteDashboard) {
		return nil
	}

	valid, err := a.authService.Introspect(ctx)
	if err != nil {
		a.notify.Error(flows.DisplayMessage(err))
		return err
	}
	if valid {
		printlnFn("Token is valid.")
	} else {
		printlnFn("Token is not valid.")
	}
	return nil
}

// Refresh exchanges the current token for a new one.
func (a *App) Refresh(ctx context.Context) error {
	if !a.enter(router.RouteDashboard) {
		return nil
	}

	if err := a.authService.Refresh(ctx); err != nil {
		a.notify.Error(flows.DisplayMessage(err))
		return err
	}
	printlnFn("Token refreshed.")
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
