package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	VerifyEmail(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	ChangePasswordWithCode(ctx context.Context) error
	ChangePasswordWithOld(ctx context.Context) error
	Users(ctx context.Context) error
	User(ctx context.Context, id string) error
	WhoAmI(ctx context.Context) error
	Token(ctx context.Context) error
	Introspect(ctx context.Context) error
	Refresh(ctx context.Context) error
	Go(ctx context.Context, path string) error
	Logout(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: login, register, verify, forgot, go <path>, exit"
	helpLoggedIn  = "Available commands: whoami, change-password, change-password-with-code, passwd, " +
		"users, user <id>, token, introspect, refresh, verify, go <path>, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the identity CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn), e.g.
// "idc (alice2024 /dashboard)>", and accepts commands:
//
//	Not logged in:
//	  - help                       : show available commands
//	  - login                      : sign in
//	  - register                   : create an account
//	  - verify                     : verify an email address with a code
//	  - forgot                     : reset a forgotten password
//	  - go <path>                  : open a screen by path
//	  - exit | quit                : leave the program
//
//	Logged in:
//	  - whoami                     : show the dashboard
//	  - change-password            : change the password with a mailed code
//	  - change-password-with-code  : reset the password in three steps
//	  - passwd                     : change the password with the current one
//	  - users                      : list users (administrators)
//	  - user <id>                  : show one user (administrators)
//	  - token                      : show the decoded token payload
//	  - introspect                 : ask the server whether the token is valid
//	  - refresh                    : exchange the token for a new one
//	  - logout                     : sign out
//
// Any errors returned by command handlers are ignored here; handlers should
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("idc %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "login":
			_ = a.Login(ctx)

		case "register":
			_ = a.Register(ctx)

		case "verify":
			_ = a.VerifyEmail(ctx)

		case "forgot":
			_ = a.ForgotPassword(ctx)

		case "change-password":
			_ = a.ChangePassword(ctx)

		case "change-password-with-code":
			_ = a.ChangePasswordWithCode(ctx)

		case "passwd":
			_ = a.ChangePasswordWithOld(ctx)

		case "users":
			_ = a.Users(ctx)

		case "user":
			if len(args) == 0 {
				printlnFn("Usage: user <id>")
				continue
			}
			_ = a.User(ctx, args[0])

		case "whoami", "dashboard":
			_ = a.WhoAmI(ctx)

		case "token":
			_ = a.Token(ctx)

		case "introspect":
			_ = a.Introspect(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "go":
			if len(args) == 0 {
				printlnFn("Usage: go <path>")
				continue
			}
			_ = a.Go(ctx, args[0])

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
