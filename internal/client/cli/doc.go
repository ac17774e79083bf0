// Package cli provides the interactive identity command-line client.
//
// It wires configuration, session storage, the identity API client, the
// route guard and the screen controllers into a REPL. Every screen of the
// client is a route; commands that open a protected screen go through the
// guard and land on the login screen when no session is active.
//
// Key features:
//   - Login / Register / Verify email / Logout
//   - Password change with a mailed code, or with the current password
//   - Forgotten password reset
//   - User management for administrators
//   - Token inspection, refresh and introspection
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
