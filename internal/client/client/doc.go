// Package client talks to the remote identity API.
//
// # Overview
//
//  1. Client is the transport-agnostic contract: one method per endpoint
//     (login, register, verify-email, change-password, logout, refresh,
//     introspect, password-reset codes, admin user listing).
//  2. HTTPClient implements it over JSON/HTTP. Responses are wrapped as
//     {code, message, result}; only result is returned to callers.
//     A bearer token is attached to every request when one is available,
//     and every 401 response runs the unauthorized hook, whichever call
//     triggered it.
//  3. InitDatabase and RunMigrations open the local SQLite database used to
//     persist the session, applying the embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx responses are returned as
// *APIError, whose message is the server's own and which unwraps to
// ErrUnauthorized, ErrForbidden or ErrNotFound where the status matches.
// Undecodable bodies wrap ErrBadResponse.
package client
