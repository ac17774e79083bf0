// Package common contains constants and small helpers shared by the identity
// client packages.
package common

const (
	// AuthorizationHeader carries the bearer token on outbound requests.
	AuthorizationHeader = "Authorization"

	// BearerPrefix precedes the token in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// RequestIDHeader correlates a client request with server logs.
	RequestIDHeader = "X-Request-ID"
)
