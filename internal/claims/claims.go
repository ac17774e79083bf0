// Package claims reads the payload of a bearer token without verifying it.
//
// The result is a UI hint only: it decides whether admin entries are shown
// and which username a password reset is addressed to. The identity service
// re-checks authorization on every call, and nothing in this package may be
// used to grant access.
package claims

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the scope entry carried by administrator tokens.
const RoleAdmin = "ROLE_ADMIN"

// Claims is the subset of the token payload the client looks at.
type Claims struct {
	Subject   string
	Scope     string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// OK is false when the token could not be decoded at all.
	OK bool

	raw jwt.MapClaims
}

// Inspect decodes the middle segment of token. The header and signature
// are not looked at, so an unknown or missing alg does not matter. Malformed
// payloads yield the zero Claims; no error is ever surfaced.
func Inspect(token string) Claims {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return Claims{}
	}
	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return Claims{}
	}
	mc := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &mc); err != nil || mc == nil {
		return Claims{}
	}

	c := Claims{OK: true, raw: mc}
	c.Subject, _ = mc.GetSubject()
	c.Issuer, _ = mc.GetIssuer()
	if s, ok := mc["scope"].(string); ok {
		c.Scope = s
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	return c
}

// Scopes splits the space-separated scope claim.
func (c Claims) Scopes() []string {
	return strings.Fields(c.Scope)
}

// HasRole reports whether role is one of the scope entries.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Scopes(), role)
}

// IsAdmin reports whether the token advertises RoleAdmin.
func (c Claims) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}

// Expired reports whether the advertised expiry is before now.
// Tokens without an exp claim never expire by this check.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Pretty renders the whole decoded payload as indented JSON, or a short
// marker when the token is not decodable.
func (c Claims) Pretty() string {
	if !c.OK {
		return `{"error": "invalid token"}`
	}
	b, err := json.MarshalIndent(c.raw, "", "  ")
	if err != nil {
		return `{"error": "invalid token"}`
	}
	return string(b)
}
