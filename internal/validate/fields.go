package validate

import (
	"maps"
	"slices"
	"strings"
)

// Form field names shared by the flow controllers.
const (
	FieldUsername         = "username"
	FieldPassword         = "password"
	FieldConfirmPassword  = "confirmPassword"
	FieldEmail            = "email"
	FieldFirstName        = "firstName"
	FieldLastName         = "lastName"
	FieldDOB              = "dob"
	FieldVerificationCode = "verificationCode"
	FieldNewPassword      = "newPassword"
	FieldOldPassword      = "oldPassword"
)

// Fields maps a form field name to its current error message.
// A field with no entry, or an empty one, is valid.
type Fields map[string]string

// Set records msg for field; an empty msg is ignored so validator results
// can be passed straight through.
func (f Fields) Set(field, msg string) {
	if msg == "" {
		return
	}
	f[field] = msg
}

// Clear drops the error of one field and leaves the others untouched.
func (f Fields) Clear(field string) {
	delete(f, field)
}

// Get returns the error for field or "".
func (f Fields) Get(field string) string {
	return f[field]
}

// OK reports whether no field carries an error.
func (f Fields) OK() bool {
	for _, msg := range f {
		if msg != "" {
			return false
		}
	}
	return true
}

// Error renders all messages sorted by field name, so Fields can be
// returned as an error value.
func (f Fields) Error() string {
	keys := slices.Sorted(maps.Keys(f))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if f[k] != "" {
			parts = append(parts, k+": "+f[k])
		}
	}
	return strings.Join(parts, "; ")
}
