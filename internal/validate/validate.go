package validate

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	usernameMinLen = 8
	usernameMaxLen = 24
	nameMinLen     = 2
	minAge         = 13
	maxAge         = 120

	// DateLayout is the wire and input format of a date of birth.
	DateLayout = "2006-01-02"
)

var (
	usernameCharset = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	passwordCharset = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	hasLetter       = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit        = regexp.MustCompile(`[0-9]`)
	emailShape      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	codeShape       = regexp.MustCompile(`^\d{6}$`)
)

// disposableDomains are rejected regardless of the address shape.
var disposableDomains = []string{
	"10minutemail.com",
	"tempmail.org",
	"guerrillamail.com",
	"mailinator.com",
	"temp-mail.org",
	"throwaway.email",
	"getnada.com",
	"maildrop.cc",
	"sharklasers.com",
}

// Username accepts 8-24 letters, digits and underscores with at least one
// letter and one digit.
func Username(s string) string {
	switch {
	case strings.TrimSpace(s) == "":
		return "username must not be empty"
	case utf8.RuneCountInString(s) < usernameMinLen || utf8.RuneCountInString(s) > usernameMaxLen:
		return fmt.Sprintf("username must be %d-%d characters long", usernameMinLen, usernameMaxLen)
	case !usernameCharset.MatchString(s):
		return "username may contain only letters, digits and underscores"
	case !hasLetter.MatchString(s):
		return "username must contain at least one letter"
	case !hasDigit.MatchString(s):
		return "username must contain at least one digit"
	}
	return ""
}

// Password accepts any non-empty string of ASCII letters and digits.
func Password(s string) string {
	switch {
	case strings.TrimSpace(s) == "":
		return "password must not be empty"
	case !passwordCharset.MatchString(s):
		return "password may contain only letters and digits"
	}
	return ""
}

// Email accepts a plausible address whose domain is not a known disposable
// mailbox provider.
func Email(s string) string {
	switch {
	case strings.TrimSpace(s) == "":
		return "email must not be empty"
	case !emailShape.MatchString(s):
		return "email is not valid"
	}

	domain := strings.ToLower(s[strings.LastIndex(s, "@")+1:])
	if slices.Contains(disposableDomains, domain) {
		return "disposable email addresses are not allowed"
	}
	return ""
}

// Name checks a personal name field; label names the field in the message.
func Name(s, label string) string {
	trimmed := strings.TrimSpace(s)
	switch {
	case trimmed == "":
		return label + " must not be empty"
	case utf8.RuneCountInString(trimmed) < nameMinLen:
		return fmt.Sprintf("%s must be at least %d characters long", label, nameMinLen)
	}
	return ""
}

// DateOfBirth checks s against the current date. See DateOfBirthAt.
func DateOfBirth(s string) string {
	return DateOfBirthAt(s, time.Now())
}

// DateOfBirthAt checks a YYYY-MM-DD date of birth relative to now.
//
// Age is now.Year() minus the birth year; month and day are ignored, so a
// person born late in the year counts as one year older until their birthday.
func DateOfBirthAt(s string, now time.Time) string {
	if strings.TrimSpace(s) == "" {
		return "date of birth must not be empty"
	}

	birth, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "date of birth is not valid"
	}

	age := now.Year() - birth.Year()
	switch {
	case age < minAge:
		return fmt.Sprintf("you must be at least %d years old to register", minAge)
	case age > maxAge:
		return "date of birth is not valid"
	}
	return ""
}

// VerificationCode accepts exactly six decimal digits, ignoring surrounding
// whitespace.
func VerificationCode(s string) string {
	trimmed := strings.TrimSpace(s)
	switch {
	case trimmed == "":
		return "verification code must not be empty"
	case !codeShape.MatchString(trimmed):
		return "verification code must be 6 digits"
	}
	return ""
}

// Confirmation reports a mismatch between a password and its confirmation.
func Confirmation(password, confirm string) string {
	if password != confirm {
		return "passwords do not match"
	}
	return ""
}

// Required only checks that s is not blank.
func Required(s, label string) string {
	if strings.TrimSpace(s) == "" {
		return label + " must not be empty"
	}
	return ""
}
