// Package validate holds the field-level rules applied to every form before
// anything is sent to the identity API.
//
// Each validator is total: it returns "" for an accepted value or a single
// human-readable reason for the first rule that fails. Validators never
// panic and never touch the network.
//
// The rules are business rules of the identity service, not strength
// policies. Passwords in particular are only checked for an alphanumeric
// charset.
package validate
