// Package models defines the data exchanged with the identity API and the
// profile snapshot kept in the local session.
package models

// User is the profile record returned by the admin endpoints and persisted
// under the "user" key of the session store.
//
// After login the record is synthesized locally: the login response carries
// only a token, so every field except Username is blank and IsVerified is true.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dob"`
	IsVerified  bool   `json:"isVerified"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// PlaceholderUser is the profile stored after a successful login.
func PlaceholderUser(username string) *User {
	return &User{Username: username, IsVerified: true}
}

// FullName joins first and last name, or falls back to the username.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Username
	}
}
