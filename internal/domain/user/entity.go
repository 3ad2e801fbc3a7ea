package user

import "strings"

// User represents a user entity in the system.
// No field is validated at construction; call IsValidEmail on demand.
type User struct {
	ID    uint32 `json:"id"`    // ID is the numeric identifier for the user
	Name  string `json:"name"`  // Name is the display name, may be empty
	Email string `json:"email"` // Email is the user's email address
}

// New creates a User from arbitrary field values.
func New(id uint32, name, email string) User {
	return User{
		ID:    id,
		Name:  name,
		Email: email,
	}
}

// IsValidEmail reports whether the email contains both "@" and ".".
// It is a shape heuristic only and must not be used as a security check.
func (u User) IsValidEmail() bool {
	return strings.Contains(u.Email, "@") && strings.Contains(u.Email, ".")
}
