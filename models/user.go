package models

import "time"

// Role is the authorization level assigned to a user account.
type Role string

const (
	// RoleAdmin grants access to the aggregate views (user list, stats).
	RoleAdmin Role = "admin"

	// RoleUser is the default non-privileged role assigned on registration.
	RoleUser Role = "user"
)

// User represents an account entity used for authentication and authorization.
// The record is owned by the backend; the client holds a read-mostly cached
// copy that is replaced on login, registration, and profile resolution.
type User struct {
	// ID is the opaque stable identifier assigned by the backend.
	ID string `json:"id"`

	// Email is the unique login identifier, lowercase-normalized by the
	// backend.
	Email string `json:"email"`

	// FirstName and LastName are display attributes and may be shown in UI.
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// Role determines access to the admin-only operations.
	Role Role `json:"role"`

	// Department, Position and Phone are optional profile attributes.
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Phone      string `json:"phone,omitempty"`

	// IsActive marks whether the account is enabled on the backend.
	IsActive bool `json:"is_active"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
