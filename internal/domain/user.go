// Package domain contains the core domain types shared across modules.
package domain

import "time"

// Role represents a user's authorization level.
type Role string

// Roles ordered from least to most privileged.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is a known value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// level returns the numeric privilege level of the role.
func (r Role) level() int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleUser:
		return 1
	}
	return 0
}

// HasPermission reports whether the role meets or exceeds minRole.
func (r Role) HasPermission(minRole Role) bool {
	return r.level() >= minRole.level()
}

// User represents a registered account.
// Password holds the bcrypt hash and is never serialized.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
