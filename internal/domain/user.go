package domain

import (
	"strings"
	"time"
)

// Role gates what a profile may do.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRole normalizes a role string; ok is false for unknown values.
func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	return role, role.Valid()
}

// User is the bare credential record.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile is the application identity layered over a User. Its ID equals the User ID.
type Profile struct {
	ID        string
	FullName  string
	Username  string
	Role      Role
	UpdatedAt time.Time
}

// Account is the joined User+Profile view of an authenticated caller.
type Account struct {
	Profile
	Email string
}

// IsAdmin reports whether the account carries the ADMIN role.
func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}
