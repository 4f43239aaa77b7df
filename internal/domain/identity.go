package domain

import "time"

// Role enumerates the access levels an identity can hold.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// Identity is the record a token binds to: a unique subject (the email),
// a role, a display name and the credential hash. The identity store owns
// persistence; the session core only reads and touches metadata.
type Identity struct {
	ID                  string
	Subject             string
	DisplayName         string
	Role                Role
	PasswordHash        string
	LastAuthenticatedAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
