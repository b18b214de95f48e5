package domain

import "strings"

// Role identifies which workflow a user belongs to.
type Role string

const (
	RoleBuilder       Role = "builder"
	RoleSubcontractor Role = "subcontractor"
	RoleAdmin         Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBuilder, RoleSubcontractor, RoleAdmin:
		return true
	}
	return false
}

// ParseRole normalises s into a Role. Unknown values are returned as-is so
// callers can decide whether to reject them.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// User is the authenticated actor as reported by the backend.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Validate checks the fields a restored or freshly logged in user must carry.
func (u *User) Validate() error {
	if u == nil {
		return ErrInvalidUser
	}
	if strings.TrimSpace(u.ID) == "" {
		return ErrInvalidUser
	}
	if !u.Role.Valid() {
		return ErrInvalidUser
	}
	return nil
}

// DisplayName is what the backend expects as "builderName" on outbound calls.
func (u *User) DisplayName() string {
	if u == nil {
		return "Unknown Builder"
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return "Unknown Builder"
}
