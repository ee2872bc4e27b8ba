package actor

import "fmt"

// Role is the platform role an authenticated user acts under.
type Role string

const (
	RoleClient Role = "client"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts a string to a Role, returning an error if invalid.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return role, nil
}

// Actor is the authenticated identity attempting an operation. It is passed
// explicitly into every core call; the core never reads ambient session state.
type Actor struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

// System is the identity maintenance jobs act under.
var System = Actor{ID: 0, Role: RoleAdmin}
