package models

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleViewer   = "viewer"
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// User represents a dashboard operator authenticated via OIDC.
type User struct {
	ID        uuid.UUID `json:"id"`
	Sub       string    `json:"sub"` // OIDC subject identifier
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	Role      string    `json:"role"` // viewer, operator, admin
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user is an admin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanLaunch returns true if the user may launch broadcasts.
func (u *User) CanLaunch() bool {
	return u.Role == RoleOperator || u.Role == RoleAdmin
}

// HasRole returns true if the user holds any of roles. Admins hold every role.
func (u *User) HasRole(roles ...string) bool {
	if u.IsAdmin() {
		return true
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
