package models

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleViewer    = "viewer"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// StaffUser is a back-office operator authenticated via OIDC.
type StaffUser struct {
	ID        uuid.UUID `json:"id"`
	Sub       string    `json:"sub"` // OIDC subject identifier
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	Role      string    `json:"role"` // viewer, moderator, admin
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user is an admin.
func (u *StaffUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanModerate returns true if the user may record and commit status changes.
func (u *StaffUser) CanModerate() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}
