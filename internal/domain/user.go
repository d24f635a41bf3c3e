package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a local identity. Users own zero or more accounts and
// backtests; the password hash is never exposed in responses.
type User struct {
	ID                   uuid.UUID  `json:"id"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"`
	Role                 string     `json:"role"`
	ResetPasswordToken   string     `json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// UserRole constants
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Identity is the decoded caller identity attached to every authenticated
// request.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

// IsAdmin reports whether the caller holds the admin role and therefore
// bypasses per-record ownership checks.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
