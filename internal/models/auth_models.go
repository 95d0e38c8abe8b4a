package models

import "time"

// User roles.
const (
	RoleManager = "manager"
	RoleCashier = "cashier"
	RoleCook    = "cook"
	RoleClient  = "client"
)

// IsValidUserRole checks if the provided role string is a known role.
func IsValidUserRole(role string) bool {
	switch role {
	case RoleManager, RoleCashier, RoleCook, RoleClient:
		return true
	default:
		return false
	}
}

// User is a staff or client account able to authenticate against the API.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username" binding:"required"`
	FullName     *string   `json:"full_name,omitempty" db:"full_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
