package user

import "time"

type Role string

const (
	RoleAdmin Role = "admin" // Clinic administrator - reviews leave, manages types
	RoleStaff Role = "staff" // Regular account
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if the user can approve requests and manage leave types.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
