package domain

import "time"

// Role enumerates staff capability levels.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// ValidRole reports whether a value belongs to the closed role set.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// StaffAccount models an agency employee. Agents own the clients and
// properties they manage; deals are owned through the client.
type StaffAccount struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	Role           Role
	FirstName      string
	LastName       string
	Phone          string
	Position       string
	HireDate       *time.Time
	CommissionRate float64
	Active         bool
	CreatedBy      *int64
	CreatedAt      time.Time
}

// FullName falls back to the username when profile names are blank.
func (s *StaffAccount) FullName() string {
	if s.FirstName != "" && s.LastName != "" {
		return s.FirstName + " " + s.LastName
	}
	return s.Username
}

// IsAdmin reports the admin capability.
func (s *StaffAccount) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// IsManager reports the manager capability (admins are managers too).
func (s *StaffAccount) IsManager() bool {
	return s.Role == RoleAdmin || s.Role == RoleManager
}
