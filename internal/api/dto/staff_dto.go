package dto

import (
	"time"

	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/service"
)

// StaffRequest payload for roster create and update. Password is honored on
// create only.
type StaffRequest struct {
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	Password       string      `json:"password"`
	Role           domain.Role `json:"role"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Phone          string      `json:"phone"`
	Position       string      `json:"position"`
	HireDate       *time.Time  `json:"hire_date"`
	CommissionRate float64     `json:"commission_rate"`
}

// StaffMemberResponse is one roster row with workload counters.
type StaffMemberResponse struct {
	Account     AccountResponse `json:"account"`
	ClientCount int64           `json:"client_count"`
	ListedCount int64           `json:"listed_count"`
	ActiveDeals int64           `json:"active_deals"`
}

// ProfileRequest payload for self-service profile edits.
type ProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ResetPasswordRequest payload.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// NewStaffMemberResponse maps a roster entry.
func NewStaffMemberResponse(member *service.StaffMember) StaffMemberResponse {
	return StaffMemberResponse{
		Account:     NewAccountResponse(&member.Account),
		ClientCount: member.ClientCount,
		ListedCount: member.ListedCount,
		ActiveDeals: member.ActiveDeals,
	}
}
