package dto

import (
	"time"

	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/repository"
	"github.com/infinitetechnologys/crm/internal/service"
)

// ActivityResponse is one audit trail row.
type ActivityResponse struct {
	ID         int64                 `json:"id"`
	UserID     int64                 `json:"user_id"`
	Action     domain.ActivityAction `json:"action"`
	EntityType string                `json:"entity_type"`
	EntityID   *int64                `json:"entity_id"`
	EntityName string                `json:"entity_name"`
	Details    string                `json:"details"`
	IPAddress  string                `json:"ip_address"`
	CreatedAt  time.Time             `json:"created_at"`
}

// ActiveUserResponse is one most-active ranking row.
type ActiveUserResponse struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Count     int64  `json:"count"`
}

// ActivitySummaryResponse aggregates trail counters.
type ActivitySummaryResponse struct {
	TodayCount int64                `json:"today_count"`
	WeekCount  int64                `json:"week_count"`
	MostActive []ActiveUserResponse `json:"most_active"`
}

// UserActivitySummaryResponse aggregates one member's counters.
type UserActivitySummaryResponse struct {
	TodayCount int64 `json:"today_count"`
	WeekCount  int64 `json:"week_count"`
	TotalCount int64 `json:"total_count"`
}

// NewActivityResponse maps a domain activity row.
func NewActivityResponse(activity *domain.Activity) ActivityResponse {
	return ActivityResponse{
		ID:         activity.ID,
		UserID:     activity.UserID,
		Action:     activity.Action,
		EntityType: activity.EntityType,
		EntityID:   activity.EntityID,
		EntityName: activity.EntityName,
		Details:    activity.Details,
		IPAddress:  activity.IPAddress,
		CreatedAt:  activity.CreatedAt,
	}
}

// NewActivitySummaryResponse maps the admin summary.
func NewActivitySummaryResponse(summary *service.Summary) ActivitySummaryResponse {
	active := make([]ActiveUserResponse, 0, len(summary.MostActive))
	for _, row := range summary.MostActive {
		active = append(active, newActiveUserResponse(row))
	}
	return ActivitySummaryResponse{
		TodayCount: summary.TodayCount,
		WeekCount:  summary.WeekCount,
		MostActive: active,
	}
}

func newActiveUserResponse(row repository.UserActivityCount) ActiveUserResponse {
	return ActiveUserResponse{
		UserID:    row.UserID,
		Username:  row.Username,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Count:     row.Count,
	}
}
