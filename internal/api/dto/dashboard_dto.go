package dto

import (
	"time"

	"github.com/infinitetechnologys/crm/internal/service"
)

// DashboardResponse is the per-agent home screen payload.
type DashboardResponse struct {
	ClientCount      int64              `json:"client_count"`
	PropertyCount    int64              `json:"property_count"`
	ActiveDeals      int64              `json:"active_deals"`
	TotalSales       float64            `json:"total_sales"`
	TotalCommission  float64            `json:"total_commission"`
	RecentClients    []ClientResponse   `json:"recent_clients"`
	RecentProperties []PropertyResponse `json:"recent_properties"`
	UpcomingTasks    []TaskResponse     `json:"upcoming_tasks"`
	UpcomingShowings []ShowingResponse  `json:"upcoming_showings"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

// NewDashboardResponse maps the dashboard snapshot.
func NewDashboardResponse(stats *service.Stats) DashboardResponse {
	resp := DashboardResponse{
		ClientCount:      stats.ClientCount,
		PropertyCount:    stats.PropertyCount,
		ActiveDeals:      stats.ActiveDeals,
		TotalSales:       stats.TotalSales,
		TotalCommission:  stats.TotalCommission,
		RecentClients:    make([]ClientResponse, 0, len(stats.RecentClients)),
		RecentProperties: make([]PropertyResponse, 0, len(stats.RecentProperties)),
		UpcomingTasks:    make([]TaskResponse, 0, len(stats.UpcomingTasks)),
		UpcomingShowings: make([]ShowingResponse, 0, len(stats.UpcomingShowings)),
		GeneratedAt:      stats.GeneratedAt,
	}
	for i := range stats.RecentClients {
		resp.RecentClients = append(resp.RecentClients, NewClientResponse(&stats.RecentClients[i]))
	}
	for i := range stats.RecentProperties {
		resp.RecentProperties = append(resp.RecentProperties, NewPropertyResponse(&stats.RecentProperties[i]))
	}
	for i := range stats.UpcomingTasks {
		resp.UpcomingTasks = append(resp.UpcomingTasks, NewTaskResponse(&stats.UpcomingTasks[i]))
	}
	for i := range stats.UpcomingShowings {
		resp.UpcomingShowings = append(resp.UpcomingShowings, NewShowingResponse(&stats.UpcomingShowings[i]))
	}
	return resp
}
