package service

import (
	"context"

	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/authz"
	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/metrics"
	"github.com/infinitetechnologys/crm/internal/repository"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

// ReportService assembles the agent-scoped sales report. All figures derive
// from repository rows through the pure metrics package.
type ReportService struct {
	deals      repository.DealRepository
	clients    repository.ClientRepository
	properties repository.PropertyRepository
}

// NewReportService constructs the service.
func NewReportService(deals repository.DealRepository, clients repository.ClientRepository, properties repository.PropertyRepository) *ReportService {
	return &ReportService{deals: deals, clients: clients, properties: properties}
}

// Overview is the full sales report for one agent and one year.
type Overview struct {
	Year            int                    `json:"year"`
	TotalSales      float64                `json:"total_sales"`
	TotalCommission float64                `json:"total_commission"`
	ClosedDeals     int                    `json:"closed_deals"`
	Monthly         []metrics.MonthlySales `json:"monthly"`
	ClientSources   map[string]int         `json:"client_sources"`
	PropertyStatus  map[string]int         `json:"property_status"`
}

// Overview builds the report for the acting agent in the given year. Admins
// may request another agent's report via agentID.
func (s *ReportService) Overview(ctx context.Context, sess *auth.Session, agentID *int64, year int) (*Overview, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}

	subject := actor.ID
	if agentID != nil && *agentID != actor.ID {
		if err := authz.RequireAdmin(actor); err != nil {
			return nil, err
		}
		subject = *agentID
	}

	closed, err := s.deals.ListClosedByAgent(ctx, subject)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	clients, err := s.clients.List(ctx, repository.ClientFilter{AgentID: &subject, Limit: 10000})
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	properties, err := s.properties.List(ctx, repository.PropertyFilter{AgentID: &subject, Limit: 10000})
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}

	monthly := metrics.MonthlyBreakdown(closed, year)
	report := &Overview{
		Year:    year,
		Monthly: monthly,
		ClientSources: metrics.GroupCount(clients, func(c domain.Client) string {
			return c.Source
		}, true),
		PropertyStatus: metrics.GroupCount(properties, func(p domain.Property) string {
			return string(p.Status)
		}, false),
	}
	for _, month := range monthly {
		report.TotalSales += month.TotalSales
		report.TotalCommission += month.Commission
		report.ClosedDeals += month.Deals
	}
	return report, nil
}
