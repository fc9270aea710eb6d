package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/authz"
	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/metrics"
	"github.com/infinitetechnologys/crm/internal/persistence"
	"github.com/infinitetechnologys/crm/internal/repository"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

// DashboardService assembles the per-agent home screen. Results are cached
// in Redis with a short TTL; the cache worker drops an agent's entry after
// any of their records mutates. A stale read inside the TTL window is
// acceptable.
type DashboardService struct {
	clients    repository.ClientRepository
	properties repository.PropertyRepository
	deals      repository.DealRepository
	tasks      repository.TaskRepository
	showings   repository.ShowingRepository
	cache      *persistence.Redis
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewDashboardService constructs the service.
func NewDashboardService(clients repository.ClientRepository, properties repository.PropertyRepository, deals repository.DealRepository, tasks repository.TaskRepository, showings repository.ShowingRepository, cache *persistence.Redis, cacheTTLSeconds int, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		clients:    clients,
		properties: properties,
		deals:      deals,
		tasks:      tasks,
		showings:   showings,
		cache:      cache,
		cacheTTL:   time.Duration(cacheTTLSeconds) * time.Second,
		logger:     logger,
	}
}

// Stats is one agent's dashboard snapshot.
type Stats struct {
	ClientCount      int64             `json:"client_count"`
	PropertyCount    int64             `json:"property_count"`
	ActiveDeals      int64             `json:"active_deals"`
	TotalSales       float64           `json:"total_sales"`
	TotalCommission  float64           `json:"total_commission"`
	RecentClients    []domain.Client   `json:"recent_clients"`
	RecentProperties []domain.Property `json:"recent_properties"`
	UpcomingTasks    []domain.Task     `json:"upcoming_tasks"`
	UpcomingShowings []domain.Showing  `json:"upcoming_showings"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

const dashboardRecentLimit = 5

func dashboardCacheKey(agentID int64) string {
	return fmt.Sprintf("dashboard:stats:%d", agentID)
}

// Stats returns the acting agent's dashboard, serving from cache when a
// fresh entry exists.
func (s *DashboardService) Stats(ctx context.Context, sess *auth.Session) (*Stats, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}

	key := dashboardCacheKey(actor.ID)
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	stats, err := s.build(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, stats)
	return stats, nil
}

// Invalidate drops one agent's cached dashboard entry.
func (s *DashboardService) Invalidate(ctx context.Context, agentID int64) error {
	if s.cache == nil || s.cache.Client == nil {
		return nil
	}
	return s.cache.Client.Del(ctx, dashboardCacheKey(agentID)).Err()
}

func (s *DashboardService) build(ctx context.Context, agentID int64) (*Stats, error) {
	clientCount, err := s.clients.CountByAgent(ctx, agentID)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	propertyCount, err := s.properties.CountByAgent(ctx, agentID)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	activeDeals, err := s.deals.CountActiveByAgent(ctx, agentID)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	closed, err := s.deals.ListClosedByAgent(ctx, agentID)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	recentClients, err := s.clients.ListRecentByAgent(ctx, agentID, dashboardRecentLimit)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	recentProperties, err := s.properties.ListRecentByAgent(ctx, agentID, dashboardRecentLimit)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	upcomingTasks, err := s.tasks.ListUpcomingByUser(ctx, agentID, dashboardRecentLimit)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	upcomingShowings, err := s.showings.ListUpcomingByAgent(ctx, agentID, time.Now(), dashboardRecentLimit)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}

	var totalSales float64
	for _, deal := range closed {
		totalSales += deal.EffectivePrice()
	}

	return &Stats{
		ClientCount:      clientCount,
		PropertyCount:    propertyCount,
		ActiveDeals:      activeDeals,
		TotalSales:       totalSales,
		TotalCommission:  metrics.SumCommission(closed),
		RecentClients:    recentClients,
		RecentProperties: recentProperties,
		UpcomingTasks:    upcomingTasks,
		UpcomingShowings: upcomingShowings,
		GeneratedAt:      time.Now(),
	}, nil
}

func (s *DashboardService) fromCache(ctx context.Context, key string) *Stats {
	if s.cache == nil || s.cache.Client == nil {
		return nil
	}
	raw, err := s.cache.Client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var stats Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warn("dashboard cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &stats
}

func (s *DashboardService) toCache(ctx context.Context, key string, stats *Stats) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
