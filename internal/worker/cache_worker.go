package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/infinitetechnologys/crm/internal/events"
	"github.com/infinitetechnologys/crm/internal/service"
)

// StartCacheWorker subscribes the dashboard cache invalidator to entity
// mutation events. Dropping a stale cache entry is best effort; the entry
// expires on its own TTL anyway.
func StartCacheWorker(dispatcher events.Dispatcher, dashboards *service.DashboardService, logger *zap.Logger) {
	if dispatcher == nil || dashboards == nil {
		return
	}
	dispatcher.Subscribe(events.EventEntityMutated, func(ctx context.Context, event events.Event) error {
		if err := dashboards.Invalidate(ctx, event.OwnerID); err != nil {
			logger.Warn("dashboard cache invalidation failed",
				zap.Int64("owner_id", event.OwnerID), zap.Error(err))
		}
		return nil
	})
}
