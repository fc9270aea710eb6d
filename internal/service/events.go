package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/events"
)

// publishMutation emits an entity-mutated event after a committed write so
// cache subscribers can react. Publishing never fails the operation.
func publishMutation(ctx context.Context, dispatcher events.Dispatcher, action domain.ActivityAction, entity string, entityID, ownerID int64) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventEntityMutated,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		OwnerID:   ownerID,
		Timestamp: time.Now(),
	})
}

func idPtr(id int64) *int64 {
	return &id
}
