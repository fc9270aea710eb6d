package events

import (
	"time"

	"github.com/infinitetechnologys/crm/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventEntityMutated fires after any committed create/update/delete on
	// an owned entity. Subscribers use it to invalidate per-agent caches.
	EventEntityMutated EventType = "entity_mutated"
)

// Event represents a domain event emitted by services after commit.
type Event struct {
	ID        string                `json:"id"`
	Type      EventType             `json:"type"`
	Action    domain.ActivityAction `json:"action"`
	Entity    string                `json:"entity"`
	EntityID  int64                 `json:"entity_id"`
	OwnerID   int64                 `json:"owner_id"`
	Timestamp time.Time             `json:"timestamp"`
}
