package domain

import "time"

// ActivityAction is an open verb tag. The named constants cover the verbs
// the application emits today; new verbs may be added without a schema
// change, so this is intentionally not a closed set.
type ActivityAction string

const (
	ActionCreated      ActivityAction = "created"
	ActionUpdated      ActivityAction = "updated"
	ActionDeleted      ActivityAction = "deleted"
	ActionViewed       ActivityAction = "viewed"
	ActionLogin        ActivityAction = "login"
	ActionLogout       ActivityAction = "logout"
	ActionStatusChange ActivityAction = "status_change"
	ActionScheduled    ActivityAction = "scheduled"
)

// Entity type labels recorded on activity rows.
const (
	EntityClient   = "client"
	EntityProperty = "property"
	EntityDeal     = "deal"
	EntityTask     = "task"
	EntityShowing  = "showing"
	EntityStaff    = "staff"
	EntitySession  = "session"
)

// Activity is an append-only audit record. EntityName is a snapshot kept
// for display even after the referenced entity is deleted. Rows are never
// updated or removed by the application.
type Activity struct {
	ID         int64
	UserID     int64
	Action     ActivityAction
	EntityType string
	EntityID   *int64
	EntityName string
	Details    string
	IPAddress  string
	CreatedAt  time.Time
}
