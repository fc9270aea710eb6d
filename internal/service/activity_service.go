package service

import (
	"context"
	"time"

	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/authz"
	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/repository"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

// ActivityService owns the append-only audit trail: recording entries for
// every mutating operation and serving the admin-only query surface.
type ActivityService struct {
	activities repository.ActivityRepository
}

// NewActivityService constructs the service.
func NewActivityService(activities repository.ActivityRepository) *ActivityService {
	return &ActivityService{activities: activities}
}

// Record appends one audit entry for the acting session. Calls without an
// authenticated actor are silently skipped, not an error. When the context
// carries an open transaction the entry joins it, so the triggering write
// and its audit record commit or roll back together.
func (s *ActivityService) Record(ctx context.Context, sess *auth.Session, action domain.ActivityAction, entityType string, entityID *int64, entityName, details string) error {
	actor := sess.Actor()
	if actor == nil {
		return nil
	}
	activity := &domain.Activity{
		UserID:     actor.ID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    details,
		IPAddress:  sess.IP,
	}
	return s.activities.Create(ctx, activity)
}

// LogFilter narrows the admin activity listing.
type LogFilter struct {
	UserID     *int64
	Action     *domain.ActivityAction
	EntityType *string
	OnDate     *time.Time
	Limit      int
}

// List returns recent activity records, newest first. Admin only.
func (s *ActivityService) List(ctx context.Context, sess *auth.Session, filter LogFilter) ([]domain.Activity, error) {
	if err := authz.RequireAdmin(sess.Actor()); err != nil {
		return nil, err
	}
	records, err := s.activities.List(ctx, repository.ActivityFilter{
		UserID:     filter.UserID,
		Action:     filter.Action,
		EntityType: filter.EntityType,
		OnDate:     filter.OnDate,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return records, nil
}

// ListForUser returns one staff member's trail, newest first. Admin only.
func (s *ActivityService) ListForUser(ctx context.Context, sess *auth.Session, userID int64, limit int) ([]domain.Activity, error) {
	if err := authz.RequireAdmin(sess.Actor()); err != nil {
		return nil, err
	}
	records, err := s.activities.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return records, nil
}

// Summary aggregates trail counters for the admin activity page.
type Summary struct {
	TodayCount int64
	WeekCount  int64
	MostActive []repository.UserActivityCount
}

// Summarize reports today's count, the week-to-date count, and the
// most active staff this week. Admin only.
func (s *ActivityService) Summarize(ctx context.Context, sess *auth.Session, now time.Time) (*Summary, error) {
	if err := authz.RequireAdmin(sess.Actor()); err != nil {
		return nil, err
	}

	today, err := s.activities.CountOnDate(ctx, now)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	weekStart := startOfWeek(now)
	week, err := s.activities.CountSince(ctx, weekStart)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	mostActive, err := s.activities.TopActiveUsers(ctx, weekStart, 5)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return &Summary{TodayCount: today, WeekCount: week, MostActive: mostActive}, nil
}

// UserSummary aggregates counters for one staff member's trail page.
type UserSummary struct {
	TodayCount int64
	WeekCount  int64
	TotalCount int64
}

// SummarizeUser reports per-user trail counters. Admin only.
func (s *ActivityService) SummarizeUser(ctx context.Context, sess *auth.Session, userID int64, now time.Time) (*UserSummary, error) {
	if err := authz.RequireAdmin(sess.Actor()); err != nil {
		return nil, err
	}

	today, err := s.activities.CountForUserOnDate(ctx, userID, now)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	week, err := s.activities.CountForUserSince(ctx, userID, startOfWeek(now))
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	total, err := s.activities.CountForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return &UserSummary{TodayCount: today, WeekCount: week, TotalCount: total}, nil
}

// startOfWeek returns midnight of the Monday of now's week.
func startOfWeek(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	offset := (int(midnight.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -offset)
}
