package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinitetechnologys/crm/internal/domain"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

func TestRecordSkipsAnonymousSessions(t *testing.T) {
	activities := newFakeActivityRepo()
	svc := NewActivityService(activities)

	err := svc.Record(context.Background(), nil, domain.ActionCreated, domain.EntityClient, nil, "x", "y")
	require.NoError(t, err)
	assert.Empty(t, activities.records)
}

func TestActivityQueriesAdminOnly(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo())
	staffSess := staffSession(1, domain.RoleStaff)
	managerSess := staffSession(2, domain.RoleManager)

	_, err := svc.List(context.Background(), staffSess, LogFilter{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	_, err = svc.List(context.Background(), managerSess, LogFilter{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	_, err = svc.ListForUser(context.Background(), staffSess, 1, 10)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	_, err = svc.Summarize(context.Background(), staffSess, time.Now())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestActivityListFilters(t *testing.T) {
	activities := newFakeActivityRepo()
	svc := NewActivityService(activities)
	admin := staffSession(1, domain.RoleAdmin)
	agent := staffSession(2, domain.RoleStaff)

	require.NoError(t, svc.Record(context.Background(), admin, domain.ActionCreated, domain.EntityClient, idPtr(1), "Jane", ""))
	require.NoError(t, svc.Record(context.Background(), agent, domain.ActionDeleted, domain.EntityProperty, idPtr(2), "Oak Ave", ""))

	all, err := svc.List(context.Background(), admin, LogFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	action := domain.ActionDeleted
	deleted, err := svc.List(context.Background(), admin, LogFilter{Action: &action})
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, "Oak Ave", deleted[0].EntityName)

	mine, err := svc.ListForUser(context.Background(), admin, agent.Account.ID, 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, agent.Account.ID, mine[0].UserID)
}

func TestActivitySummarize(t *testing.T) {
	activities := newFakeActivityRepo()
	svc := NewActivityService(activities)
	admin := staffSession(1, domain.RoleAdmin)
	agent := staffSession(2, domain.RoleStaff)

	require.NoError(t, svc.Record(context.Background(), agent, domain.ActionCreated, domain.EntityClient, idPtr(1), "a", ""))
	require.NoError(t, svc.Record(context.Background(), agent, domain.ActionUpdated, domain.EntityClient, idPtr(1), "a", ""))
	require.NoError(t, svc.Record(context.Background(), admin, domain.ActionLogin, domain.EntitySession, nil, "b", ""))

	summary, err := svc.Summarize(context.Background(), admin, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TodayCount)
	assert.Equal(t, int64(3), summary.WeekCount)
	require.NotEmpty(t, summary.MostActive)
	// ranked by count, the busier agent first
	assert.Equal(t, agent.Account.ID, summary.MostActive[0].UserID)
	assert.Equal(t, int64(2), summary.MostActive[0].Count)

	userSummary, err := svc.SummarizeUser(context.Background(), admin, agent.Account.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), userSummary.TodayCount)
	assert.Equal(t, int64(2), userSummary.TotalCount)
}

func TestStartOfWeekIsMonday(t *testing.T) {
	// Wednesday 2026-01-07
	wed := time.Date(2026, 1, 7, 15, 30, 0, 0, time.UTC)
	monday := startOfWeek(wed)
	assert.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), monday)

	// Sunday belongs to the week that started the previous Monday
	sun := time.Date(2026, 1, 11, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), startOfWeek(sun))

	// Monday maps to itself at midnight
	mon := time.Date(2026, 1, 5, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), startOfWeek(mon))
}
