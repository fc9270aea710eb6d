package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinitetechnologys/crm/internal/domain"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

func newTaskService() (*TaskService, *fakeTaskRepo, *fakeActivityRepo) {
	tasks := newFakeTaskRepo()
	activities := newFakeActivityRepo()
	svc := NewTaskService(tasks, NewActivityService(activities), fakeTx{}, &spyDispatcher{})
	return svc, tasks, activities
}

func TestTaskCreateDefaults(t *testing.T) {
	svc, _, activities := newTaskService()
	sess := staffSession(1, domain.RoleStaff)

	task, err := svc.Create(context.Background(), sess, TaskInput{Title: "Call seller"})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, domain.TaskPriorityMedium, task.Priority)
	assert.Equal(t, int64(1), task.UserID)
	assert.Nil(t, task.CompletedAt)

	require.Len(t, activities.records, 1)
	assert.Equal(t, "Created task: Call seller", activities.records[0].Details)
}

func TestTaskToggleComplete(t *testing.T) {
	svc, tasks, activities := newTaskService()
	sess := staffSession(1, domain.RoleStaff)

	task, err := svc.Create(context.Background(), sess, TaskInput{Title: "Call seller"})
	require.NoError(t, err)
	activities.records = nil

	done, err := svc.ToggleComplete(context.Background(), sess, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	require.Len(t, activities.records, 1)
	assert.Equal(t, domain.ActionStatusChange, activities.records[0].Action)
	assert.Equal(t, "Completed task: Call seller", activities.records[0].Details)

	reopened, err := svc.ToggleComplete(context.Background(), sess, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)

	require.Len(t, activities.records, 2)
	assert.Equal(t, "Reopened task: Call seller", activities.records[1].Details)

	stored, err := tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CompletedAt)
}

func TestTaskOwnershipScoping(t *testing.T) {
	svc, _, activities := newTaskService()
	owner := staffSession(1, domain.RoleStaff)
	other := staffSession(2, domain.RoleStaff)
	admin := staffSession(3, domain.RoleAdmin)

	task, err := svc.Create(context.Background(), owner, TaskInput{Title: "Call seller"})
	require.NoError(t, err)
	activities.records = nil

	_, err = svc.ToggleComplete(context.Background(), other, task.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	err = svc.Delete(context.Background(), other, task.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	assert.Empty(t, activities.records)

	_, err = svc.ToggleComplete(context.Background(), admin, task.ID)
	require.NoError(t, err)
}

func TestTaskListScopedToUser(t *testing.T) {
	svc, _, _ := newTaskService()
	first := staffSession(1, domain.RoleStaff)
	second := staffSession(2, domain.RoleStaff)

	_, err := svc.Create(context.Background(), first, TaskInput{Title: "Mine"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), second, TaskInput{Title: "Theirs"})
	require.NoError(t, err)

	mine, err := svc.List(context.Background(), first, TaskListInput{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Title)
}

func TestTaskUpdateStatusStampsCompletion(t *testing.T) {
	svc, _, _ := newTaskService()
	sess := staffSession(1, domain.RoleStaff)

	task, err := svc.Create(context.Background(), sess, TaskInput{Title: "Call seller"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), sess, task.ID, TaskInput{
		Title:  "Call seller",
		Status: domain.TaskStatusCompleted,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)

	updated, err = svc.Update(context.Background(), sess, task.ID, TaskInput{
		Title:  "Call seller",
		Status: domain.TaskStatusInProgress,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)
}

func TestTaskInvalidEnumRejected(t *testing.T) {
	svc, _, _ := newTaskService()
	sess := staffSession(1, domain.RoleStaff)

	_, err := svc.Create(context.Background(), sess, TaskInput{Title: "Call", Priority: "asap"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}
