package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/authz"
	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/events"
	"github.com/infinitetechnologys/crm/internal/persistence"
	"github.com/infinitetechnologys/crm/internal/repository"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

// TaskService coordinates personal task workflows.
type TaskService struct {
	tasks      repository.TaskRepository
	activity   *ActivityService
	tx         persistence.TxManager
	dispatcher events.Dispatcher
}

// NewTaskService constructs the service.
func NewTaskService(tasks repository.TaskRepository, activity *ActivityService, tx persistence.TxManager, dispatcher events.Dispatcher) *TaskService {
	return &TaskService{tasks: tasks, activity: activity, tx: tx, dispatcher: dispatcher}
}

// TaskInput carries task attributes for create and update.
type TaskInput struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
	Status      domain.TaskStatus
	DueDate     *time.Time
}

// TaskListInput narrows the task listing. UserID is honored for admin callers
// only.
type TaskListInput struct {
	UserID   *int64
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
	Limit    int
	Offset   int
}

func (in TaskInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return apperrors.NewValidationError("title required", nil)
	}
	if in.Priority != "" {
		switch in.Priority {
		case domain.TaskPriorityLow, domain.TaskPriorityMedium, domain.TaskPriorityHigh, domain.TaskPriorityUrgent:
		default:
			return apperrors.NewValidationError("invalid task priority", map[string]any{"priority": in.Priority})
		}
	}
	if in.Status != "" {
		switch in.Status {
		case domain.TaskStatusPending, domain.TaskStatusInProgress, domain.TaskStatusCompleted:
		default:
			return apperrors.NewValidationError("invalid task status", map[string]any{"status": in.Status})
		}
	}
	return nil
}

// List returns the acting user's tasks; admins may view any user's.
func (s *TaskService) List(ctx context.Context, sess *auth.Session, input TaskListInput) ([]domain.Task, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}

	filter := repository.TaskFilter{
		Status:   input.Status,
		Priority: input.Priority,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}
	if actor.IsAdmin() {
		filter.UserID = input.UserID
	} else {
		filter.UserID = &actor.ID
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return tasks, nil
}

// Create adds a task assigned to the acting user and audits it.
func (s *TaskService) Create(ctx context.Context, sess *auth.Session, input TaskInput) (*domain.Task, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Priority:    input.Priority,
		Status:      input.Status,
		DueDate:     input.DueDate,
		UserID:      actor.ID,
	}
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tasks.Create(ctx, task); err != nil {
			return apperrors.NewStoreFailure(err)
		}
		return s.activity.Record(ctx, sess, domain.ActionCreated, domain.EntityTask,
			idPtr(task.ID), task.Title, fmt.Sprintf("Created task: %s", task.Title))
	})
	if err != nil {
		return nil, err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionCreated, domain.EntityTask, task.ID, task.UserID)
	return task, nil
}

// Update modifies an owned task and audits the change. Moving into or out of
// the completed state also stamps or clears the completion time.
func (s *TaskService) Update(ctx context.Context, sess *auth.Session, id int64, input TaskInput) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	task.Title = strings.TrimSpace(input.Title)
	task.Description = input.Description
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	task.DueDate = input.DueDate
	if input.Status != "" && input.Status != task.Status {
		task.Status = input.Status
		if task.Status == domain.TaskStatusCompleted {
			now := time.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tasks.Update(ctx, task); err != nil {
			return apperrors.MapError(err, "task")
		}
		return s.activity.Record(ctx, sess, domain.ActionUpdated, domain.EntityTask,
			idPtr(task.ID), task.Title, fmt.Sprintf("Updated task: %s", task.Title))
	})
	if err != nil {
		return nil, err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionUpdated, domain.EntityTask, task.ID, task.UserID)
	return task, nil
}

// ToggleComplete flips an owned task between completed and pending, stamping
// or clearing the completion time, and audits the transition.
func (s *TaskService) ToggleComplete(ctx context.Context, sess *auth.Session, id int64) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	var details string
	if task.Status == domain.TaskStatusCompleted {
		task.Status = domain.TaskStatusPending
		task.CompletedAt = nil
		details = fmt.Sprintf("Reopened task: %s", task.Title)
	} else {
		task.Status = domain.TaskStatusCompleted
		now := time.Now()
		task.CompletedAt = &now
		details = fmt.Sprintf("Completed task: %s", task.Title)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tasks.Update(ctx, task); err != nil {
			return apperrors.MapError(err, "task")
		}
		return s.activity.Record(ctx, sess, domain.ActionStatusChange, domain.EntityTask,
			idPtr(task.ID), task.Title, details)
	})
	if err != nil {
		return nil, err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionStatusChange, domain.EntityTask, task.ID, task.UserID)
	return task, nil
}

// Delete removes an owned task.
func (s *TaskService) Delete(ctx context.Context, sess *auth.Session, id int64) error {
	task, err := s.ownedTask(ctx, sess, id)
	if err != nil {
		return err
	}

	title := task.Title
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tasks.Delete(ctx, id); err != nil {
			return apperrors.MapError(err, "task")
		}
		return s.activity.Record(ctx, sess, domain.ActionDeleted, domain.EntityTask,
			idPtr(id), title, fmt.Sprintf("Deleted task: %s", title))
	})
	if err != nil {
		return err
	}

	publishMutation(ctx, s.dispatcher, domain.ActionDeleted, domain.EntityTask, id, task.UserID)
	return nil
}

func (s *TaskService) ownedTask(ctx context.Context, sess *auth.Session, id int64) (*domain.Task, error) {
	actor := sess.Actor()
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err, "task")
	}
	if err := authz.RequireOwner(actor, task.UserID); err != nil {
		return nil, err
	}
	return task, nil
}
