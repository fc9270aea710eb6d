package dto

import (
	"time"

	"github.com/infinitetechnologys/crm/internal/domain"
)

// TaskRequest payload for create and update.
type TaskRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    domain.TaskPriority `json:"priority"`
	Status      domain.TaskStatus   `json:"status"`
	DueDate     *time.Time          `json:"due_date"`
}

// TaskResponse view.
type TaskResponse struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    domain.TaskPriority `json:"priority"`
	Status      domain.TaskStatus   `json:"status"`
	DueDate     *time.Time          `json:"due_date"`
	CompletedAt *time.Time          `json:"completed_at"`
	UserID      int64               `json:"user_id"`
	CreatedAt   time.Time           `json:"created_at"`
}

// NewTaskResponse maps a domain task.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		DueDate:     task.DueDate,
		CompletedAt: task.CompletedAt,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
	}
}
