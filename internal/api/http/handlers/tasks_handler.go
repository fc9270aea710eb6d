package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/infinitetechnologys/crm/internal/api/dto"
	"github.com/infinitetechnologys/crm/internal/auth"
	"github.com/infinitetechnologys/crm/internal/domain"
	"github.com/infinitetechnologys/crm/internal/service"
	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

// TasksHandler exposes personal task endpoints.
type TasksHandler struct {
	service *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// List handles GET /tasks.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)

	input := service.TaskListInput{
		UserID: queryInt64(c, "user_id"),
		Limit:  queryInt(c, "limit", 0),
		Offset: queryInt(c, "offset", 0),
	}
	if status := c.Query("status"); status != "" {
		s := domain.TaskStatus(status)
		input.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := domain.TaskPriority(priority)
		input.Priority = &p
	}

	tasks, err := h.service.List(c.UserContext(), sess, input)
	if err != nil {
		return err
	}
	items := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, dto.NewTaskResponse(&tasks[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create handles POST /tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	input, err := taskInputFromBody(c)
	if err != nil {
		return err
	}

	task, err := h.service.Create(c.UserContext(), sess, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// Update handles PUT /tasks/:id.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	input, err := taskInputFromBody(c)
	if err != nil {
		return err
	}

	task, err := h.service.Update(c.UserContext(), sess, id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// Toggle handles POST /tasks/:id/toggle.
func (h *TasksHandler) Toggle(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	task, err := h.service.ToggleComplete(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// Delete handles DELETE /tasks/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), sess, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func taskInputFromBody(c *fiber.Ctx) (service.TaskInput, error) {
	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return service.TaskInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
	}, nil
}
