package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infinitetechnologys/crm/internal/domain"
)

// TaskFilter captures task listing parameters.
type TaskFilter struct {
	UserID   *int64
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
	Limit    int
	Offset   int
}

// TaskRepository encapsulates task persistence.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	ListUpcomingByUser(ctx context.Context, userID int64, limit int) ([]domain.Task, error)
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates the repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, title, description, priority, status, due_date, completed_at, user_id, created_at`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (title, description, priority, status, due_date, user_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.DueDate,
		task.UserID,
	).Scan(&task.ID, &task.CreatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET title=$1, description=$2, priority=$3, status=$4, due_date=$5, completed_at=$6
        WHERE id=$7`
	cmd, err := conn(ctx, r.pool).Exec(ctx, query,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.DueDate,
		task.CompletedAt,
		task.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1`
	var task domain.Task
	if err := scanTask(conn(ctx, r.pool).QueryRow(ctx, query, id), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) List(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s ORDER BY due_date ASC NULLS LAST LIMIT %d OFFSET %d`,
		taskColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *taskRepository) ListUpcomingByUser(ctx context.Context, userID int64, limit int) ([]domain.Task, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `
        SELECT ` + taskColumns + `
        FROM tasks
        WHERE user_id=$1 AND status <> 'completed'
        ORDER BY due_date ASC NULLS LAST
        LIMIT $2`
	rows, err := conn(ctx, r.pool).Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func scanTasks(rows pgx.Rows) ([]domain.Task, error) {
	var result []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := scanTask(rows, &task); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}

func scanTask(row pgx.Row, task *domain.Task) error {
	return row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.Status,
		&task.DueDate,
		&task.CompletedAt,
		&task.UserID,
		&task.CreatedAt,
	)
}
