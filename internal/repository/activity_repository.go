package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infinitetechnologys/crm/internal/domain"
)

// ActivityFilter captures activity log query parameters. OnDate restricts to
// one calendar day.
type ActivityFilter struct {
	UserID     *int64
	Action     *domain.ActivityAction
	EntityType *string
	OnDate     *time.Time
	Limit      int
}

// UserActivityCount is one row of the most-active-users ranking.
type UserActivityCount struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
	Count     int64
}

// ActivityRepository persists the append-only audit trail. There is
// deliberately no update or delete surface.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	List(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error)
	ListForUser(ctx context.Context, userID int64, limit int) ([]domain.Activity, error)
	CountOnDate(ctx context.Context, date time.Time) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountForUser(ctx context.Context, userID int64) (int64, error)
	CountForUserOnDate(ctx context.Context, userID int64, date time.Time) (int64, error)
	CountForUserSince(ctx context.Context, userID int64, since time.Time) (int64, error)
	TopActiveUsers(ctx context.Context, since time.Time, limit int) ([]UserActivityCount, error)
}

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository instantiates the repository.
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{pool: pool}
}

const activityColumns = `id, user_id, action, entity_type, entity_id, entity_name, details, ip_address, created_at`

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	const query = `
        INSERT INTO activities (user_id, action, entity_type, entity_id, entity_name, details, ip_address)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		activity.UserID,
		activity.Action,
		activity.EntityType,
		activity.EntityID,
		activity.EntityName,
		activity.Details,
		activity.IPAddress,
	).Scan(&activity.ID, &activity.CreatedAt)
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.Action != nil {
		args = append(args, *filter.Action)
		clauses = append(clauses, fmt.Sprintf("action=$%d", len(args)))
	}
	if filter.EntityType != nil {
		args = append(args, *filter.EntityType)
		clauses = append(clauses, fmt.Sprintf("entity_type=$%d", len(args)))
	}
	if filter.OnDate != nil {
		start, end := dayBounds(*filter.OnDate)
		args = append(args, start)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
		args = append(args, end)
		clauses = append(clauses, fmt.Sprintf("created_at < $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}

	query := fmt.Sprintf(`SELECT %s FROM activities WHERE %s ORDER BY created_at DESC LIMIT %d`,
		activityColumns, strings.Join(clauses, " AND "), limit)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivities(rows)
}

func (r *activityRepository) ListForUser(ctx context.Context, userID int64, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 200
	}
	query := fmt.Sprintf(`SELECT %s FROM activities WHERE user_id=$1 ORDER BY created_at DESC LIMIT %d`,
		activityColumns, limit)
	rows, err := conn(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivities(rows)
}

func (r *activityRepository) CountOnDate(ctx context.Context, date time.Time) (int64, error) {
	start, end := dayBounds(date)
	var count int64
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM activities WHERE created_at >= $1 AND created_at < $2`,
		start, end).Scan(&count)
	return count, err
}

func (r *activityRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM activities WHERE created_at >= $1`, since).Scan(&count)
	return count, err
}

func (r *activityRepository) CountForUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM activities WHERE user_id=$1`, userID).Scan(&count)
	return count, err
}

func (r *activityRepository) CountForUserOnDate(ctx context.Context, userID int64, date time.Time) (int64, error) {
	start, end := dayBounds(date)
	var count int64
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM activities WHERE user_id=$1 AND created_at >= $2 AND created_at < $3`,
		userID, start, end).Scan(&count)
	return count, err
}

func (r *activityRepository) CountForUserSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	var count int64
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM activities WHERE user_id=$1 AND created_at >= $2`,
		userID, since).Scan(&count)
	return count, err
}

// TopActiveUsers ranks actors by record count since the cutoff, count
// descending with user id ascending as the tie-break.
func (r *activityRepository) TopActiveUsers(ctx context.Context, since time.Time, limit int) ([]UserActivityCount, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `
        SELECT u.id, u.username, u.first_name, u.last_name, COUNT(a.id) AS activity_count
        FROM activities a
        JOIN staff_accounts u ON u.id = a.user_id
        WHERE a.created_at >= $1
        GROUP BY u.id, u.username, u.first_name, u.last_name
        ORDER BY activity_count DESC, u.id ASC
        LIMIT $2`
	rows, err := conn(ctx, r.pool).Query(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []UserActivityCount
	for rows.Next() {
		var row UserActivityCount
		if err := rows.Scan(&row.UserID, &row.Username, &row.FirstName, &row.LastName, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func dayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}

func scanActivities(rows pgx.Rows) ([]domain.Activity, error) {
	var result []domain.Activity
	for rows.Next() {
		var activity domain.Activity
		if err := rows.Scan(
			&activity.ID,
			&activity.UserID,
			&activity.Action,
			&activity.EntityType,
			&activity.EntityID,
			&activity.EntityName,
			&activity.Details,
			&activity.IPAddress,
			&activity.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, activity)
	}
	return result, rows.Err()
}
