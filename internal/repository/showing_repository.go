package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infinitetechnologys/crm/internal/domain"
)

// ShowingRepository persists scheduled property visits.
type ShowingRepository interface {
	Create(ctx context.Context, showing *domain.Showing) error
	Update(ctx context.Context, showing *domain.Showing) error
	GetByID(ctx context.Context, id int64) (*domain.Showing, error)
	Delete(ctx context.Context, id int64) error
	ListByProperty(ctx context.Context, propertyID int64) ([]domain.Showing, error)
	ListUpcomingByAgent(ctx context.Context, agentID int64, after time.Time, limit int) ([]domain.Showing, error)
}

type showingRepository struct {
	pool *pgxpool.Pool
}

// NewShowingRepository instantiates the repository.
func NewShowingRepository(pool *pgxpool.Pool) ShowingRepository {
	return &showingRepository{pool: pool}
}

const showingColumns = `id, property_id, client_name, client_phone, client_email,
               scheduled_date, status, feedback, created_at`

func (r *showingRepository) Create(ctx context.Context, showing *domain.Showing) error {
	const query = `
        INSERT INTO showings (property_id, client_name, client_phone, client_email, scheduled_date, status, feedback)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		showing.PropertyID,
		showing.ClientName,
		showing.ClientPhone,
		showing.ClientEmail,
		showing.ScheduledDate,
		showing.Status,
		showing.Feedback,
	).Scan(&showing.ID, &showing.CreatedAt)
}

func (r *showingRepository) Update(ctx context.Context, showing *domain.Showing) error {
	const query = `
        UPDATE showings SET client_name=$1, client_phone=$2, client_email=$3,
            scheduled_date=$4, status=$5, feedback=$6
        WHERE id=$7`
	cmd, err := conn(ctx, r.pool).Exec(ctx, query,
		showing.ClientName,
		showing.ClientPhone,
		showing.ClientEmail,
		showing.ScheduledDate,
		showing.Status,
		showing.Feedback,
		showing.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *showingRepository) GetByID(ctx context.Context, id int64) (*domain.Showing, error) {
	const query = `SELECT ` + showingColumns + ` FROM showings WHERE id=$1`
	var showing domain.Showing
	if err := scanShowing(conn(ctx, r.pool).QueryRow(ctx, query, id), &showing); err != nil {
		return nil, err
	}
	return &showing, nil
}

func (r *showingRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM showings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *showingRepository) ListByProperty(ctx context.Context, propertyID int64) ([]domain.Showing, error) {
	const query = `SELECT ` + showingColumns + `
        FROM showings WHERE property_id=$1 ORDER BY scheduled_date DESC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShowings(rows)
}

func (r *showingRepository) ListUpcomingByAgent(ctx context.Context, agentID int64, after time.Time, limit int) ([]domain.Showing, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `
        SELECT s.id, s.property_id, s.client_name, s.client_phone, s.client_email,
               s.scheduled_date, s.status, s.feedback, s.created_at
        FROM showings s
        JOIN properties p ON p.id = s.property_id
        WHERE p.agent_id=$1 AND s.scheduled_date >= $2 AND s.status='scheduled'
        ORDER BY s.scheduled_date ASC
        LIMIT $3`
	rows, err := conn(ctx, r.pool).Query(ctx, query, agentID, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShowings(rows)
}

func scanShowings(rows pgx.Rows) ([]domain.Showing, error) {
	var result []domain.Showing
	for rows.Next() {
		var showing domain.Showing
		if err := scanShowing(rows, &showing); err != nil {
			return nil, err
		}
		result = append(result, showing)
	}
	return result, rows.Err()
}

func scanShowing(row pgx.Row, showing *domain.Showing) error {
	return row.Scan(
		&showing.ID,
		&showing.PropertyID,
		&showing.ClientName,
		&showing.ClientPhone,
		&showing.ClientEmail,
		&showing.ScheduledDate,
		&showing.Status,
		&showing.Feedback,
		&showing.CreatedAt,
	)
}
