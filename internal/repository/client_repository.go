package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infinitetechnologys/crm/internal/domain"
)

// ClientFilter captures client listing parameters. AgentID scopes the
// listing to one owner; admin callers leave it nil.
type ClientFilter struct {
	AgentID *int64
	Status  *domain.ClientStatus
	Type    *domain.ClientType
	Search  *string
	Limit   int
	Offset  int
}

// ClientRepository encapsulates client persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ClientFilter) ([]domain.Client, error)
	CountByAgent(ctx context.Context, agentID int64) (int64, error)
	ListRecentByAgent(ctx context.Context, agentID int64, limit int) ([]domain.Client, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository instantiates the repository.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

const clientColumns = `id, first_name, last_name, email, phone, client_type, status,
               budget_min, budget_max, preferred_location, notes, source, agent_id, created_at, updated_at`

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (first_name, last_name, email, phone, client_type, status,
            budget_min, budget_max, preferred_location, notes, source, agent_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.Type,
		client.Status,
		client.BudgetMin,
		client.BudgetMax,
		client.PreferredLocation,
		client.Notes,
		client.Source,
		client.AgentID,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET first_name=$1, last_name=$2, email=$3, phone=$4, client_type=$5,
            status=$6, budget_min=$7, budget_max=$8, preferred_location=$9, notes=$10,
            source=$11, updated_at=NOW()
        WHERE id=$12`
	cmd, err := conn(ctx, r.pool).Exec(ctx, query,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.Type,
		client.Status,
		client.BudgetMin,
		client.BudgetMax,
		client.PreferredLocation,
		client.Notes,
		client.Source,
		client.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE id=$1`, clientColumns)
	var client domain.Client
	if err := scanClient(conn(ctx, r.pool).QueryRow(ctx, query, id), &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// Delete removes the client; interactions are removed by the cascading
// foreign key.
func (r *clientRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientRepository) List(ctx context.Context, filter ClientFilter) ([]domain.Client, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AgentID != nil {
		args = append(args, *filter.AgentID)
		clauses = append(clauses, fmt.Sprintf("agent_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("client_type=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		ph := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(first_name) LIKE %s OR LOWER(last_name) LIKE %s OR LOWER(email) LIKE %s OR LOWER(phone) LIKE %s)",
			ph, ph, ph, ph))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM clients WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		clientColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClients(rows)
}

func (r *clientRepository) CountByAgent(ctx context.Context, agentID int64) (int64, error) {
	var count int64
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM clients WHERE agent_id=$1`, agentID).Scan(&count)
	return count, err
}

func (r *clientRepository) ListRecentByAgent(ctx context.Context, agentID int64, limit int) ([]domain.Client, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE agent_id=$1 ORDER BY created_at DESC LIMIT %d`,
		clientColumns, limit)
	rows, err := conn(ctx, r.pool).Query(ctx, query, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClients(rows)
}

func scanClients(rows pgx.Rows) ([]domain.Client, error) {
	var result []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := scanClient(rows, &client); err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	return result, rows.Err()
}

func scanClient(row pgx.Row, client *domain.Client) error {
	return row.Scan(
		&client.ID,
		&client.FirstName,
		&client.LastName,
		&client.Email,
		&client.Phone,
		&client.Type,
		&client.Status,
		&client.BudgetMin,
		&client.BudgetMax,
		&client.PreferredLocation,
		&client.Notes,
		&client.Source,
		&client.AgentID,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
}
