package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infinitetechnologys/crm/internal/domain"
)

// DealFilter captures deal listing parameters. AgentID scopes the listing to
// deals whose client belongs to that agent.
type DealFilter struct {
	AgentID *int64
	Status  *domain.DealStatus
	Limit   int
	Offset  int
}

// DealRepository encapsulates deal persistence. A deal has no owner column;
// owner-scoped queries join through the client.
type DealRepository interface {
	Create(ctx context.Context, deal *domain.Deal) error
	Update(ctx context.Context, deal *domain.Deal) error
	GetByID(ctx context.Context, id int64) (*domain.Deal, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter DealFilter) ([]domain.Deal, error)
	ListByClient(ctx context.Context, clientID int64) ([]domain.Deal, error)
	ListByProperty(ctx context.Context, propertyID int64) ([]domain.Deal, error)
	CountActiveByAgent(ctx context.Context, agentID int64) (int64, error)
	ListClosedByAgent(ctx context.Context, agentID int64) ([]domain.Deal, error)
}

type dealRepository struct {
	pool *pgxpool.Pool
}

// NewDealRepository instantiates the repository.
func NewDealRepository(pool *pgxpool.Pool) DealRepository {
	return &dealRepository{pool: pool}
}

const dealColumns = `d.id, d.client_id, d.property_id, d.status, d.offer_price, d.final_price,
               d.commission_rate, d.closing_date, d.notes, d.created_at, d.updated_at`

func (r *dealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	const query = `
        INSERT INTO deals (client_id, property_id, status, offer_price, final_price, commission_rate, closing_date, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		deal.ClientID,
		deal.PropertyID,
		deal.Status,
		deal.OfferPrice,
		deal.FinalPrice,
		deal.CommissionRate,
		deal.ClosingDate,
		deal.Notes,
	).Scan(&deal.ID, &deal.CreatedAt, &deal.UpdatedAt)
}

func (r *dealRepository) Update(ctx context.Context, deal *domain.Deal) error {
	const query = `
        UPDATE deals SET client_id=$1, property_id=$2, status=$3, offer_price=$4, final_price=$5,
            commission_rate=$6, closing_date=$7, notes=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := conn(ctx, r.pool).Exec(ctx, query,
		deal.ClientID,
		deal.PropertyID,
		deal.Status,
		deal.OfferPrice,
		deal.FinalPrice,
		deal.CommissionRate,
		deal.ClosingDate,
		deal.Notes,
		deal.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *dealRepository) GetByID(ctx context.Context, id int64) (*domain.Deal, error) {
	const query = `SELECT ` + dealColumns + ` FROM deals d WHERE d.id=$1`
	var deal domain.Deal
	if err := scanDeal(conn(ctx, r.pool).QueryRow(ctx, query, id), &deal); err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *dealRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM deals WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *dealRepository) List(ctx context.Context, filter DealFilter) ([]domain.Deal, error) {
	clauses := []string{"1=1"}
	args := []any{}

	joins := ""
	if filter.AgentID != nil {
		joins = " JOIN clients c ON c.id = d.client_id"
		args = append(args, *filter.AgentID)
		clauses = append(clauses, fmt.Sprintf("c.agent_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("d.status=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM deals d%s WHERE %s ORDER BY d.created_at DESC LIMIT %d OFFSET %d`,
		dealColumns, joins, strings.Join(clauses, " AND "), limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDeals(rows)
}

func (r *dealRepository) ListByClient(ctx context.Context, clientID int64) ([]domain.Deal, error) {
	const query = `SELECT ` + dealColumns + ` FROM deals d WHERE d.client_id=$1 ORDER BY d.created_at DESC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDeals(rows)
}

func (r *dealRepository) ListByProperty(ctx context.Context, propertyID int64) ([]domain.Deal, error) {
	const query = `SELECT ` + dealColumns + ` FROM deals d WHERE d.property_id=$1 ORDER BY d.created_at DESC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDeals(rows)
}

func (r *dealRepository) CountActiveByAgent(ctx context.Context, agentID int64) (int64, error) {
	const query = `
        SELECT COUNT(*)
        FROM deals d
        JOIN clients c ON c.id = d.client_id
        WHERE c.agent_id=$1 AND d.status IN ('initiated','negotiation','under_contract')`
	var count int64
	err := conn(ctx, r.pool).QueryRow(ctx, query, agentID).Scan(&count)
	return count, err
}

func (r *dealRepository) ListClosedByAgent(ctx context.Context, agentID int64) ([]domain.Deal, error) {
	const query = `
        SELECT ` + dealColumns + `
        FROM deals d
        JOIN clients c ON c.id = d.client_id
        WHERE c.agent_id=$1 AND d.status='closed'
        ORDER BY d.closing_date`
	rows, err := conn(ctx, r.pool).Query(ctx, query, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDeals(rows)
}

func scanDeals(rows pgx.Rows) ([]domain.Deal, error) {
	var result []domain.Deal
	for rows.Next() {
		var deal domain.Deal
		if err := scanDeal(rows, &deal); err != nil {
			return nil, err
		}
		result = append(result, deal)
	}
	return result, rows.Err()
}

func scanDeal(row pgx.Row, deal *domain.Deal) error {
	return row.Scan(
		&deal.ID,
		&deal.ClientID,
		&deal.PropertyID,
		&deal.Status,
		&deal.OfferPrice,
		&deal.FinalPrice,
		&deal.CommissionRate,
		&deal.ClosingDate,
		&deal.Notes,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)
}
