package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infinitetechnologys/crm/internal/domain"
)

// PropertyFilter captures listing search parameters.
type PropertyFilter struct {
	AgentID      *int64
	Status       *domain.PropertyStatus
	PropertyType *string
	ListingType  *domain.ListingType
	Search       *string
	Limit        int
	Offset       int
}

// PropertyRepository encapsulates property persistence.
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	Update(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter PropertyFilter) ([]domain.Property, error)
	CountByAgent(ctx context.Context, agentID int64) (int64, error)
	ListRecentByAgent(ctx context.Context, agentID int64, limit int) ([]domain.Property, error)
}

type propertyRepository struct {
	pool *pgxpool.Pool
}

// NewPropertyRepository instantiates the repository.
func NewPropertyRepository(pool *pgxpool.Pool) PropertyRepository {
	return &propertyRepository{pool: pool}
}

const propertyColumns = `id, title, property_type, status, listing_type, price, address, city,
               state, zip_code, bedrooms, bathrooms, sqft, lot_size, year_built,
               description, features, agent_id, created_at, updated_at`

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	const query = `
        INSERT INTO properties (title, property_type, status, listing_type, price, address, city,
            state, zip_code, bedrooms, bathrooms, sqft, lot_size, year_built, description, features, agent_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        RETURNING id, created_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		property.Title,
		property.PropertyType,
		property.Status,
		property.ListingType,
		property.Price,
		property.Address,
		property.City,
		property.State,
		property.ZipCode,
		property.Bedrooms,
		property.Bathrooms,
		property.Sqft,
		property.LotSize,
		property.YearBuilt,
		property.Description,
		property.Features,
		property.AgentID,
	).Scan(&property.ID, &property.CreatedAt, &property.UpdatedAt)
}

func (r *propertyRepository) Update(ctx context.Context, property *domain.Property) error {
	const query = `
        UPDATE properties SET title=$1, property_type=$2, status=$3, listing_type=$4, price=$5,
            address=$6, city=$7, state=$8, zip_code=$9, bedrooms=$10, bathrooms=$11, sqft=$12,
            lot_size=$13, year_built=$14, description=$15, features=$16, updated_at=NOW()
        WHERE id=$17`
	cmd, err := conn(ctx, r.pool).Exec(ctx, query,
		property.Title,
		property.PropertyType,
		property.Status,
		property.ListingType,
		property.Price,
		property.Address,
		property.City,
		property.State,
		property.ZipCode,
		property.Bedrooms,
		property.Bathrooms,
		property.Sqft,
		property.LotSize,
		property.YearBuilt,
		property.Description,
		property.Features,
		property.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE id=$1`, propertyColumns)
	var property domain.Property
	if err := scanProperty(conn(ctx, r.pool).QueryRow(ctx, query, id), &property); err != nil {
		return nil, err
	}
	return &property, nil
}

// Delete removes the property; showings are removed by the cascading
// foreign key.
func (r *propertyRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM properties WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyRepository) List(ctx context.Context, filter PropertyFilter) ([]domain.Property, error) {
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
	if filter.PropertyType != nil {
		args = append(args, *filter.PropertyType)
		clauses = append(clauses, fmt.Sprintf("property_type=$%d", len(args)))
	}
	if filter.ListingType != nil {
		args = append(args, *filter.ListingType)
		clauses = append(clauses, fmt.Sprintf("listing_type=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		ph := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(title) LIKE %s OR LOWER(address) LIKE %s OR LOWER(city) LIKE %s)", ph, ph, ph))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM properties WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		propertyColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProperties(rows)
}

func (r *propertyRepository) CountByAgent(ctx context.Context, agentID int64) (int64, error) {
	var count int64
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM properties WHERE agent_id=$1`, agentID).Scan(&count)
	return count, err
}

func (r *propertyRepository) ListRecentByAgent(ctx context.Context, agentID int64, limit int) ([]domain.Property, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE agent_id=$1 ORDER BY created_at DESC LIMIT %d`,
		propertyColumns, limit)
	rows, err := conn(ctx, r.pool).Query(ctx, query, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProperties(rows)
}

func scanProperties(rows pgx.Rows) ([]domain.Property, error) {
	var result []domain.Property
	for rows.Next() {
		var property domain.Property
		if err := scanProperty(rows, &property); err != nil {
			return nil, err
		}
		result = append(result, property)
	}
	return result, rows.Err()
}

func scanProperty(row pgx.Row, property *domain.Property) error {
	return row.Scan(
		&property.ID,
		&property.Title,
		&property.PropertyType,
		&property.Status,
		&property.ListingType,
		&property.Price,
		&property.Address,
		&property.City,
		&property.State,
		&property.ZipCode,
		&property.Bedrooms,
		&property.Bathrooms,
		&property.Sqft,
		&property.LotSize,
		&property.YearBuilt,
		&property.Description,
		&property.Features,
		&property.AgentID,
		&property.CreatedAt,
		&property.UpdatedAt,
	)
}
