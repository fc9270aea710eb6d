package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infinitetechnologys/crm/internal/domain"
)

// StaffFilter defines query params for staff listing.
type StaffFilter struct {
	ExcludeID *int64
	Role      *domain.Role
	Active    *bool
	Search    *string
	Limit     int
	Offset    int
}

// StaffRepository handles persistence for staff accounts.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffAccount) error
	Update(ctx context.Context, staff *domain.StaffAccount) error
	GetByID(ctx context.Context, id int64) (*domain.StaffAccount, error)
	GetByUsername(ctx context.Context, username string) (*domain.StaffAccount, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffAccount, error)
	List(ctx context.Context, filter StaffFilter) ([]domain.StaffAccount, error)
	Delete(ctx context.Context, id int64) error
	AdminExists(ctx context.Context) (bool, error)
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, username, email, password_hash, role, first_name, last_name,
               phone, position, hire_date, commission_rate, is_active, created_by, created_at`

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffAccount) error {
	const query = `
        INSERT INTO staff_accounts (username, email, password_hash, role, first_name, last_name,
            phone, position, hire_date, commission_rate, is_active, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		staff.Username,
		staff.Email,
		staff.PasswordHash,
		staff.Role,
		staff.FirstName,
		staff.LastName,
		staff.Phone,
		staff.Position,
		staff.HireDate,
		staff.CommissionRate,
		staff.Active,
		staff.CreatedBy,
	).Scan(&staff.ID, &staff.CreatedAt)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.StaffAccount) error {
	const query = `
        UPDATE staff_accounts
        SET username=$1, email=$2, password_hash=$3, role=$4, first_name=$5, last_name=$6,
            phone=$7, position=$8, hire_date=$9, commission_rate=$10, is_active=$11
        WHERE id=$12`
	cmd, err := conn(ctx, r.pool).Exec(ctx, query,
		staff.Username,
		staff.Email,
		staff.PasswordHash,
		staff.Role,
		staff.FirstName,
		staff.LastName,
		staff.Phone,
		staff.Position,
		staff.HireDate,
		staff.CommissionRate,
		staff.Active,
		staff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id int64) (*domain.StaffAccount, error) {
	return r.fetchSingle(ctx, "id=$1", id)
}

func (r *staffRepository) GetByUsername(ctx context.Context, username string) (*domain.StaffAccount, error) {
	return r.fetchSingle(ctx, "username=$1", username)
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffAccount, error) {
	return r.fetchSingle(ctx, "email=$1", email)
}

func (r *staffRepository) fetchSingle(ctx context.Context, where string, arg any) (*domain.StaffAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_accounts WHERE %s`, staffColumns, where)
	var staff domain.StaffAccount
	if err := scanStaff(conn(ctx, r.pool).QueryRow(ctx, query, arg), &staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.StaffAccount, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ExcludeID != nil {
		args = append(args, *filter.ExcludeID)
		clauses = append(clauses, fmt.Sprintf("id<>$%d", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		ph := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(username) LIKE %s OR LOWER(first_name) LIKE %s OR LOWER(last_name) LIKE %s OR LOWER(email) LIKE %s)",
			ph, ph, ph, ph))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM staff_accounts WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		staffColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffAccount
	for rows.Next() {
		var staff domain.StaffAccount
		if err := scanStaff(rows, &staff); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	return result, rows.Err()
}

func (r *staffRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM staff_accounts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM staff_accounts WHERE role='admin')`).Scan(&exists)
	return exists, err
}

func scanStaff(row pgx.Row, staff *domain.StaffAccount) error {
	return row.Scan(
		&staff.ID,
		&staff.Username,
		&staff.Email,
		&staff.PasswordHash,
		&staff.Role,
		&staff.FirstName,
		&staff.LastName,
		&staff.Phone,
		&staff.Position,
		&staff.HireDate,
		&staff.CommissionRate,
		&staff.Active,
		&staff.CreatedBy,
		&staff.CreatedAt,
	)
}
