package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infinitetechnologys/crm/internal/domain"
)

// InteractionRepository persists client interaction log entries.
// Interactions are write-once; there is no update or single delete.
type InteractionRepository interface {
	Create(ctx context.Context, interaction *domain.Interaction) error
	ListByClient(ctx context.Context, clientID int64) ([]domain.Interaction, error)
}

type interactionRepository struct {
	pool *pgxpool.Pool
}

// NewInteractionRepository instantiates the repository.
func NewInteractionRepository(pool *pgxpool.Pool) InteractionRepository {
	return &interactionRepository{pool: pool}
}

func (r *interactionRepository) Create(ctx context.Context, interaction *domain.Interaction) error {
	const query = `
        INSERT INTO interactions (client_id, interaction_type, subject, notes)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		interaction.ClientID,
		interaction.Type,
		interaction.Subject,
		interaction.Notes,
	).Scan(&interaction.ID, &interaction.CreatedAt)
}

func (r *interactionRepository) ListByClient(ctx context.Context, clientID int64) ([]domain.Interaction, error) {
	const query = `
        SELECT id, client_id, interaction_type, subject, notes, created_at
        FROM interactions WHERE client_id=$1 ORDER BY created_at DESC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Interaction
	for rows.Next() {
		var interaction domain.Interaction
		if err := rows.Scan(
			&interaction.ID,
			&interaction.ClientID,
			&interaction.Type,
			&interaction.Subject,
			&interaction.Notes,
			&interaction.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, interaction)
	}
	return result, rows.Err()
}
