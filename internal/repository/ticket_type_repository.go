package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chamado-hub/helpdesk/internal/domain"
)

// TicketTypeRepository encapsulates ticket type persistence.
type TicketTypeRepository interface {
	Create(ctx context.Context, ticketType *domain.TicketType) error
	Update(ctx context.Context, ticketType *domain.TicketType) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.TicketType, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.TicketType, error)
}

type ticketTypeRepository struct {
	pool *pgxpool.Pool
}

// NewTicketTypeRepository instantiates repository.
func NewTicketTypeRepository(pool *pgxpool.Pool) TicketTypeRepository {
	return &ticketTypeRepository{pool: pool}
}

func (r *ticketTypeRepository) Create(ctx context.Context, ticketType *domain.TicketType) error {
	const query = `
        INSERT INTO ticket_types (company_id, name, sla_response_hours, sla_solution_hours)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticketType.CompanyID,
		ticketType.Name,
		ticketType.SLAResponseHours,
		ticketType.SLASolutionHours,
	).Scan(&ticketType.ID, &ticketType.CreatedAt, &ticketType.UpdatedAt)
}

func (r *ticketTypeRepository) Update(ctx context.Context, ticketType *domain.TicketType) error {
	// Changing SLA durations only affects tickets created afterwards;
	// existing deadlines are never restamped.
	const query = `
        UPDATE ticket_types SET name=$1, sla_response_hours=$2, sla_solution_hours=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		ticketType.Name,
		ticketType.SLAResponseHours,
		ticketType.SLASolutionHours,
		ticketType.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketTypeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM ticket_types WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketTypeRepository) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	const query = `
        SELECT id, company_id, name, sla_response_hours, sla_solution_hours, created_at, updated_at
        FROM ticket_types WHERE id=$1`
	var ticketType domain.TicketType
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticketType.ID,
		&ticketType.CompanyID,
		&ticketType.Name,
		&ticketType.SLAResponseHours,
		&ticketType.SLASolutionHours,
		&ticketType.CreatedAt,
		&ticketType.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticketType, nil
}

func (r *ticketTypeRepository) ListByCompany(ctx context.Context, companyID string) ([]domain.TicketType, error) {
	const query = `
        SELECT id, company_id, name, sla_response_hours, sla_solution_hours, created_at, updated_at
        FROM ticket_types WHERE company_id=$1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketType
	for rows.Next() {
		var ticketType domain.TicketType
		if err := rows.Scan(
			&ticketType.ID,
			&ticketType.CompanyID,
			&ticketType.Name,
			&ticketType.SLAResponseHours,
			&ticketType.SLASolutionHours,
			&ticketType.CreatedAt,
			&ticketType.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticketType)
	}
	return result, rows.Err()
}
