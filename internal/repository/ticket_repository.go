package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chamado-hub/helpdesk/internal/domain"
)

// TicketFilter captures listing parameters for staff search and the
// company-scoped client listing.
type TicketFilter struct {
	CompanyID   *string
	AuthorID    *string
	AssigneeID  *string
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	CodeSearch  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence, including the queries
// the SLA jobs and the dashboard need.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountWithFilter(ctx context.Context, filter TicketFilter) (int, error)

	// SLA job queries.
	ListActiveWithDeadlines(ctx context.Context) ([]domain.Ticket, error)
	ListCritical(ctx context.Context) ([]domain.Ticket, error)
	UpdateSLAStatus(ctx context.Context, ticketID string, status domain.SLAStatus) error

	// Dashboard aggregates.
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
	CountClosedBetween(ctx context.Context, from, to time.Time) (int, error)
	CountByStatuses(ctx context.Context, statuses ...domain.TicketStatus) (int, error)
	CountBySLAStatus(ctx context.Context) (map[domain.SLAStatus]int, error)
	AverageResponseHours(ctx context.Context, from, to time.Time) (float64, error)
	AverageResolutionHours(ctx context.Context, from, to time.Time) (float64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, code, company_id, author_id, assignee_id, ticket_type_id, title, priority, status,
               first_response_at, closed_at, sla_response_deadline, sla_solution_deadline, sla_status,
               rating, rating_comment, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (code, company_id, author_id, assignee_id, ticket_type_id, title, priority, status,
                             sla_response_deadline, sla_solution_deadline, sla_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Code,
		ticket.CompanyID,
		ticket.AuthorID,
		ticket.AssigneeID,
		ticket.TicketTypeID,
		ticket.Title,
		ticket.Priority,
		ticket.Status,
		ticket.SLAResponseDeadline,
		ticket.SLASolutionDeadline,
		ticket.SLAStatus,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	// The SLA deadlines are immutable after creation and deliberately
	// excluded here.
	const query = `
        UPDATE tickets SET assignee_id=$1, title=$2, priority=$3, status=$4, first_response_at=$5,
            closed_at=$6, sla_status=$7, rating=$8, rating_comment=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.AssigneeID,
		ticket.Title,
		ticket.Priority,
		ticket.Status,
		ticket.FirstResponseAt,
		ticket.ClosedAt,
		ticket.SLAStatus,
		ticket.Rating,
		ticket.RatingComment,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE code=$1`, code)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	ticket, err := scanTicketRow(row)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses, args := buildTicketClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountWithFilter(ctx context.Context, filter TicketFilter) (int, error) {
	clauses, args := buildTicketClauses(filter)
	query := `SELECT COUNT(*) FROM tickets WHERE ` + strings.Join(clauses, " AND ")
	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func buildTicketClauses(filter TicketFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		clauses = append(clauses, fmt.Sprintf("company_id=$%d", len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		clauses = append(clauses, fmt.Sprintf("author_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, priority := range filter.Priorities {
			args = append(args, priority)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CodeSearch != nil && strings.TrimSpace(*filter.CodeSearch) != "" {
		args = append(args, "%"+strings.ToUpper(strings.TrimSpace(*filter.CodeSearch))+"%")
		clauses = append(clauses, fmt.Sprintf("code LIKE $%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	return clauses, args
}

func (r *ticketRepository) ListActiveWithDeadlines(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT ` + ticketColumns + `
        FROM tickets
        WHERE status NOT IN ('CLOSED','CANCELED')
          AND (sla_response_deadline IS NOT NULL OR sla_solution_deadline IS NOT NULL)`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListCritical(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT ` + ticketColumns + `
        FROM tickets
        WHERE status NOT IN ('CLOSED','CANCELED')
          AND sla_status IN ('NEARING_DEADLINE','BREACHED')
        ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) UpdateSLAStatus(ctx context.Context, ticketID string, status domain.SLAStatus) error {
	const query = `UPDATE tickets SET sla_status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE created_at BETWEEN $1 AND $2`
	var count int
	err := r.pool.QueryRow(ctx, query, from, to).Scan(&count)
	return count, err
}

func (r *ticketRepository) CountClosedBetween(ctx context.Context, from, to time.Time) (int, error) {
	const query = `
        SELECT COUNT(*) FROM tickets
        WHERE status='CLOSED' AND closed_at IS NOT NULL AND closed_at BETWEEN $1 AND $2`
	var count int
	err := r.pool.QueryRow(ctx, query, from, to).Scan(&count)
	return count, err
}

func (r *ticketRepository) CountByStatuses(ctx context.Context, statuses ...domain.TicketStatus) (int, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = status
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM tickets WHERE status IN (%s)`, strings.Join(placeholders, ","))
	var count int
	err := r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *ticketRepository) CountBySLAStatus(ctx context.Context) (map[domain.SLAStatus]int, error) {
	const query = `
        SELECT sla_status, COUNT(*) FROM tickets
        WHERE status NOT IN ('CLOSED','CANCELED')
        GROUP BY sla_status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.SLAStatus]int)
	for rows.Next() {
		var status domain.SLAStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}
	return result, rows.Err()
}

func (r *ticketRepository) AverageResponseHours(ctx context.Context, from, to time.Time) (float64, error) {
	const query = `
        SELECT AVG(EXTRACT(EPOCH FROM (first_response_at - created_at)) / 3600.0)
        FROM tickets
        WHERE first_response_at IS NOT NULL AND first_response_at BETWEEN $1 AND $2`
	return r.scanAverage(ctx, query, from, to)
}

func (r *ticketRepository) AverageResolutionHours(ctx context.Context, from, to time.Time) (float64, error) {
	const query = `
        SELECT AVG(EXTRACT(EPOCH FROM (closed_at - created_at)) / 3600.0)
        FROM tickets
        WHERE status='CLOSED' AND closed_at IS NOT NULL AND closed_at BETWEEN $1 AND $2`
	return r.scanAverage(ctx, query, from, to)
}

func (r *ticketRepository) scanAverage(ctx context.Context, query string, from, to time.Time) (float64, error) {
	var avg *float64
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&avg); err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func scanTicketRow(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.CompanyID,
		&ticket.AuthorID,
		&ticket.AssigneeID,
		&ticket.TicketTypeID,
		&ticket.Title,
		&ticket.Priority,
		&ticket.Status,
		&ticket.FirstResponseAt,
		&ticket.ClosedAt,
		&ticket.SLAResponseDeadline,
		&ticket.SLASolutionDeadline,
		&ticket.SLAStatus,
		&ticket.Rating,
		&ticket.RatingComment,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicketRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
