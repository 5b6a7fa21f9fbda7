package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chamado-hub/helpdesk/internal/domain"
)

// TicketUpdateRepository persists ticket thread messages and their file
// attachments.
type TicketUpdateRepository interface {
	Create(ctx context.Context, update *domain.TicketUpdate) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketUpdate, error)
}

type ticketUpdateRepository struct {
	pool *pgxpool.Pool
}

// NewTicketUpdateRepository instantiates repository.
func NewTicketUpdateRepository(pool *pgxpool.Pool) TicketUpdateRepository {
	return &ticketUpdateRepository{pool: pool}
}

func (r *ticketUpdateRepository) Create(ctx context.Context, update *domain.TicketUpdate) error {
	const query = `
        INSERT INTO ticket_updates (ticket_id, sender_id, content)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	if err := r.pool.QueryRow(ctx, query, update.TicketID, update.SenderID, update.Content).
		Scan(&update.ID, &update.CreatedAt); err != nil {
		return err
	}

	const fileQuery = `
        INSERT INTO ticket_update_files (ticket_update_id, file_url, file_name)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	for i := range update.Files {
		file := &update.Files[i]
		file.TicketUpdateID = update.ID
		if err := r.pool.QueryRow(ctx, fileQuery, file.TicketUpdateID, file.FileURL, file.FileName).
			Scan(&file.ID, &file.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *ticketUpdateRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketUpdate, error) {
	const query = `
        SELECT id, ticket_id, sender_id, content, created_at
        FROM ticket_updates
        WHERE ticket_id=$1
        ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updates []domain.TicketUpdate
	for rows.Next() {
		var u domain.TicketUpdate
		if err := rows.Scan(&u.ID, &u.TicketID, &u.SenderID, &u.Content, &u.CreatedAt); err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range updates {
		files, err := r.listFiles(ctx, updates[i].ID)
		if err != nil {
			return nil, err
		}
		updates[i].Files = files
	}
	return updates, nil
}

func (r *ticketUpdateRepository) listFiles(ctx context.Context, updateID string) ([]domain.TicketUpdateFile, error) {
	const query = `
        SELECT id, ticket_update_id, file_url, file_name, created_at
        FROM ticket_update_files
        WHERE ticket_update_id=$1
        ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, updateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []domain.TicketUpdateFile
	for rows.Next() {
		var f domain.TicketUpdateFile
		if err := rows.Scan(&f.ID, &f.TicketUpdateID, &f.FileURL, &f.FileName, &f.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
