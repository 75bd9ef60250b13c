package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// TicketAssignmentRepository stores the assignment audit trail.
//
// Assign moves the ticket to assignment.AssignedToID and appends the audit row in one
// transaction. The ticket write is guarded by ticket.Version like TicketRepository.Update.
type TicketAssignmentRepository interface {
	Assign(ctx context.Context, ticket *domain.Ticket, assignment *domain.TicketAssignment) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketAssignment, error)
}

type ticketAssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewTicketAssignmentRepository builds repository.
func NewTicketAssignmentRepository(pool *pgxpool.Pool) TicketAssignmentRepository {
	return &ticketAssignmentRepository{pool: pool}
}

func (r *ticketAssignmentRepository) Assign(ctx context.Context, ticket *domain.Ticket, assignment *domain.TicketAssignment) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin assignment tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const updateTicket = `
        UPDATE tickets SET assignee_id=$1, updated_at=$2, version=version+1
        WHERE id=$3 AND version=$4
        RETURNING version`
	var version int
	if err = tx.QueryRow(ctx, updateTicket,
		assignment.AssignedToID,
		ticket.UpdatedAt,
		ticket.ID,
		ticket.Version,
	).Scan(&version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrVersionConflict
			return err
		}
		err = translate(err)
		return err
	}

	const insertAudit = `
        INSERT INTO ticket_assignments (ticket_id, assigned_by_id, assigned_to_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	if err = tx.QueryRow(ctx, insertAudit,
		ticket.ID,
		assignment.AssignedByID,
		assignment.AssignedToID,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt); err != nil {
		err = translate(err)
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit assignment tx: %w", err)
	}
	assignee := assignment.AssignedToID
	ticket.AssigneeID = &assignee
	ticket.Version = version
	assignment.TicketID = ticket.ID
	return nil
}

func (r *ticketAssignmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketAssignment, error) {
	const query = `
        SELECT id, ticket_id, assigned_by_id, assigned_to_id, created_at, updated_at
        FROM ticket_assignments WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := make([]domain.TicketAssignment, 0)
	for rows.Next() {
		var a domain.TicketAssignment
		if err := rows.Scan(
			&a.ID,
			&a.TicketID,
			&a.AssignedByID,
			&a.AssignedToID,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
