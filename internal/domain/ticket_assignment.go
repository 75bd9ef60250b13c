package domain

import "time"

// TicketAssignment is an immutable audit trail entry, one per successful assignment.
type TicketAssignment struct {
	ID           string
	TicketID     string
	AssignedByID string
	AssignedToID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
