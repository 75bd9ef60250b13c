package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssignedByUserID string `json:"assigned_by_user_id"`
	AssignedToUserID string `json:"assigned_to_user_id"`
}

// AssignmentResponse describes a stored assignment.
type AssignmentResponse struct {
	AssignmentID string    `json:"assignment_id"`
	TicketID     string    `json:"ticket_id"`
	AssignedTo   string    `json:"assigned_to"`
	AssignedBy   string    `json:"assigned_by"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewAssignmentResponse(a *domain.TicketAssignment) AssignmentResponse {
	return AssignmentResponse{
		AssignmentID: a.ID,
		TicketID:     a.TicketID,
		AssignedTo:   a.AssignedToID,
		AssignedBy:   a.AssignedByID,
		CreatedAt:    a.CreatedAt,
	}
}

func NewAssignmentResponses(history []domain.TicketAssignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(history))
	for i := range history {
		out = append(out, NewAssignmentResponse(&history[i]))
	}
	return out
}
