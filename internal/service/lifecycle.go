package service

import (
	"fmt"
	"strings"

	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// TicketUpdateInput carries the optional fields of an update request.
type TicketUpdateInput struct {
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
}

// TicketUpdate is a role-specific update. Implementations are CustomerUpdate and AgentUpdate.
type TicketUpdate interface {
	apply(ticket *domain.Ticket, callerID string) error
}

// CustomerUpdate may change the description and close the ticket.
type CustomerUpdate struct {
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
}

// AgentUpdate may close the ticket and change its priority.
type AgentUpdate struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
}

// NewTicketUpdate selects the update variant for role.
func NewTicketUpdate(role domain.Role, input TicketUpdateInput) (TicketUpdate, error) {
	switch role {
	case domain.RoleCustomer:
		return CustomerUpdate{Description: input.Description, Status: input.Status, Priority: input.Priority}, nil
	case domain.RoleSupportAgent:
		return AgentUpdate{Status: input.Status, Priority: input.Priority}, nil
	}
	return nil, apperrors.NewRoleMismatch(fmt.Sprintf("role %q cannot update tickets", role))
}

func (u CustomerUpdate) apply(ticket *domain.Ticket, _ string) error {
	if u.Priority != nil {
		return apperrors.NewPriorityUpdateForbidden()
	}
	if u.Description == nil && u.Status == nil {
		return apperrors.NewBadRequest("description or status must be provided")
	}
	if u.Status != nil {
		if err := checkClose(ticket, *u.Status); err != nil {
			return err
		}
	}
	if ticket.IsClosed() {
		return apperrors.NewAlreadyClosed()
	}

	if u.Description != nil {
		ticket.Description = strings.TrimSpace(*u.Description)
	}
	if u.Status != nil {
		ticket.Status = domain.TicketStatusClosed
	}
	return nil
}

func (u AgentUpdate) apply(ticket *domain.Ticket, callerID string) error {
	if !ticket.IsAssignedTo(callerID) {
		return apperrors.NewAccessDenied("can only update tickets assigned to you")
	}
	if u.Status == nil && u.Priority == nil {
		return apperrors.NewBadRequest("status or priority must be provided")
	}
	if u.Status != nil {
		if err := checkClose(ticket, *u.Status); err != nil {
			return err
		}
	}
	if ticket.IsClosed() {
		return apperrors.NewAlreadyClosed()
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return apperrors.NewInvalidEnumValue("priority", string(*u.Priority))
	}

	if u.Status != nil {
		ticket.Status = domain.TicketStatusClosed
	}
	if u.Priority != nil {
		ticket.Priority = *u.Priority
	}
	return nil
}

// checkClose validates a requested status change. Updates may only close a ticket; an already
// closed ticket reports AlreadyClosed before the transition table is consulted.
func checkClose(ticket *domain.Ticket, requested domain.TicketStatus) error {
	if !requested.Valid() {
		return apperrors.NewInvalidEnumValue("status", string(requested))
	}
	if requested != domain.TicketStatusClosed {
		return apperrors.NewInvalidTransition("can only update status to CLOSED")
	}
	if ticket.IsClosed() {
		return apperrors.NewAlreadyClosed()
	}
	if !ticket.Status.CanTransition(requested) {
		return apperrors.NewInvalidTransition(fmt.Sprintf("cannot move ticket from %s to %s", ticket.Status, requested))
	}
	return nil
}
