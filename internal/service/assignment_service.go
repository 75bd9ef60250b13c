package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// AssignmentService handles ticket assignment and reassignment between agents.
type AssignmentService struct {
	users       repository.UserRepository
	tickets     repository.TicketRepository
	assignments repository.TicketAssignmentRepository
	events      publisher
	now         func() time.Time
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	UserRepo       repository.UserRepository
	TicketRepo     repository.TicketRepository
	AssignmentRepo repository.TicketAssignmentRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		users:       deps.UserRepo,
		tickets:     deps.TicketRepo,
		assignments: deps.AssignmentRepo,
		events:      publisher{dispatcher: deps.Dispatcher, logger: deps.Logger},
		now:         utcNow,
	}
}

// AssignTicket moves a ticket from assignedByID to assignedToID. An unassigned ticket may be
// claimed by any agent; otherwise only the current assignee can hand it over.
func (s *AssignmentService) AssignTicket(ctx context.Context, ticketID, assignedByID, assignedToID string) (*domain.TicketAssignment, error) {
	if assignedByID == assignedToID {
		return nil, apperrors.NewInvalidAssignment("a user cannot assign a ticket to themselves")
	}

	ticket, err := findTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}
	assignedBy, err := findUser(ctx, s.users, assignedByID)
	if err != nil {
		return nil, err
	}
	assignedTo, err := findUser(ctx, s.users, assignedToID)
	if err != nil {
		return nil, err
	}

	if ticket.IsClosed() {
		return nil, apperrors.NewTicketClosed("ticket status is CLOSED, so it cannot be assigned")
	}
	if assignedBy.Role != domain.RoleSupportAgent || assignedTo.Role != domain.RoleSupportAgent {
		return nil, apperrors.NewRoleMismatch("both users must be support agents")
	}
	if ticket.AssigneeID != nil && !ticket.IsAssignedTo(assignedBy.ID) {
		return nil, apperrors.NewRoleMismatch("only the currently assigned user can reassign")
	}

	previous := ticket.AssigneeID
	ticket.UpdatedAt = s.now()
	assignment := &domain.TicketAssignment{
		TicketID:     ticket.ID,
		AssignedByID: assignedBy.ID,
		AssignedToID: assignedTo.ID,
	}
	if err := s.assignments.Assign(ctx, ticket, assignment); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.AssigneeName = assignedTo.Name

	s.events.publish(ctx, events.NewEvent(events.EventTicketAssigned, ticket.ID, assignedBy, events.TicketAssignedPayload{
		AssignmentID:       assignment.ID,
		PreviousAssigneeID: previous,
		AssigneeID:         assignedTo.ID,
		AssignedByID:       assignedBy.ID,
	}))
	return assignment, nil
}

// History lists the audit trail for a ticket, oldest first.
func (s *AssignmentService) History(ctx context.Context, ticketID string) ([]domain.TicketAssignment, error) {
	ticket, err := findTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}
	history, err := s.assignments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return history, nil
}
