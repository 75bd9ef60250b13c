package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/validation"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

var (
	titleRules       = fmt.Sprintf("notblank,max=%d,notnumeric", domain.TitleMaxLength)
	descriptionRules = fmt.Sprintf("notblank,max=%d,notnumeric", domain.DescriptionMaxLength)
	commentRules     = fmt.Sprintf("notblank,max=%d", domain.CommentMaxLength)
)

// TicketService coordinates ticket and comment workflows.
type TicketService struct {
	users    repository.UserRepository
	tickets  repository.TicketRepository
	comments repository.CommentRepository
	events   publisher
	now      func() time.Time
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	UserRepo    repository.UserRepository
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		users:    deps.UserRepo,
		tickets:  deps.TicketRepo,
		comments: deps.CommentRepo,
		events:   publisher{dispatcher: deps.Dispatcher, logger: deps.Logger},
		now:      utcNow,
	}
}

// CreateTicket opens a ticket for a customer and hands it to the first available agent.
func (s *TicketService) CreateTicket(ctx context.Context, creatorID string, input TicketCreateInput) (*domain.Ticket, error) {
	if err := validation.Var("title", input.Title, titleRules); err != nil {
		return nil, err
	}
	if err := validation.Var("description", input.Description, descriptionRules); err != nil {
		return nil, err
	}

	creator, err := s.users.GetByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewRoleMismatch("only customers can create tickets")
		}
		return nil, apperrors.MapError(err)
	}
	if creator.Role != domain.RoleCustomer {
		return nil, apperrors.NewRoleMismatch("only customers can create tickets")
	}

	agent, err := s.users.FindFirstByRole(ctx, domain.RoleSupportAgent)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNoAgentAvailable()
		}
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.TicketStatusOpen,
		Priority:     domain.TicketPriorityMedium,
		CreatorID:    creator.ID,
		AssigneeID:   &agent.ID,
		AssigneeName: agent.Name,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.events.publish(ctx, events.NewEvent(events.EventTicketCreated, ticket.ID, creator, events.TicketCreatedPayload{
		Title:      ticket.Title,
		Priority:   ticket.Priority,
		AssigneeID: agent.ID,
	}))
	return ticket, nil
}

// GetTicketForCustomer returns a ticket the customer created.
func (s *TicketService) GetTicketForCustomer(ctx context.Context, customerID, ticketID string) (*domain.Ticket, error) {
	if err := s.requireRole(ctx, customerID, domain.RoleCustomer); err != nil {
		return nil, err
	}
	ticket, err := findTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CreatorID != customerID {
		return nil, apperrors.NewAccessDenied("you can only view tickets you created")
	}
	return ticket, nil
}

// GetTicketForAgent returns any ticket to a support agent.
func (s *TicketService) GetTicketForAgent(ctx context.Context, agentID, ticketID string) (*domain.Ticket, error) {
	if err := s.requireRole(ctx, agentID, domain.RoleSupportAgent); err != nil {
		return nil, err
	}
	return findTicket(ctx, s.tickets, ticketID)
}

// UpdateTicket applies a role-specific update to a ticket.
func (s *TicketService) UpdateTicket(ctx context.Context, callerID, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	if input.Description != nil {
		if err := validation.Var("description", *input.Description, descriptionRules); err != nil {
			return nil, err
		}
	}

	caller, err := findUser(ctx, s.users, callerID)
	if err != nil {
		return nil, err
	}
	ticket, err := findTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}

	update, err := NewTicketUpdate(caller.Role, input)
	if err != nil {
		return nil, err
	}

	oldStatus, oldPriority := ticket.Status, ticket.Priority
	if err := update.apply(ticket, caller.ID); err != nil {
		return nil, err
	}
	ticket.UpdatedAt = s.now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if ticket.Status != oldStatus {
		s.events.publish(ctx, events.NewEvent(events.EventTicketStatusChanged, ticket.ID, caller, events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
		}))
	}
	if ticket.Priority != oldPriority {
		s.events.publish(ctx, events.NewEvent(events.EventTicketPriorityChanged, ticket.ID, caller, events.TicketPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: ticket.Priority,
		}))
	}
	return ticket, nil
}

// AddComment appends a comment from the ticket's creator or current assignee.
func (s *TicketService) AddComment(ctx context.Context, callerID, ticketID, body string) (*domain.Comment, error) {
	if err := validation.Var("body", body, commentRules); err != nil {
		return nil, err
	}

	caller, err := findUser(ctx, s.users, callerID)
	if err != nil {
		return nil, err
	}
	ticket, err := findTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.IsParticipant(caller.ID) {
		return nil, apperrors.NewAccessDenied("only the ticket creator or assignee can comment")
	}
	if ticket.IsClosed() {
		return nil, apperrors.NewAccessDenied("ticket is closed")
	}

	comment := &domain.Comment{
		TicketID:   ticket.ID,
		AuthorID:   caller.ID,
		AuthorName: caller.Name,
		Body:       strings.TrimSpace(body),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.events.publish(ctx, events.NewEvent(events.EventCommentAdded, ticket.ID, caller, events.CommentAddedPayload{
		CommentID:   comment.ID,
		AuthorID:    caller.ID,
		BodyPreview: stringPreview(comment.Body, previewLength),
	}))
	return comment, nil
}

// ListComments returns the ticket's comments in creation order. Closed tickets stay readable.
func (s *TicketService) ListComments(ctx context.Context, callerID, ticketID string) ([]domain.Comment, error) {
	ticket, err := findTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.IsParticipant(callerID) {
		return nil, apperrors.NewAccessDenied("only the ticket creator or assignee can view comments")
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

func (s *TicketService) requireRole(ctx context.Context, userID string, role domain.Role) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewRoleMismatch(fmt.Sprintf("caller must be a %s", role))
		}
		return apperrors.MapError(err)
	}
	if user.Role != role {
		return apperrors.NewRoleMismatch(fmt.Sprintf("caller must be a %s", role))
	}
	return nil
}
