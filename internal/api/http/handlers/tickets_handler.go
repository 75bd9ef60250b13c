package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// TicketsHandler manages ticket, comment and assignment endpoints.
type TicketsHandler struct {
	tickets     *service.TicketService
	assignments *service.AssignmentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, assignmentService *service.AssignmentService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, assignments: assignmentService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	ticket, err := h.tickets.CreateTicket(c.UserContext(), principal.ID(), service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("ticket created", dto.NewTicketCreatedResponse(ticket)))
}

// GetTicket GET /api/tickets/:id. The view depends on the caller's role.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticketID, err := ticketIDParam(c)
	if err != nil {
		return err
	}

	switch principal.Role() {
	case domain.RoleCustomer:
		ticket, err := h.tickets.GetTicketForCustomer(c.UserContext(), principal.ID(), ticketID)
		if err != nil {
			return err
		}
		return c.JSON(dto.OK("ticket fetched", dto.NewCustomerTicketView(ticket)))
	case domain.RoleSupportAgent:
		ticket, err := h.tickets.GetTicketForAgent(c.UserContext(), principal.ID(), ticketID)
		if err != nil {
			return err
		}
		return c.JSON(dto.OK("ticket fetched", dto.NewAgentTicketView(ticket)))
	}
	return apperrors.NewRoleMismatch("unsupported role")
}

// UpdateTicket PATCH /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticketID, err := ticketIDParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	input, err := req.ToInput()
	if err != nil {
		return err
	}

	ticket, err := h.tickets.UpdateTicket(c.UserContext(), principal.ID(), ticketID, input)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("ticket updated", dto.NewTicketUpdatedResponse(ticket)))
}

// AddComment POST /api/tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticketID, err := ticketIDParam(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	comment, err := h.tickets.AddComment(c.UserContext(), principal.ID(), ticketID, req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("comment added", dto.NewCommentCreatedResponse(comment)))
}

// ListComments GET /api/tickets/:id/comments.
func (h *TicketsHandler) ListComments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticketID, err := ticketIDParam(c)
	if err != nil {
		return err
	}

	comments, err := h.tickets.ListComments(c.UserContext(), principal.ID(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("comments fetched", dto.NewCommentViews(comments)))
}

// AssignTicket POST /api/tickets/:id/assign. The acting agent is taken from the body.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticketID, err := ticketIDParam(c)
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.AssignedByUserID == "" || req.AssignedToUserID == "" {
		return apperrors.NewBadRequest("assigned_by_user_id and assigned_to_user_id are required")
	}

	assignment, err := h.assignments.AssignTicket(c.UserContext(), ticketID, req.AssignedByUserID, req.AssignedToUserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("ticket assigned", dto.NewAssignmentResponse(assignment)))
}

// ListAssignments GET /api/tickets/:id/assignments.
func (h *TicketsHandler) ListAssignments(c *fiber.Ctx) error {
	ticketID, err := ticketIDParam(c)
	if err != nil {
		return err
	}
	history, err := h.assignments.History(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("assignments fetched", dto.NewAssignmentResponses(history)))
}

func ticketIDParam(c *fiber.Ctx) (string, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", apperrors.NewInvalidParameter("id")
	}
	return id.String(), nil
}
