package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTicketRequest payload. Absent fields are left untouched.
type UpdateTicketRequest struct {
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

// ToInput parses enum fields, rejecting unknown values.
func (r UpdateTicketRequest) ToInput() (service.TicketUpdateInput, error) {
	input := service.TicketUpdateInput{Description: r.Description}
	if r.Status != nil {
		status := domain.TicketStatus(normalizeEnum(*r.Status))
		if !status.Valid() {
			return input, invalidEnum("status", *r.Status)
		}
		input.Status = &status
	}
	if r.Priority != nil {
		priority := domain.TicketPriority(normalizeEnum(*r.Priority))
		if !priority.Valid() {
			return input, invalidEnum("priority", *r.Priority)
		}
		input.Priority = &priority
	}
	return input, nil
}

// TicketCreatedResponse is returned from ticket creation.
type TicketCreatedResponse struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       domain.TicketStatus `json:"status"`
	AssigneeName string              `json:"assignee_name"`
	CreatedAt    time.Time           `json:"created_at"`
}

// CustomerTicketView is what a ticket's creator sees.
type CustomerTicketView struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       domain.TicketStatus `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	AssigneeName string              `json:"assignee_name"`
}

// AgentTicketView is what support agents see.
type AgentTicketView struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	CreatedAt   time.Time             `json:"created_at"`
}

// TicketUpdatedResponse is returned after a successful update.
type TicketUpdatedResponse struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func NewTicketCreatedResponse(t *domain.Ticket) TicketCreatedResponse {
	return TicketCreatedResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		AssigneeName: t.AssigneeName,
		CreatedAt:    t.CreatedAt,
	}
}

func NewCustomerTicketView(t *domain.Ticket) CustomerTicketView {
	return CustomerTicketView{
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		CreatedAt:    t.CreatedAt,
		AssigneeName: t.AssigneeName,
	}
}

func NewAgentTicketView(t *domain.Ticket) AgentTicketView {
	return AgentTicketView{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
	}
}

func NewTicketUpdatedResponse(t *domain.Ticket) TicketUpdatedResponse {
	return TicketUpdatedResponse{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func normalizeEnum(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func invalidEnum(field, raw string) error {
	return apperrors.NewInvalidEnumValue(field, raw)
}
