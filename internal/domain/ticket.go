package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates triage urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// Field limits shared by validation tags and storage columns.
const (
	TitleMaxLength       = 100
	DescriptionMaxLength = 1000
	CommentMaxLength     = 1000
)

// TicketTransitions is the adjacency map of legal status changes.
var TicketTransitions = map[TicketStatus]map[TicketStatus]struct{}{
	TicketStatusOpen: {
		TicketStatusInProgress: {},
		TicketStatusClosed:     {},
	},
	TicketStatusInProgress: {
		TicketStatusClosed: {},
	},
	TicketStatusClosed: {},
}

// TicketStatuses lists every status in lifecycle order.
func TicketStatuses() []TicketStatus {
	return []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed}
}

// TicketPriorities lists every priority from lowest to highest.
func TicketPriorities() []TicketPriority {
	return []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh}
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	_, ok := TicketTransitions[s]
	return ok
}

// CanTransition reports whether moving from s to next is allowed.
func (s TicketStatus) CanTransition(next TicketStatus) bool {
	_, ok := TicketTransitions[s][next]
	return ok
}

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID           string
	Title        string
	Description  string
	Status       TicketStatus
	Priority     TicketPriority
	CreatorID    string
	AssigneeID   *string
	AssigneeName string
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsClosed reports whether the ticket reached its terminal state.
func (t *Ticket) IsClosed() bool {
	return t.Status == TicketStatusClosed
}

// IsAssignedTo reports whether userID is the current assignee.
func (t *Ticket) IsAssignedTo(userID string) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// IsParticipant reports whether userID created the ticket or currently holds it.
func (t *Ticket) IsParticipant(userID string) bool {
	return t.CreatorID == userID || t.IsAssignedTo(userID)
}
