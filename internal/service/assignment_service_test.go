package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

func newAssignmentService(s *store, rec *recorder) *AssignmentService {
	repos := s.repositories()
	deps := AssignmentDependencies{
		UserRepo:       repos.Users,
		TicketRepo:     repos.Tickets,
		AssignmentRepo: repos.Assignments,
		Logger:         zap.NewNop(),
	}
	if rec != nil {
		deps.Dispatcher = rec
	}
	return NewAssignmentService(deps)
}

func TestAssignTicketReassignmentChain(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	rec := &recorder{}
	svc := newAssignmentService(s, rec)
	customer := s.addUser("Ana", domain.RoleCustomer)
	a1 := s.addUser("A1", domain.RoleSupportAgent)
	a2 := s.addUser("A2", domain.RoleSupportAgent)
	a3 := s.addUser("A3", domain.RoleSupportAgent)
	ticket := s.addTicket(customer, a1, domain.TicketStatusOpen)

	assignment, err := svc.AssignTicket(ctx, ticket.ID, a1.ID, a2.ID)
	if err != nil {
		t.Fatalf("AssignTicket() error = %v", err)
	}
	if assignment.ID == "" || assignment.TicketID != ticket.ID || assignment.AssignedToID != a2.ID || assignment.AssignedByID != a1.ID {
		t.Fatalf("assignment = %+v", assignment)
	}
	if stored := s.ticket(ticket.ID); !stored.IsAssignedTo(a2.ID) {
		t.Fatalf("assignee = %v, want A2", stored.AssigneeID)
	}
	if s.assignmentCount() != 1 {
		t.Fatalf("audit rows = %d, want 1", s.assignmentCount())
	}

	_, err = svc.AssignTicket(ctx, ticket.ID, a1.ID, a3.ID)
	wantCode(t, err, apperrors.CodeRoleMismatch)
	if s.assignmentCount() != 1 {
		t.Fatalf("audit rows after rejection = %d, want 1", s.assignmentCount())
	}

	if _, err := svc.AssignTicket(ctx, ticket.ID, a2.ID, a3.ID); err != nil {
		t.Fatalf("A2 handover error = %v", err)
	}
	history, err := svc.History(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 || history[1].AssignedToID != a3.ID {
		t.Fatalf("history = %+v", history)
	}

	got := rec.types()
	if len(got) != 2 || got[0] != events.EventTicketAssigned {
		t.Fatalf("events = %v", got)
	}
	payload, ok := rec.events[0].Payload.(events.TicketAssignedPayload)
	if !ok || payload.PreviousAssigneeID == nil || *payload.PreviousAssigneeID != a1.ID {
		t.Fatalf("payload = %+v", rec.events[0].Payload)
	}
}

func TestAssignTicketSelfAssignmentBeforeLookup(t *testing.T) {
	s := newStore()
	svc := newAssignmentService(s, nil)

	_, err := svc.AssignTicket(context.Background(), "no-such-ticket", "user-x", "user-x")
	wantCode(t, err, apperrors.CodeInvalidAssignment)
	if s.lookups != 0 {
		t.Fatalf("lookups = %d, want none", s.lookups)
	}
}

func TestAssignTicketRejections(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	svc := newAssignmentService(s, nil)
	customer := s.addUser("Ana", domain.RoleCustomer)
	a1 := s.addUser("A1", domain.RoleSupportAgent)
	a2 := s.addUser("A2", domain.RoleSupportAgent)
	open := s.addTicket(customer, a1, domain.TicketStatusOpen)
	closed := s.addTicket(customer, a1, domain.TicketStatusClosed)
	unassigned := s.addTicket(customer, nil, domain.TicketStatusOpen)

	tests := []struct {
		name   string
		ticket string
		by     string
		to     string
		code   string
	}{
		{name: "missing ticket", ticket: "missing", by: a1.ID, to: a2.ID, code: apperrors.CodeNotFound},
		{name: "missing assigner", ticket: open.ID, by: "ghost", to: a2.ID, code: apperrors.CodeNotFound},
		{name: "missing assignee", ticket: open.ID, by: a1.ID, to: "ghost", code: apperrors.CodeNotFound},
		{name: "closed", ticket: closed.ID, by: a1.ID, to: a2.ID, code: apperrors.CodeTicketClosed},
		{name: "customer target", ticket: open.ID, by: a1.ID, to: customer.ID, code: apperrors.CodeRoleMismatch},
		{name: "customer assigner", ticket: unassigned.ID, by: customer.ID, to: a1.ID, code: apperrors.CodeRoleMismatch},
		{name: "not current assignee", ticket: open.ID, by: a2.ID, to: a1.ID, code: apperrors.CodeRoleMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AssignTicket(ctx, tt.ticket, tt.by, tt.to)
			wantCode(t, err, tt.code)
		})
	}
	if s.assignmentCount() != 0 {
		t.Fatalf("audit rows = %d, want 0", s.assignmentCount())
	}

	if _, err := svc.AssignTicket(ctx, unassigned.ID, a2.ID, a1.ID); err != nil {
		t.Fatalf("claiming an unassigned ticket error = %v", err)
	}
}

func TestAssignTicketLostRace(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	customer := s.addUser("Ana", domain.RoleCustomer)
	a1 := s.addUser("A1", domain.RoleSupportAgent)
	a2 := s.addUser("A2", domain.RoleSupportAgent)
	ticket := s.addTicket(customer, a1, domain.TicketStatusOpen)

	stale := *ticket
	if _, err := newAssignmentService(s, nil).AssignTicket(ctx, ticket.ID, a1.ID, a2.ID); err != nil {
		t.Fatalf("AssignTicket() error = %v", err)
	}
	err := (memAssignments{s}).Assign(ctx, &stale, &domain.TicketAssignment{AssignedByID: a1.ID, AssignedToID: a1.ID})
	wantCode(t, apperrors.MapError(err), apperrors.CodeConflict)
	if s.assignmentCount() != 1 {
		t.Fatalf("audit rows = %d, want 1", s.assignmentCount())
	}
}
