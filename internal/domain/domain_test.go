package domain

import "testing"

func TestTicketStatusTransitions(t *testing.T) {
	allowed := map[[2]TicketStatus]bool{
		{TicketStatusOpen, TicketStatusInProgress}:   true,
		{TicketStatusOpen, TicketStatusClosed}:       true,
		{TicketStatusInProgress, TicketStatusClosed}: true,
	}
	for _, from := range TicketStatuses() {
		for _, to := range TicketStatuses() {
			want := allowed[[2]TicketStatus{from, to}]
			if got := from.CanTransition(to); got != want {
				t.Errorf("%s -> %s = %v, want %v", from, to, got, want)
			}
		}
	}
	if TicketStatus("REOPENED").Valid() {
		t.Error("unknown status reported valid")
	}
	if TicketStatus("REOPENED").CanTransition(TicketStatusClosed) {
		t.Error("unknown status may not transition")
	}
}

func TestTicketPriorityValid(t *testing.T) {
	for _, p := range TicketPriorities() {
		if !p.Valid() {
			t.Errorf("%s should be valid", p)
		}
	}
	if TicketPriority("URGENT").Valid() {
		t.Error("URGENT should be invalid")
	}
}

func TestTicketParticipants(t *testing.T) {
	agent := "agent-1"
	ticket := &Ticket{CreatorID: "customer-1", AssigneeID: &agent, Status: TicketStatusOpen}

	if !ticket.IsParticipant("customer-1") || !ticket.IsParticipant("agent-1") {
		t.Fatal("creator and assignee are participants")
	}
	if ticket.IsParticipant("agent-2") {
		t.Fatal("other agents are not participants")
	}
	if ticket.IsClosed() {
		t.Fatal("open ticket reported closed")
	}

	unassigned := &Ticket{CreatorID: "customer-1"}
	if unassigned.IsAssignedTo("") {
		t.Fatal("nil assignee matched empty id")
	}
}

func TestRolePermissionsAreCopies(t *testing.T) {
	perms := RoleCustomer.Permissions()
	if len(perms) != 4 {
		t.Fatalf("customer permissions = %v", perms)
	}
	perms[0] = "ADMIN"
	if RoleCustomer.Permissions()[0] == "ADMIN" {
		t.Fatal("Permissions returned shared backing array")
	}
	if len(Role("GUEST").Permissions()) != 0 {
		t.Fatal("unknown role has permissions")
	}
	if Role("GUEST").Valid() {
		t.Fatal("unknown role reported valid")
	}
}
