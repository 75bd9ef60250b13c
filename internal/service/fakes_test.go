package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
)

// store is an in-memory backend implementing every repository interface.
type store struct {
	mu          sync.Mutex
	seq         int
	users       map[string]domain.User
	userOrder   []string
	tickets     map[string]domain.Ticket
	comments    []domain.Comment
	assignments []domain.TicketAssignment
	lookups     int
}

func newStore() *store {
	return &store{
		users:   map[string]domain.User{},
		tickets: map[string]domain.Ticket{},
	}
}

func (s *store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *store) repositories() repository.Repositories {
	return repository.Repositories{
		Users:       memUsers{s},
		Tickets:     memTickets{s},
		Comments:    memComments{s},
		Assignments: memAssignments{s},
	}
}

func (s *store) addUser(name string, role domain.Role) *domain.User {
	u := &domain.User{Name: name, Email: strings.ToLower(name) + "@example.com", PasswordHash: "x", Role: role}
	if err := (memUsers{s}).Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (s *store) addTicket(creator, assignee *domain.User, status domain.TicketStatus) *domain.Ticket {
	t := &domain.Ticket{
		Title:       "Login broken",
		Description: "Cannot log in since yesterday",
		Status:      status,
		Priority:    domain.TicketPriorityMedium,
		CreatorID:   creator.ID,
	}
	if assignee != nil {
		id := assignee.ID
		t.AssigneeID = &id
	}
	if err := (memTickets{s}).Create(context.Background(), t); err != nil {
		panic(err)
	}
	return t
}

func (s *store) ticket(id string) domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickets[id]
}

func (s *store) commentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.comments)
}

func (s *store) assignmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assignments)
}

type memUsers struct{ s *store }

func (m memUsers) Create(_ context.Context, user *domain.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = m.s.nextID("user")
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	m.s.users[user.ID] = *user
	m.s.userOrder = append(m.s.userOrder, user.ID)
	return nil
}

func (m memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.lookups++
	u, ok := m.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == strings.ToLower(email) {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m memUsers) FindFirstByRole(ctx context.Context, role domain.Role) (*domain.User, error) {
	users, _ := m.ListByRole(ctx, role)
	if len(users) == 0 {
		return nil, repository.ErrNotFound
	}
	return &users[0], nil
}

func (m memUsers) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	result := make([]domain.User, 0)
	for _, id := range m.s.userOrder {
		if u := m.s.users[id]; u.Role == role {
			result = append(result, u)
		}
	}
	return result, nil
}

type memTickets struct{ s *store }

func (m memTickets) Create(_ context.Context, ticket *domain.Ticket) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	ticket.ID = m.s.nextID("ticket")
	ticket.CreatedAt = time.Now().UTC()
	ticket.UpdatedAt = ticket.CreatedAt
	ticket.Version = 0
	stored := *ticket
	stored.AssigneeName = ""
	m.s.tickets[ticket.ID] = stored
	return nil
}

func (m memTickets) Update(_ context.Context, ticket *domain.Ticket) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.tickets[ticket.ID]
	if !ok || stored.Version != ticket.Version {
		return repository.ErrVersionConflict
	}
	stored.Description = ticket.Description
	stored.Status = ticket.Status
	stored.Priority = ticket.Priority
	stored.UpdatedAt = ticket.UpdatedAt
	stored.Version++
	m.s.tickets[ticket.ID] = stored
	ticket.Version = stored.Version
	return nil
}

func (m memTickets) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.lookups++
	t, ok := m.s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if t.AssigneeID != nil {
		assignee := *t.AssigneeID
		t.AssigneeID = &assignee
		t.AssigneeName = m.s.users[assignee].Name
	}
	return &t, nil
}

type memComments struct{ s *store }

func (m memComments) Create(_ context.Context, comment *domain.Comment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	comment.ID = m.s.nextID("comment")
	comment.CreatedAt = time.Now().UTC()
	comment.UpdatedAt = comment.CreatedAt
	m.s.comments = append(m.s.comments, *comment)
	return nil
}

func (m memComments) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	result := make([]domain.Comment, 0)
	for _, c := range m.s.comments {
		if c.TicketID == ticketID {
			c.AuthorName = m.s.users[c.AuthorID].Name
			result = append(result, c)
		}
	}
	return result, nil
}

type memAssignments struct{ s *store }

func (m memAssignments) Assign(_ context.Context, ticket *domain.Ticket, assignment *domain.TicketAssignment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.tickets[ticket.ID]
	if !ok || stored.Version != ticket.Version {
		return repository.ErrVersionConflict
	}
	to := assignment.AssignedToID
	stored.AssigneeID = &to
	stored.UpdatedAt = ticket.UpdatedAt
	stored.Version++
	m.s.tickets[ticket.ID] = stored

	assignment.ID = m.s.nextID("assignment")
	assignment.TicketID = ticket.ID
	assignment.CreatedAt = time.Now().UTC()
	assignment.UpdatedAt = assignment.CreatedAt
	m.s.assignments = append(m.s.assignments, *assignment)

	assignee := to
	ticket.AssigneeID = &assignee
	ticket.Version = stored.Version
	return nil
}

func (m memAssignments) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketAssignment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	result := make([]domain.TicketAssignment, 0)
	for _, a := range m.s.assignments {
		if a.TicketID == ticketID {
			result = append(result, a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) Subscribe(events.EventType, events.EventHandler) {}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
