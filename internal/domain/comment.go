package domain

import "time"

// Comment is a message in a ticket thread.
type Comment struct {
	ID         string
	TicketID   string
	AuthorID   string
	AuthorName string
	Body       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
