package sqlite

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

type UserModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string { return "users" }

func (m UserModel) toDomain() domain.User {
	return domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type TicketModel struct {
	ID          string  `gorm:"primaryKey"`
	Title       string  `gorm:"not null"`
	Description string  `gorm:"not null"`
	Status      string  `gorm:"not null"`
	Priority    string  `gorm:"not null"`
	CreatorID   string  `gorm:"not null"`
	AssigneeID  *string `gorm:"index"`
	Version     int     `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TicketModel) TableName() string { return "tickets" }

type CommentModel struct {
	ID        string `gorm:"primaryKey"`
	TicketID  string `gorm:"not null;index"`
	AuthorID  string `gorm:"not null"`
	Body      string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CommentModel) TableName() string { return "comments" }

type TicketAssignmentModel struct {
	ID           string `gorm:"primaryKey"`
	TicketID     string `gorm:"not null;index"`
	AssignedByID string `gorm:"not null"`
	AssignedToID string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (TicketAssignmentModel) TableName() string { return "ticket_assignments" }

func (m TicketAssignmentModel) toDomain() domain.TicketAssignment {
	return domain.TicketAssignment{
		ID:           m.ID,
		TicketID:     m.TicketID,
		AssignedByID: m.AssignedByID,
		AssignedToID: m.AssignedToID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
