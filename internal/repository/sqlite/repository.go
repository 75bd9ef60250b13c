// Package sqlite is the embedded gorm-backed store selected with STORAGE_DRIVER=sqlite.
package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Open opens (or creates) the database file at path.
func Open(path string) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?" + pragmas
	}
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dsn,
	}, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite has a single writer; share one connection
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// NewRepositories wires every store onto db.
func NewRepositories(db *gorm.DB) repository.Repositories {
	return repository.Repositories{
		Users:       &UserRepository{db: db},
		Tickets:     &TicketRepository{db: db},
		Comments:    &CommentRepository{db: db},
		Assignments: &TicketAssignmentRepository{db: db},
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return repository.ErrDuplicate
	case strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return repository.ErrNotFound
	}
	return err
}

func now() time.Time {
	return time.Now().UTC()
}

// UserRepository implements repository.UserRepository.
type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ts := now()
	m := UserModel{
		ID:           uuid.NewString(),
		Name:         user.Name,
		Email:        strings.ToLower(user.Email),
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(email))
}

func (r *UserRepository) FindFirstByRole(ctx context.Context, role domain.Role) (*domain.User, error) {
	var m UserModel
	err := r.db.WithContext(ctx).
		Where("role = ?", string(role)).
		Order("created_at ASC").Order("rowid ASC").
		Take(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	user := m.toDomain()
	return &user, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	rows := make([]UserModel, 0)
	err := r.db.WithContext(ctx).
		Where("role = ?", string(role)).
		Order("created_at ASC").Order("rowid ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	result := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		result = append(result, m.toDomain())
	}
	return result, nil
}

func (r *UserRepository) first(ctx context.Context, where string, arg any) (*domain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where(where, arg).Take(&m).Error; err != nil {
		return nil, translate(err)
	}
	user := m.toDomain()
	return &user, nil
}

// TicketRepository implements repository.TicketRepository.
type TicketRepository struct {
	db *gorm.DB
}

type ticketRow struct {
	TicketModel  `gorm:"embedded"`
	AssigneeName string
}

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	ts := now()
	m := TicketModel{
		ID:          uuid.NewString(),
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      string(ticket.Status),
		Priority:    string(ticket.Priority),
		CreatorID:   ticket.CreatorID,
		AssigneeID:  ticket.AssigneeID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	ticket.ID = m.ID
	ticket.Version = m.Version
	ticket.CreatedAt = m.CreatedAt
	ticket.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	res := r.db.WithContext(ctx).
		Model(&TicketModel{}).
		Where("id = ? AND version = ?", ticket.ID, ticket.Version).
		Updates(map[string]any{
			"description": ticket.Description,
			"status":      string(ticket.Status),
			"priority":    string(ticket.Priority),
			"updated_at":  ticket.UpdatedAt.UTC(),
			"version":     gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrVersionConflict
	}
	ticket.Version++
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	var row ticketRow
	err := r.db.WithContext(ctx).
		Table("tickets").
		Select("tickets.*, COALESCE(a.name, '') AS assignee_name").
		Joins("LEFT JOIN users a ON a.id = tickets.assignee_id").
		Where("tickets.id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &domain.Ticket{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		Status:       domain.TicketStatus(row.Status),
		Priority:     domain.TicketPriority(row.Priority),
		CreatorID:    row.CreatorID,
		AssigneeID:   row.AssigneeID,
		AssigneeName: row.AssigneeName,
		Version:      row.Version,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

// CommentRepository implements repository.CommentRepository.
type CommentRepository struct {
	db *gorm.DB
}

type commentRow struct {
	CommentModel `gorm:"embedded"`
	AuthorName   string
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	ts := now()
	m := CommentModel{
		ID:        uuid.NewString(),
		TicketID:  comment.TicketID,
		AuthorID:  comment.AuthorID,
		Body:      comment.Body,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	comment.ID = m.ID
	comment.CreatedAt = m.CreatedAt
	comment.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *CommentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	rows := make([]commentRow, 0)
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.*, u.name AS author_name").
		Joins("JOIN users u ON u.id = comments.author_id").
		Where("comments.ticket_id = ?", ticketID).
		Order("comments.created_at ASC").Order("comments.rowid ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	result := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.Comment{
			ID:         row.ID,
			TicketID:   row.TicketID,
			AuthorID:   row.AuthorID,
			AuthorName: row.AuthorName,
			Body:       row.Body,
			CreatedAt:  row.CreatedAt,
			UpdatedAt:  row.UpdatedAt,
		})
	}
	return result, nil
}

// TicketAssignmentRepository implements repository.TicketAssignmentRepository.
type TicketAssignmentRepository struct {
	db *gorm.DB
}

func (r *TicketAssignmentRepository) Assign(ctx context.Context, ticket *domain.Ticket, assignment *domain.TicketAssignment) error {
	ts := now()
	m := TicketAssignmentModel{
		ID:           uuid.NewString(),
		TicketID:     ticket.ID,
		AssignedByID: assignment.AssignedByID,
		AssignedToID: assignment.AssignedToID,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&TicketModel{}).
			Where("id = ? AND version = ?", ticket.ID, ticket.Version).
			Updates(map[string]any{
				"assignee_id": assignment.AssignedToID,
				"updated_at":  ticket.UpdatedAt.UTC(),
				"version":     gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return repository.ErrVersionConflict
		}
		return translate(tx.Create(&m).Error)
	})
	if err != nil {
		return err
	}

	*assignment = m.toDomain()
	assignee := m.AssignedToID
	ticket.AssigneeID = &assignee
	ticket.Version++
	return nil
}

func (r *TicketAssignmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketAssignment, error) {
	rows := make([]TicketAssignmentModel, 0)
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").Order("rowid ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	result := make([]domain.TicketAssignment, 0, len(rows))
	for _, m := range rows {
		result = append(result, m.toDomain())
	}
	return result, nil
}
