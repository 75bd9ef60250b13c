package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// Storage sentinels shared by every backend.
var (
	ErrNotFound        = apperrors.ErrNotFound
	ErrVersionConflict = apperrors.ErrVersionConflict
	ErrDuplicate       = errors.New("duplicate record")
)

// Postgres SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation   = "23505"
	pgInvalidTextRepr   = "22P02"
	pgForeignKeyMissing = "23503"
)

// Repositories groups the stores a backend provides.
type Repositories struct {
	Users       UserRepository
	Tickets     TicketRepository
	Comments    CommentRepository
	Assignments TicketAssignmentRepository
	Ping        func(ctx context.Context) error
}

// NewPostgresRepositories wires the pgx-backed stores.
func NewPostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:       NewUserRepository(pool),
		Tickets:     NewTicketRepository(pool),
		Comments:    NewCommentRepository(pool),
		Assignments: NewTicketAssignmentRepository(pool),
		Ping:        pool.Ping,
	}
}

// translate maps driver errors onto the storage sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgInvalidTextRepr, pgForeignKeyMissing:
			return ErrNotFound
		}
	}
	return err
}
