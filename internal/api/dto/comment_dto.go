package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// CommentCreatedResponse is returned after a comment is stored.
type CommentCreatedResponse struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is one entry of a ticket thread.
type CommentView struct {
	Body       string    `json:"body"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewCommentCreatedResponse(c *domain.Comment) CommentCreatedResponse {
	return CommentCreatedResponse{ID: c.ID, Body: c.Body, CreatedAt: c.CreatedAt}
}

// NewCommentViews keeps the thread order.
func NewCommentViews(comments []domain.Comment) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{Body: c.Body, AuthorName: c.AuthorName, CreatedAt: c.CreatedAt})
	}
	return views
}
