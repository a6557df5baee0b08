package dto

import (
	"time"

	"github.com/artemk/inkwell/internal/app/models"
)

// CommentForm carries the raw add-comment form field.
type CommentForm struct {
	Text string `form:"text" validate:"required"`
}

// CommentResponse is the view model for a comment on the detail page.
type CommentResponse struct {
	ID        int64        `json:"id"`
	Text      string       `json:"text"`
	Author    UserResponse `json:"author"`
	CreatedAt time.Time    `json:"createdAt"`
}

// NewCommentResponse maps a comment model to its view representation.
func NewCommentResponse(comment *models.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        comment.ID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
	if comment.Author != nil {
		resp.Author = NewUserResponse(comment.Author)
	}
	return resp
}

// NewCommentResponses maps a slice of comments.
func NewCommentResponses(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}
