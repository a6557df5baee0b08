package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/artemk/inkwell/internal/app/models"
	"github.com/artemk/inkwell/internal/app/models/dto"
	"github.com/artemk/inkwell/internal/app/repositories"
	"github.com/artemk/inkwell/internal/pkg/apperrors"
	"github.com/artemk/inkwell/internal/pkg/sanitize"
)

// CommentService handles comment creation. Comments are immutable once
// stored; there is no edit or delete flow.
type CommentService interface {
	// AddComment validates and persists a comment by actor on the post.
	// An unknown post yields ErrPostNotFound; empty text yields a
	// ValidationError and nothing is persisted.
	AddComment(ctx context.Context, actor models.Actor, postID int64, form *dto.CommentForm) error
}

// commentServiceImpl implements CommentService
type commentServiceImpl struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	sanitizer   *sanitize.TextSanitizer
	logger      zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	logger zerolog.Logger,
) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		sanitizer:   sanitize.NewTextSanitizer(),
		logger:      logger,
	}
}

// AddComment persists a comment with the actor as author.
func (s *commentServiceImpl) AddComment(ctx context.Context, actor models.Actor, postID int64, form *dto.CommentForm) error {
	if !actor.Authenticated {
		return apperrors.ErrAuthenticationRequired
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	text := s.sanitizer.Sanitize(form.Text)
	if text == "" {
		return apperrors.NewValidationError(map[string]string{"text": "This field is required."})
	}

	comment := &models.Comment{
		Text:     text,
		PostID:   post.ID,
		AuthorID: actor.UserID,
	}
	if _, err := s.commentRepo.Create(ctx, comment); err != nil {
		return err
	}

	s.logger.Info().Int64("postID", post.ID).Int64("authorID", actor.UserID).Msg("Comment added")
	return nil
}
