package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/artemk/inkwell/internal/app/models"
	"github.com/artemk/inkwell/internal/app/models/dto"
	"github.com/artemk/inkwell/internal/app/repositories"
	"github.com/artemk/inkwell/internal/pkg/apperrors"
	"github.com/artemk/inkwell/internal/pkg/filestorage"
	"github.com/artemk/inkwell/internal/pkg/sanitize"
)

// formValidator checks the struct-level validate tags on form DTOs.
var formValidator = validator.New()

// PostService handles post reads and the validated create/edit flows.
type PostService interface {
	// GetDetail returns the post with its comments and the author's total
	// post count. An unknown id yields ErrPostNotFound.
	GetDetail(ctx context.Context, id int64) (*dto.PostDetailResponse, error)
	// Groups lists all groups for the create/edit form.
	Groups(ctx context.Context) ([]dto.GroupResponse, error)
	// Create validates the form and persists a new post authored by actor.
	// A *apperrors.ValidationError carries field messages back to the form;
	// nothing is persisted on failure.
	Create(ctx context.Context, actor models.Actor, form *dto.PostForm, image *multipart.FileHeader) (*models.Post, error)
	// Edit validates the form and updates the post's text/group/image.
	// Actors other than the post's author get ErrPermissionDenied and the
	// post is left untouched.
	Edit(ctx context.Context, actor models.Actor, postID int64, form *dto.PostForm, image *multipart.FileHeader) (*models.Post, error)
}

// postServiceImpl implements PostService
type postServiceImpl struct {
	postRepo    repositories.PostRepository
	groupRepo   repositories.GroupRepository
	commentRepo repositories.CommentRepository
	fileStorage filestorage.FileStorage
	sanitizer   *sanitize.TextSanitizer
	logger      zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo repositories.PostRepository,
	groupRepo repositories.GroupRepository,
	commentRepo repositories.CommentRepository,
	fileStorage filestorage.FileStorage,
	logger zerolog.Logger,
) PostService {
	return &postServiceImpl{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		commentRepo: commentRepo,
		fileStorage: fileStorage,
		sanitizer:   sanitize.NewTextSanitizer(),
		logger:      logger,
	}
}

// GetDetail returns the detail view model for a post.
func (s *postServiceImpl) GetDetail(ctx context.Context, id int64) (*dto.PostDetailResponse, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	authorPostsCount, err := s.postRepo.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	return &dto.PostDetailResponse{
		Post:             dto.NewPostResponse(post),
		AuthorPostsCount: authorPostsCount,
		Comments:         dto.NewCommentResponses(comments),
	}, nil
}

// Groups lists all groups.
func (s *postServiceImpl) Groups(ctx context.Context) ([]dto.GroupResponse, error) {
	groups, err := s.groupRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewGroupResponses(groups), nil
}

// validateForm checks the form fields and resolves the optional group.
// It returns the sanitized text and the resolved group, or a
// ValidationError listing every failed field.
func (s *postServiceImpl) validateForm(ctx context.Context, form *dto.PostForm) (string, *models.Group, error) {
	fields := map[string]string{}

	text := s.sanitizer.Sanitize(form.Text)
	if err := formValidator.Struct(form); err != nil || text == "" {
		fields["text"] = "This field is required."
	}

	var group *models.Group
	if raw := strings.TrimSpace(form.Group); raw != "" {
		id, convErr := strconv.ParseInt(raw, 10, 64)
		if convErr != nil {
			fields["group"] = "Select a valid group."
		} else {
			var err error
			group, err = s.groupRepo.GetByID(ctx, id)
			if errors.Is(err, apperrors.ErrGroupNotFound) {
				fields["group"] = "Select a valid group."
				group = nil
			} else if err != nil {
				return "", nil, err
			}
		}
	}

	if len(fields) > 0 {
		return "", nil, apperrors.NewValidationError(fields)
	}
	return text, group, nil
}

// Create validates and persists a new post. The author is always the
// request actor, never a form value.
func (s *postServiceImpl) Create(ctx context.Context, actor models.Actor, form *dto.PostForm, image *multipart.FileHeader) (*models.Post, error) {
	if !actor.Authenticated {
		return nil, apperrors.ErrAuthenticationRequired
	}

	text, group, err := s.validateForm(ctx, form)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     text,
		AuthorID: actor.UserID,
		Author:   &models.User{ID: actor.UserID, Username: actor.Username},
		Group:    group,
	}
	if group != nil {
		post.GroupID = &group.ID
	}

	if image != nil {
		path, err := s.fileStorage.SaveFile(image)
		if err != nil {
			return nil, err
		}
		post.ImagePath = &path
	}

	if _, err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("postID", post.ID).Int64("authorID", actor.UserID).Msg("Post created")
	return post, nil
}

// Edit validates and updates an existing post. Author and id are immutable.
func (s *postServiceImpl) Edit(ctx context.Context, actor models.Actor, postID int64, form *dto.PostForm, image *multipart.FileHeader) (*models.Post, error) {
	if !actor.Authenticated {
		return nil, apperrors.ErrAuthenticationRequired
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.UserID {
		return nil, apperrors.ErrPermissionDenied
	}

	text, group, err := s.validateForm(ctx, form)
	if err != nil {
		return nil, err
	}

	post.Text = text
	post.Group = group
	post.GroupID = nil
	if group != nil {
		post.GroupID = &group.ID
	}

	if image != nil {
		path, err := s.fileStorage.SaveFile(image)
		if err != nil {
			return nil, err
		}
		post.ImagePath = &path
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("postID", post.ID).Msg("Post updated")
	return post, nil
}
