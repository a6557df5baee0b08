package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/artemk/inkwell/internal/app/auth"
	"github.com/artemk/inkwell/internal/app/models"
	"github.com/artemk/inkwell/internal/app/repositories"
	"github.com/artemk/inkwell/internal/pkg/apperrors"
)

// FollowService handles the follow-graph operations. Both operations are
// idempotent: duplicate follows and missing unfollows are silent no-ops.
type FollowService interface {
	// Follow creates a follow edge from actor to the named author. An
	// unknown username yields ErrUserNotFound; a self-follow is a silent
	// no-op.
	Follow(ctx context.Context, actor models.Actor, username string) error
	// Unfollow removes the follow edge from actor to the named author, if
	// any.
	Unfollow(ctx context.Context, actor models.Actor, username string) error
}

// followServiceImpl implements FollowService
type followServiceImpl struct {
	followRepo repositories.FollowRepository
	userRepo   repositories.UserRepository
	gate       *auth.Gate
	logger     zerolog.Logger
}

// NewFollowService creates a new FollowService
func NewFollowService(
	followRepo repositories.FollowRepository,
	userRepo repositories.UserRepository,
	gate *auth.Gate,
	logger zerolog.Logger,
) FollowService {
	return &followServiceImpl{
		followRepo: followRepo,
		userRepo:   userRepo,
		gate:       gate,
		logger:     logger,
	}
}

// Follow creates the follow edge unless it exists or targets the actor.
func (s *followServiceImpl) Follow(ctx context.Context, actor models.Actor, username string) error {
	if !actor.Authenticated {
		return apperrors.ErrAuthenticationRequired
	}

	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if !s.gate.CanFollow(actor, author) {
		// Self-follow: the request succeeds but no edge is created.
		return nil
	}

	created, err := s.followRepo.GetOrCreate(ctx, actor.UserID, author.ID)
	if err != nil {
		return err
	}
	if created {
		s.logger.Info().Int64("userID", actor.UserID).Int64("authorID", author.ID).Msg("Follow created")
	}
	return nil
}

// Unfollow removes the follow edge; a missing edge is not an error.
func (s *followServiceImpl) Unfollow(ctx context.Context, actor models.Actor, username string) error {
	if !actor.Authenticated {
		return apperrors.ErrAuthenticationRequired
	}

	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	return s.followRepo.Delete(ctx, actor.UserID, author.ID)
}
