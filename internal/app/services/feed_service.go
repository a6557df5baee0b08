package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/artemk/inkwell/internal/app/models"
	"github.com/artemk/inkwell/internal/app/models/dto"
	"github.com/artemk/inkwell/internal/app/repositories"
	"github.com/artemk/inkwell/internal/pkg/apperrors"
	"github.com/artemk/inkwell/internal/pkg/cache"
	"github.com/artemk/inkwell/internal/pkg/helpers"
)

// FeedMetrics receives cache outcome signals from the feed service.
type FeedMetrics interface {
	FeedCacheHit()
	FeedCacheMiss()
}

// nopFeedMetrics is used when no collector is wired (tests).
type nopFeedMetrics struct{}

func (nopFeedMetrics) FeedCacheHit()  {}
func (nopFeedMetrics) FeedCacheMiss() {}

// FeedService produces the ordered, paginated post feeds for the four view
// kinds: global, by-group, by-author and by-follow-graph.
type FeedService interface {
	// GlobalFeed returns the requested page of all posts, newest first.
	// Responses are served from a short-lived cache; a page may stay stale
	// until its TTL elapses or the cache is cleared.
	GlobalFeed(ctx context.Context, page int) (*dto.FeedResponse, error)
	// GroupFeed returns the page of posts filed under the group with the
	// given slug. An unknown slug yields ErrGroupNotFound.
	GroupFeed(ctx context.Context, slug string, page int) (*dto.GroupFeedResponse, error)
	// Profile returns the author feed plus the author's total post count
	// and, for authenticated actors, whether the actor follows the author.
	// An unknown username yields ErrUserNotFound.
	Profile(ctx context.Context, username string, page int, actor models.Actor) (*dto.ProfileResponse, error)
	// FollowingFeed returns the page of posts whose authors the actor
	// follows. It requires an authenticated actor.
	FollowingFeed(ctx context.Context, actor models.Actor, page int) (*dto.FeedResponse, error)
}

// feedServiceImpl implements FeedService
type feedServiceImpl struct {
	postRepo   repositories.PostRepository
	groupRepo  repositories.GroupRepository
	userRepo   repositories.UserRepository
	followRepo repositories.FollowRepository
	cache      cache.Store
	feedTTL    time.Duration
	metrics    FeedMetrics
	logger     zerolog.Logger
}

// NewFeedService creates a new FeedService. metrics may be nil.
func NewFeedService(
	postRepo repositories.PostRepository,
	groupRepo repositories.GroupRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	store cache.Store,
	feedTTL time.Duration,
	metrics FeedMetrics,
	logger zerolog.Logger,
) FeedService {
	if metrics == nil {
		metrics = nopFeedMetrics{}
	}
	return &feedServiceImpl{
		postRepo:   postRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		cache:      store,
		feedTTL:    feedTTL,
		metrics:    metrics,
		logger:     logger,
	}
}

// globalFeedKey keys the cache by the page the client asked for, before
// clamping, mirroring per-URL page caching.
func globalFeedKey(page int) string {
	return fmt.Sprintf("feed:global:page:%d", page)
}

// GlobalFeed returns the requested page of the global feed.
func (s *feedServiceImpl) GlobalFeed(ctx context.Context, page int) (*dto.FeedResponse, error) {
	key := globalFeedKey(page)
	if cached, ok := s.cache.Get(key); ok {
		if resp, ok := cached.(*dto.FeedResponse); ok {
			s.metrics.FeedCacheHit()
			return resp, nil
		}
	}
	s.metrics.FeedCacheMiss()

	total, err := s.postRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	clamped, offset := helpers.ClampPage(page, total, helpers.FeedPageSize)
	posts, err := s.postRepo.ListAll(ctx, helpers.FeedPageSize, offset)
	if err != nil {
		return nil, err
	}

	resp := &dto.FeedResponse{
		Posts:      dto.NewPostResponses(posts),
		Pagination: helpers.NewPaginationInfo(total, clamped, helpers.FeedPageSize),
	}
	s.cache.Set(key, resp, s.feedTTL)
	return resp, nil
}

// GroupFeed returns the page of posts filed under slug.
func (s *feedServiceImpl) GroupFeed(ctx context.Context, slug string, page int) (*dto.GroupFeedResponse, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	total, err := s.postRepo.CountByGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	clamped, offset := helpers.ClampPage(page, total, helpers.FeedPageSize)
	posts, err := s.postRepo.ListByGroup(ctx, group.ID, helpers.FeedPageSize, offset)
	if err != nil {
		return nil, err
	}

	return &dto.GroupFeedResponse{
		Group:      dto.NewGroupResponse(group),
		Posts:      dto.NewPostResponses(posts),
		Pagination: helpers.NewPaginationInfo(total, clamped, helpers.FeedPageSize),
	}, nil
}

// Profile returns the author feed with the follow state for the actor.
func (s *feedServiceImpl) Profile(ctx context.Context, username string, page int, actor models.Actor) (*dto.ProfileResponse, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	total, err := s.postRepo.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	clamped, offset := helpers.ClampPage(page, total, helpers.FeedPageSize)
	posts, err := s.postRepo.ListByAuthor(ctx, author.ID, helpers.FeedPageSize, offset)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProfileResponse{
		Author:     dto.NewUserResponse(author),
		Posts:      dto.NewPostResponses(posts),
		Pagination: helpers.NewPaginationInfo(total, clamped, helpers.FeedPageSize),
		PostsCount: total,
	}
	if actor.Authenticated {
		following, err := s.followRepo.Exists(ctx, actor.UserID, author.ID)
		if err != nil {
			return nil, err
		}
		resp.Following = &following
	}
	return resp, nil
}

// FollowingFeed returns the actor's personalized feed.
func (s *feedServiceImpl) FollowingFeed(ctx context.Context, actor models.Actor, page int) (*dto.FeedResponse, error) {
	if !actor.Authenticated {
		return nil, apperrors.ErrAuthenticationRequired
	}

	total, err := s.postRepo.CountFollowed(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	clamped, offset := helpers.ClampPage(page, total, helpers.FeedPageSize)
	posts, err := s.postRepo.ListFollowed(ctx, actor.UserID, helpers.FeedPageSize, offset)
	if err != nil {
		return nil, err
	}

	return &dto.FeedResponse{
		Posts:      dto.NewPostResponses(posts),
		Pagination: helpers.NewPaginationInfo(total, clamped, helpers.FeedPageSize),
	}, nil
}
