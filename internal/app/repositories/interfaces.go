package repositories

import (
	"context"

	"github.com/artemk/inkwell/internal/app/models"
)

// UserRepository handles user lookups. User rows are owned by the identity
// provider; this application only reads them (Create exists for seeding).
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (int64, error)
}

// GroupRepository handles group lookups and administrative creation.
type GroupRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	ListAll(ctx context.Context) ([]models.Group, error)
	Create(ctx context.Context, group *models.Group) (int64, error)
}

// PostRepository handles post persistence and the per-feed list queries.
// Each feed kind has its own explicit parameterized query so the join
// semantics stay auditable.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	// Update persists text, group and image only; author and id are
	// immutable after creation.
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) error

	ListAll(ctx context.Context, limit, offset int) ([]models.Post, error)
	CountAll(ctx context.Context) (int64, error)
	ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]models.Post, error)
	CountByGroup(ctx context.Context, groupID int64) (int64, error)
	ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]models.Post, error)
	CountByAuthor(ctx context.Context, authorID int64) (int64, error)
	// ListFollowed returns posts whose author is followed by userID.
	ListFollowed(ctx context.Context, userID int64, limit, offset int) ([]models.Post, error)
	CountFollowed(ctx context.Context, userID int64) (int64, error)
}

// CommentRepository handles comment persistence. Comments are append-only.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (int64, error)
	ListByPost(ctx context.Context, postID int64) ([]models.Comment, error)
}

// FollowRepository handles the follow graph. Creation and deletion are both
// idempotent.
type FollowRepository interface {
	// GetOrCreate inserts the (userID, authorID) pair unless it already
	// exists. It reports whether a new pair was created.
	GetOrCreate(ctx context.Context, userID, authorID int64) (bool, error)
	// Delete removes the pair; deleting a missing pair is a no-op.
	Delete(ctx context.Context, userID, authorID int64) error
	Exists(ctx context.Context, userID, authorID int64) (bool, error)
}
