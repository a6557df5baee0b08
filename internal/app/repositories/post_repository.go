package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artemk/inkwell/internal/app/models"
	"github.com/artemk/inkwell/internal/pkg/apperrors"
	"github.com/artemk/inkwell/internal/pkg/logger"
)

// postColumns are the joined columns selected by every post list query:
// the post row, its author, and its (optional) group.
var postColumns = []string{
	"p.id", "p.text", "p.image_path", "p.group_id", "p.author_id", "p.created_at",
	"u.username",
	"g.title", "g.slug", "g.description",
}

// postRepository handles post database operations. Each feed kind gets its
// own explicit parameterized query.
type postRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) PostRepository {
	return &postRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// selectPosts builds the base joined select, newest first.
func (r *postRepository) selectPosts() squirrel.SelectBuilder {
	return r.sb.Select(postColumns...).
		From("posts p").
		Join("users u ON u.id = p.author_id").
		LeftJoin("groups g ON g.id = p.group_id").
		OrderBy("p.created_at DESC", "p.id DESC")
}

// scanPost scans one joined row into a Post with Author and Group attached.
func scanPost(row pgx.Row) (*models.Post, error) {
	post := &models.Post{Author: &models.User{}}
	var groupTitle, groupSlug, groupDescription *string
	err := row.Scan(
		&post.ID,
		&post.Text,
		&post.ImagePath,
		&post.GroupID,
		&post.AuthorID,
		&post.CreatedAt,
		&post.Author.Username,
		&groupTitle,
		&groupSlug,
		&groupDescription,
	)
	if err != nil {
		return nil, err
	}
	post.Author.ID = post.AuthorID
	if post.GroupID != nil {
		post.Group = &models.Group{
			ID:    *post.GroupID,
			Title: derefString(groupTitle),
			Slug:  derefString(groupSlug),
		}
		post.Group.Description = derefString(groupDescription)
	}
	return post, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create inserts a new post and returns its id
func (r *postRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	sql, args, err := r.sb.Insert("posts").
		Columns("text", "image_path", "group_id", "author_id").
		Values(post.Text, post.ImagePath, post.GroupID, post.AuthorID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create post query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("authorID", post.AuthorID).Msg("Error executing create post query")
		return 0, fmt.Errorf("error creating post: %w", err)
	}
	return post.ID, nil
}

// GetByID retrieves a post with its author and group
func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	sql, args, err := r.selectPosts().Where(squirrel.Eq{"p.id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get post query: %w", err)
	}

	post, err := scanPost(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		logger.Error().Err(err).Int64("postID", id).Msg("Error scanning post row")
		return nil, fmt.Errorf("error getting post: %w", err)
	}
	return post, nil
}

// Update persists the mutable fields of a post. Author and id never change.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	sql, args, err := r.sb.Update("posts").
		Set("text", post.Text).
		Set("image_path", post.ImagePath).
		Set("group_id", post.GroupID).
		Where(squirrel.Eq{"id": post.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update post query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("postID", post.ID).Msg("Error executing update post query")
		return fmt.Errorf("error updating post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

// Delete removes a post
func (r *postRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("posts").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete post query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

// ListAll retrieves the global feed page
func (r *postRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Post, error) {
	builder := r.selectPosts().Limit(uint64(limit)).Offset(uint64(offset))
	return r.list(ctx, builder)
}

// CountAll counts all posts
func (r *postRepository) CountAll(ctx context.Context) (int64, error) {
	return r.count(ctx, r.sb.Select("COUNT(*)").From("posts p"))
}

// ListByGroup retrieves the page of posts filed under groupID
func (r *postRepository) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]models.Post, error) {
	builder := r.selectPosts().
		Where(squirrel.Eq{"p.group_id": groupID}).
		Limit(uint64(limit)).Offset(uint64(offset))
	return r.list(ctx, builder)
}

// CountByGroup counts posts filed under groupID
func (r *postRepository) CountByGroup(ctx context.Context, groupID int64) (int64, error) {
	return r.count(ctx, r.sb.Select("COUNT(*)").From("posts p").Where(squirrel.Eq{"p.group_id": groupID}))
}

// ListByAuthor retrieves the page of posts written by authorID
func (r *postRepository) ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]models.Post, error) {
	builder := r.selectPosts().
		Where(squirrel.Eq{"p.author_id": authorID}).
		Limit(uint64(limit)).Offset(uint64(offset))
	return r.list(ctx, builder)
}

// CountByAuthor counts posts written by authorID
func (r *postRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	return r.count(ctx, r.sb.Select("COUNT(*)").From("posts p").Where(squirrel.Eq{"p.author_id": authorID}))
}

// ListFollowed retrieves the page of posts whose author is followed by userID
func (r *postRepository) ListFollowed(ctx context.Context, userID int64, limit, offset int) ([]models.Post, error) {
	builder := r.selectPosts().
		Join("follows f ON f.author_id = p.author_id").
		Where(squirrel.Eq{"f.user_id": userID}).
		Limit(uint64(limit)).Offset(uint64(offset))
	return r.list(ctx, builder)
}

// CountFollowed counts posts whose author is followed by userID
func (r *postRepository) CountFollowed(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, r.sb.Select("COUNT(*)").
		From("posts p").
		Join("follows f ON f.author_id = p.author_id").
		Where(squirrel.Eq{"f.user_id": userID}))
}

func (r *postRepository) list(ctx context.Context, builder squirrel.SelectBuilder) ([]models.Post, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list posts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning post row: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return posts, nil
}

func (r *postRepository) count(ctx context.Context, builder squirrel.SelectBuilder) (int64, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count posts query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting posts: %w", err)
	}
	return total, nil
}
