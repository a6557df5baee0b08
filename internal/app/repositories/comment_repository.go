package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artemk/inkwell/internal/app/models"
	"github.com/artemk/inkwell/internal/pkg/dberrors"
	"github.com/artemk/inkwell/internal/pkg/logger"
)

// commentRepository handles comment database operations
type commentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) CommentRepository {
	return &commentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new comment and returns its id
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) (int64, error) {
	sql, args, err := r.sb.Insert("comments").
		Columns("text", "post_id", "author_id").
		Values(comment.Text, comment.PostID, comment.AuthorID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create comment query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("comment references a missing post or author: %w", err)
		}
		logger.Error().Err(err).Int64("postID", comment.PostID).Msg("Error executing create comment query")
		return 0, fmt.Errorf("error creating comment: %w", err)
	}
	return comment.ID, nil
}

// ListByPost retrieves a post's comments, oldest first, with authors attached
func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	sql, args, err := r.sb.Select("c.id", "c.text", "c.post_id", "c.author_id", "c.created_at", "u.username").
		From("comments c").
		Join("users u ON u.id = c.author_id").
		Where(squirrel.Eq{"c.post_id": postID}).
		OrderBy("c.created_at ASC", "c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list comments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		comment := models.Comment{Author: &models.User{}}
		err := rows.Scan(
			&comment.ID,
			&comment.Text,
			&comment.PostID,
			&comment.AuthorID,
			&comment.CreatedAt,
			&comment.Author.Username,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning comment row: %w", err)
		}
		comment.Author.ID = comment.AuthorID
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return comments, nil
}
