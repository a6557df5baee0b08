package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artemk/inkwell/internal/pkg/logger"
)

// followRepository handles follow-graph database operations
type followRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFollowRepository creates a new FollowRepository
func NewFollowRepository(db *pgxpool.Pool) FollowRepository {
	return &followRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetOrCreate inserts the (userID, authorID) pair unless it already exists.
// The unique constraint plus ON CONFLICT DO NOTHING makes creation
// idempotent under concurrent requests.
func (r *followRepository) GetOrCreate(ctx context.Context, userID, authorID int64) (bool, error) {
	sql, args, err := r.sb.Insert("follows").
		Columns("user_id", "author_id").
		Values(userID, authorID).
		Suffix("ON CONFLICT (user_id, author_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build create follow query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("authorID", authorID).Msg("Error executing create follow query")
		return false, fmt.Errorf("error creating follow: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes the pair. A missing pair is a silent no-op.
func (r *followRepository) Delete(ctx context.Context, userID, authorID int64) error {
	sql, args, err := r.sb.Delete("follows").
		Where(squirrel.Eq{"user_id": userID, "author_id": authorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete follow query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("authorID", authorID).Msg("Error executing delete follow query")
		return fmt.Errorf("error deleting follow: %w", err)
	}
	return nil
}

// Exists reports whether userID follows authorID
func (r *followRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("follows").
		Where(squirrel.Eq{"user_id": userID, "author_id": authorID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build follow exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking follow existence: %w", err)
	}
	return exists, nil
}
