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
	"github.com/artemk/inkwell/internal/pkg/dberrors"
	"github.com/artemk/inkwell/internal/pkg/logger"
)

// groupRepository handles group database operations
type groupRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *pgxpool.Pool) GroupRepository {
	return &groupRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves a group by ID
func (r *groupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	sql, args, err := r.sb.Select("id", "title", "slug", "description").
		From("groups").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get group query: %w", err)
	}
	return r.scanOne(ctx, sql, args)
}

// GetBySlug retrieves a group by its unique slug
func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	sql, args, err := r.sb.Select("id", "title", "slug", "description").
		From("groups").
		Where(squirrel.Eq{"slug": slug}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get group query: %w", err)
	}
	return r.scanOne(ctx, sql, args)
}

func (r *groupRepository) scanOne(ctx context.Context, sql string, args []interface{}) (*models.Group, error) {
	group := &models.Group{}
	err := r.db.QueryRow(ctx, sql, args...).Scan(&group.ID, &group.Title, &group.Slug, &group.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		logger.Error().Err(err).Msg("Error scanning group row")
		return nil, fmt.Errorf("error getting group: %w", err)
	}
	return group, nil
}

// ListAll retrieves all groups ordered by title
func (r *groupRepository) ListAll(ctx context.Context) ([]models.Group, error) {
	sql, args, err := r.sb.Select("id", "title", "slug", "description").
		From("groups").
		OrderBy("title").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list groups query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing groups: %w", err)
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		var group models.Group
		if err := rows.Scan(&group.ID, &group.Title, &group.Slug, &group.Description); err != nil {
			return nil, fmt.Errorf("error scanning group row: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}
	return groups, nil
}

// Create inserts a new group (administrator-only flow)
func (r *groupRepository) Create(ctx context.Context, group *models.Group) (int64, error) {
	sql, args, err := r.sb.Insert("groups").
		Columns("title", "slug", "description").
		Values(group.Title, group.Slug, group.Description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create group query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "") {
			return 0, apperrors.ErrResourceAlreadyExists
		}
		logger.Error().Err(err).Str("slug", group.Slug).Msg("Error executing create group query")
		return 0, fmt.Errorf("error creating group: %w", err)
	}
	return id, nil
}
