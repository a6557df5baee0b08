// Package seed creates the default groups and the admin account on an
// empty database. Every step tolerates already-present rows so startup can
// run it unconditionally.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/artemk/inkwell/internal/app/models"
	appRepos "github.com/artemk/inkwell/internal/app/repositories"
	"github.com/artemk/inkwell/internal/pkg/apperrors"
	pkgauth "github.com/artemk/inkwell/internal/pkg/auth"
)

// defaultGroups are created on first startup so the post form has choices
// before any editor curates the taxonomy.
var defaultGroups = []appModels.Group{
	{Title: "Notes", Slug: "notes", Description: "Short-form notes and observations"},
	{Title: "Essays", Slug: "essays", Description: "Long-form writing"},
	{Title: "Links", Slug: "links", Description: "Found around the web"},
}

// CreateDefaultData seeds groups and the admin user. Errors are collected
// rather than aborting, so one failed row does not block the rest.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	repos := appRepos.NewRepositories(dbPool)

	lgr.Info().Msg("Checking/Creating default data (groups, admin user)...")
	var finalErr error

	for i := range defaultGroups {
		group := defaultGroups[i]
		if _, err := repos.GroupRepository.Create(ctx, &group); err != nil {
			if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
				continue
			}
			lgr.Error().Err(err).Str("slug", group.Slug).Msg("Error creating default group")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if _, err := repos.UserRepository.GetByUsername(ctx, "admin"); err == nil {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return finalErr
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Error().Err(err).Msg("Error checking for admin user")
		return errors.Join(finalErr, err)
	}

	hashedPassword, err := pkgauth.HashPassword("Admin123!")
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return errors.Join(finalErr, err)
	}

	admin := &appModels.User{
		Username:  "admin",
		Email:     "admin@inkwell.app",
		Password:  hashedPassword,
		IsAdmin:   true,
		CreatedAt: time.Now(),
	}
	adminID, err := repos.UserRepository.Create(ctx, admin)
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			lgr.Error().Err(err).Msg("Error creating admin user")
			finalErr = errors.Join(finalErr, err)
		}
	} else {
		lgr.Info().Int64("adminID", adminID).Msg("Default admin user created")
	}

	lgr.Info().Msg("Default data check/creation finished")
	return finalErr
}
