package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artemk/inkwell/internal/pkg/apperrors"
	"github.com/artemk/inkwell/internal/pkg/logger"
	"github.com/artemk/inkwell/internal/pkg/render"
)

// View names for the static failure pages.
const (
	ViewNotFound    = "core/404"
	ViewCSRFFailure = "core/403csrf"
	ViewServerError = "core/500"
)

// RenderError maps an error to its failure view. Redirect-style recoveries
// (login, silent redirect to detail, form re-render) happen in the
// controllers; everything that reaches here is either a not-found or an
// internal fault.
func RenderError(c *gin.Context, renderer render.Renderer, err error) {
	switch {
	case matchesAny(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound, apperrors.ErrGroupNotFound, apperrors.ErrPostNotFound):
		renderer.Render(c, http.StatusNotFound, ViewNotFound, render.Context{"path": c.Request.URL.Path})
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		renderer.Render(c, http.StatusInternalServerError, ViewServerError, render.Context{})
	}
	c.Abort()
}

// NotFoundHandler renders the 404 page for unknown paths.
func NotFoundHandler(renderer render.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		renderer.Render(c, http.StatusNotFound, ViewNotFound, render.Context{"path": c.Request.URL.Path})
	}
}

// Recovery converts panics into the generic fault page. The caller should
// assume the operation did not complete; no partial state is guaranteed.
func Recovery(renderer render.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
				renderer.Render(c, http.StatusInternalServerError, ViewServerError, render.Context{})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// matchesAny reports whether err matches any of the targets.
func matchesAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
