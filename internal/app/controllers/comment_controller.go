package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artemk/inkwell/internal/app/auth"
	"github.com/artemk/inkwell/internal/app/models/dto"
	"github.com/artemk/inkwell/internal/app/services"
	"github.com/artemk/inkwell/internal/middleware"
	"github.com/artemk/inkwell/internal/pkg/apperrors"
	"github.com/artemk/inkwell/internal/pkg/render"
)

// CommentController handles adding comments to posts.
type CommentController struct {
	commentService services.CommentService
	gate           *auth.Gate
	renderer       render.Renderer
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService, gate *auth.Gate, renderer render.Renderer) *CommentController {
	return &CommentController{
		commentService: commentService,
		gate:           gate,
		renderer:       renderer,
	}
}

// Add handles /posts/:id/comment/. Whether the comment was accepted or
// the text failed validation, the response is a redirect to the post's
// detail page; an invalid comment is simply not persisted.
func (c *CommentController) Add(ctx *gin.Context) {
	id, err := parsePostID(ctx)
	if err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}

	actor := middleware.ActorFromContext(ctx)
	if !c.gate.RequireAuthenticated(actor, ctx.Request.URL.Path).Apply(ctx) {
		return
	}

	form := &dto.CommentForm{Text: ctx.PostForm("text")}
	if err := c.commentService.AddComment(ctx.Request.Context(), actor, id, form); err != nil {
		if !errors.Is(err, apperrors.ErrValidationFailed) {
			middleware.RenderError(ctx, c.renderer, err)
			return
		}
	}

	ctx.Redirect(http.StatusFound, detailPath(id))
}
