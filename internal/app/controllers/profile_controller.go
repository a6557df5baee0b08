package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artemk/inkwell/internal/app/auth"
	"github.com/artemk/inkwell/internal/app/services"
	"github.com/artemk/inkwell/internal/middleware"
	"github.com/artemk/inkwell/internal/pkg/helpers"
	"github.com/artemk/inkwell/internal/pkg/render"
)

// ViewProfile is the author page view name.
const ViewProfile = "posts/profile"

// followFeedPath is where follow and unfollow land regardless of outcome.
const followFeedPath = "/follow/"

// ProfileController serves author pages and the follow/unfollow actions.
type ProfileController struct {
	feedService   services.FeedService
	followService services.FollowService
	gate          *auth.Gate
	renderer      render.Renderer
}

// NewProfileController creates a new ProfileController
func NewProfileController(
	feedService services.FeedService,
	followService services.FollowService,
	gate *auth.Gate,
	renderer render.Renderer,
) *ProfileController {
	return &ProfileController{
		feedService:   feedService,
		followService: followService,
		gate:          gate,
		renderer:      renderer,
	}
}

// Profile handles GET /profile/:username/ and serves the author's page with
// their paginated posts. For authenticated viewers the context carries
// whether they follow this author.
func (c *ProfileController) Profile(ctx *gin.Context) {
	username := ctx.Param("username")
	page := helpers.ParsePage(ctx)
	actor := middleware.ActorFromContext(ctx)

	profile, err := c.feedService.Profile(ctx.Request.Context(), username, page, actor)
	if err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}

	context := render.Context{
		"author":      profile.Author,
		"posts":       profile.Posts,
		"pagination":  profile.Pagination,
		"posts_count": profile.PostsCount,
	}
	if profile.Following != nil {
		context["following"] = *profile.Following
	}
	c.renderer.Render(ctx, http.StatusOK, ViewProfile, context)
}

// Follow handles GET /profile/:username/follow/. Following yourself or an
// author you already follow changes nothing; either way the actor lands on
// the follow feed.
func (c *ProfileController) Follow(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)
	if !c.gate.RequireAuthenticated(actor, ctx.Request.URL.Path).Apply(ctx) {
		return
	}

	if err := c.followService.Follow(ctx.Request.Context(), actor, ctx.Param("username")); err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}
	ctx.Redirect(http.StatusFound, followFeedPath)
}

// Unfollow handles GET /profile/:username/unfollow/. Removing a follow that
// does not exist is not an error.
func (c *ProfileController) Unfollow(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)
	if !c.gate.RequireAuthenticated(actor, ctx.Request.URL.Path).Apply(ctx) {
		return
	}

	if err := c.followService.Unfollow(ctx.Request.Context(), actor, ctx.Param("username")); err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}
	ctx.Redirect(http.StatusFound, followFeedPath)
}
