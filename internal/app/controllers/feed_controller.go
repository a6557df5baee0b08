// Package controllers wires HTTP requests to the service layer. Handlers
// parse path and form input, run the authorization gate, and hand view
// models to the renderer; error recovery that the product defines as a
// redirect happens here, everything else goes through the error mapper.
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

// View names for the feed pages.
const (
	ViewIndex     = "posts/index"
	ViewGroupList = "posts/group_list"
	ViewFollow    = "posts/follow"
)

// FeedController serves the paginated feed pages.
type FeedController struct {
	feedService services.FeedService
	gate        *auth.Gate
	renderer    render.Renderer
}

// NewFeedController creates a new FeedController
func NewFeedController(feedService services.FeedService, gate *auth.Gate, renderer render.Renderer) *FeedController {
	return &FeedController{
		feedService: feedService,
		gate:        gate,
		renderer:    renderer,
	}
}

// Index handles GET / and serves the cached global feed page.
func (c *FeedController) Index(ctx *gin.Context) {
	page := helpers.ParsePage(ctx)

	feed, err := c.feedService.GlobalFeed(ctx.Request.Context(), page)
	if err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}

	c.renderer.Render(ctx, http.StatusOK, ViewIndex, render.Context{
		"posts":      feed.Posts,
		"pagination": feed.Pagination,
	})
}

// GroupPosts handles GET /group/:slug/ and serves a group's feed page.
func (c *FeedController) GroupPosts(ctx *gin.Context) {
	slug := ctx.Param("slug")
	page := helpers.ParsePage(ctx)

	feed, err := c.feedService.GroupFeed(ctx.Request.Context(), slug, page)
	if err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}

	c.renderer.Render(ctx, http.StatusOK, ViewGroupList, render.Context{
		"group":      feed.Group,
		"posts":      feed.Posts,
		"pagination": feed.Pagination,
	})
}

// FollowIndex handles GET /follow/ and serves the feed of followed authors.
// Anonymous actors are sent to login.
func (c *FeedController) FollowIndex(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)
	if !c.gate.RequireAuthenticated(actor, ctx.Request.URL.Path).Apply(ctx) {
		return
	}
	page := helpers.ParsePage(ctx)

	feed, err := c.feedService.FollowingFeed(ctx.Request.Context(), actor, page)
	if err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}

	c.renderer.Render(ctx, http.StatusOK, ViewFollow, render.Context{
		"posts":      feed.Posts,
		"pagination": feed.Pagination,
	})
}
