package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/artemk/inkwell/internal/app/auth"
	"github.com/artemk/inkwell/internal/app/models/dto"
	"github.com/artemk/inkwell/internal/app/services"
	"github.com/artemk/inkwell/internal/middleware"
	"github.com/artemk/inkwell/internal/pkg/apperrors"
	"github.com/artemk/inkwell/internal/pkg/render"
)

// View names for the post pages. Create and edit share one form view,
// distinguished by the is_edit flag in the context.
const (
	ViewPostDetail = "posts/post_detail"
	ViewCreatePost = "posts/create_post"
)

// PostController serves the post detail page and the create/edit forms.
type PostController struct {
	postService services.PostService
	gate        *auth.Gate
	renderer    render.Renderer
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService, gate *auth.Gate, renderer render.Renderer) *PostController {
	return &PostController{
		postService: postService,
		gate:        gate,
		renderer:    renderer,
	}
}

// detailPath builds the canonical detail location for a post.
func detailPath(postID int64) string {
	return fmt.Sprintf("/posts/%d/", postID)
}

// parsePostID reads the :id path parameter. Non-numeric ids read as an
// unknown post.
func parsePostID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.ErrPostNotFound
	}
	return id, nil
}

// bindPostForm reads the create/edit form fields. The group value is kept
// verbatim; the service validates it as a choice.
func bindPostForm(ctx *gin.Context) *dto.PostForm {
	return &dto.PostForm{
		Text:  ctx.PostForm("text"),
		Group: ctx.PostForm("group"),
	}
}

// Detail handles GET /posts/:id/.
func (c *PostController) Detail(ctx *gin.Context) {
	id, err := parsePostID(ctx)
	if err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}

	detail, err := c.postService.GetDetail(ctx.Request.Context(), id)
	if err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}

	c.renderer.Render(ctx, http.StatusOK, ViewPostDetail, render.Context{
		"post":               detail.Post,
		"author_posts_count": detail.AuthorPostsCount,
		"comments":           detail.Comments,
		"comment_form":       dto.CommentForm{},
	})
}

// CreateForm handles GET /create/ and serves the empty post form.
func (c *PostController) CreateForm(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)
	if !c.gate.RequireAuthenticated(actor, ctx.Request.URL.Path).Apply(ctx) {
		return
	}

	groups, err := c.postService.Groups(ctx.Request.Context())
	if err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}

	c.renderer.Render(ctx, http.StatusOK, ViewCreatePost, render.Context{
		"form":    dto.PostForm{},
		"groups":  groups,
		"is_edit": false,
	})
}

// Create handles POST /create/. Success redirects to the author's profile;
// validation failure re-renders the form with the submitted values and
// field errors, persisting nothing.
func (c *PostController) Create(ctx *gin.Context) {
	actor := middleware.ActorFromContext(ctx)
	if !c.gate.RequireAuthenticated(actor, ctx.Request.URL.Path).Apply(ctx) {
		return
	}

	form := bindPostForm(ctx)
	image, _ := ctx.FormFile("image")

	_, err := c.postService.Create(ctx.Request.Context(), actor, form, image)
	if err != nil {
		if fields := apperrors.FieldErrors(err); fields != nil {
			c.renderFormErrors(ctx, form, fields, false)
			return
		}
		middleware.RenderError(ctx, c.renderer, err)
		return
	}

	ctx.Redirect(http.StatusFound, "/profile/"+actor.Username+"/")
}

// EditForm handles GET /posts/:id/edit/ and serves the form pre-filled with
// the post's current values. Only the author may reach it; other
// authenticated actors are sent to the detail page.
func (c *PostController) EditForm(ctx *gin.Context) {
	id, err := parsePostID(ctx)
	if err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}

	detail, err := c.postService.GetDetail(ctx.Request.Context(), id)
	if err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}

	actor := middleware.ActorFromContext(ctx)
	post := detail.Post
	if !c.gate.RequirePostAuthor(actor, post.Author.ID, ctx.Request.URL.Path, detailPath(id)).Apply(ctx) {
		return
	}

	groups, err := c.postService.Groups(ctx.Request.Context())
	if err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}

	form := dto.PostForm{Text: post.Text}
	if post.Group != nil {
		form.Group = strconv.FormatInt(post.Group.ID, 10)
	}
	c.renderer.Render(ctx, http.StatusOK, ViewCreatePost, render.Context{
		"form":    form,
		"groups":  groups,
		"is_edit": true,
		"post_id": id,
	})
}

// Edit handles POST /posts/:id/edit/. Success redirects to the detail page;
// non-authors never reach the service mutation.
func (c *PostController) Edit(ctx *gin.Context) {
	id, err := parsePostID(ctx)
	if err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}

	detail, err := c.postService.GetDetail(ctx.Request.Context(), id)
	if err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}

	actor := middleware.ActorFromContext(ctx)
	if !c.gate.RequirePostAuthor(actor, detail.Post.Author.ID, ctx.Request.URL.Path, detailPath(id)).Apply(ctx) {
		return
	}

	form := bindPostForm(ctx)
	image, _ := ctx.FormFile("image")

	if _, err := c.postService.Edit(ctx.Request.Context(), actor, id, form, image); err != nil {
		if fields := apperrors.FieldErrors(err); fields != nil {
			c.renderFormErrors(ctx, form, fields, true)
			return
		}
		middleware.RenderError(ctx, c.renderer, err)
		return
	}

	ctx.Redirect(http.StatusFound, detailPath(id))
}

// renderFormErrors re-renders the post form with the submitted values and
// per-field messages.
func (c *PostController) renderFormErrors(ctx *gin.Context, form *dto.PostForm, fields map[string]string, isEdit bool) {
	groups, err := c.postService.Groups(ctx.Request.Context())
	if err != nil {
		middleware.RenderError(ctx, c.renderer, err)
		return
	}
	c.renderer.Render(ctx, http.StatusOK, ViewCreatePost, render.Context{
		"form":    *form,
		"groups":  groups,
		"errors":  fields,
		"is_edit": isEdit,
	})
}
