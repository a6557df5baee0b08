// Package routes maps URL paths to controller handlers. Paths keep their
// trailing slash; redirects elsewhere in the app are built against these
// exact strings.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/artemk/inkwell/internal/app/controllers"
	"github.com/artemk/inkwell/internal/middleware"
	"github.com/artemk/inkwell/internal/pkg/render"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	feedController *controllers.FeedController,
	postController *controllers.PostController,
	commentController *controllers.CommentController,
	profileController *controllers.ProfileController,
	renderer render.Renderer,
) {
	router.GET("/", feedController.Index)
	router.GET("/group/:slug/", feedController.GroupPosts)
	router.GET("/follow/", feedController.FollowIndex)

	router.GET("/posts/:id/", postController.Detail)
	router.GET("/create/", postController.CreateForm)
	router.POST("/create/", postController.Create)
	router.GET("/posts/:id/edit/", postController.EditForm)
	router.POST("/posts/:id/edit/", postController.Edit)

	// GET with no form data falls through to the detail redirect.
	router.GET("/posts/:id/comment/", commentController.Add)
	router.POST("/posts/:id/comment/", commentController.Add)

	router.GET("/profile/:username/", profileController.Profile)
	router.GET("/profile/:username/follow/", profileController.Follow)
	router.GET("/profile/:username/unfollow/", profileController.Unfollow)

	router.NoRoute(middleware.NotFoundHandler(renderer))
}
