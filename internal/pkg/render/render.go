// Package render defines the presentation boundary. Controllers emit a view
// name plus a context mapping; the actual template engine is an external
// collaborator plugged in behind the Renderer interface.
package render

import "github.com/gin-gonic/gin"

// Context is the mapping handed to the template renderer.
type Context map[string]interface{}

// Renderer renders a named view with its context to the response.
type Renderer interface {
	Render(c *gin.Context, status int, view string, context Context)
}

// JSONRenderer is the default collaborator implementation: it serializes the
// view name and context as JSON, leaving HTML rendering to a frontend.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render writes the view envelope as JSON.
func (r *JSONRenderer) Render(c *gin.Context, status int, view string, context Context) {
	if context == nil {
		context = Context{}
	}
	c.JSON(status, gin.H{
		"view":    view,
		"context": context,
	})
}
