// Package auth implements the authorization gate: explicit guard functions
// invoked at the top of each handler, returning a tagged decision that the
// dispatch layer consumes uniformly.
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artemk/inkwell/internal/app/models"
)

// LoginPath is the external identity provider's login endpoint.
const LoginPath = "/auth/login/"

// DecisionKind tags the outcome of a guard.
type DecisionKind int

const (
	// Proceed lets the handler continue.
	Proceed DecisionKind = iota
	// RedirectToLogin sends the caller to the login endpoint with the
	// original path preserved in the next parameter.
	RedirectToLogin
	// RedirectTo sends the caller to another resource without surfacing an
	// error.
	RedirectTo
)

// Decision is the outcome of an authorization guard.
type Decision struct {
	Kind     DecisionKind
	Location string
}

// Apply executes the decision against the request. It returns true when the
// handler may proceed; otherwise the redirect has already been written.
func (d Decision) Apply(c *gin.Context) bool {
	switch d.Kind {
	case Proceed:
		return true
	default:
		c.Redirect(http.StatusFound, d.Location)
		c.Abort()
		return false
	}
}

// proceed is the shared allow decision.
var proceed = Decision{Kind: Proceed}

// Gate evaluates authorization rules for mutating operations.
type Gate struct{}

// NewGate creates an authorization gate.
func NewGate() *Gate {
	return &Gate{}
}

// RequireAuthenticated guards create-style operations (post, comment,
// follow, unfollow). Anonymous actors are redirected to the login endpoint
// with the originally requested path in the next parameter.
func (g *Gate) RequireAuthenticated(actor models.Actor, requestPath string) Decision {
	if actor.Authenticated {
		return proceed
	}
	// next must keep its slashes literal so the redirect target reads
	// /auth/login/?next=/create/ exactly.
	return Decision{Kind: RedirectToLogin, Location: LoginPath + "?next=" + requestPath}
}

// RequirePostAuthor guards the edit operation. Anonymous actors go to
// login; authenticated non-authors are silently redirected to the post's
// detail view with no error surfaced.
func (g *Gate) RequirePostAuthor(actor models.Actor, authorID int64, requestPath, detailPath string) Decision {
	if !actor.Authenticated {
		return Decision{Kind: RedirectToLogin, Location: LoginPath + "?next=" + requestPath}
	}
	if actor.UserID != authorID {
		return Decision{Kind: RedirectTo, Location: detailPath}
	}
	return proceed
}

// CanFollow reports whether actor may create a follow edge to author.
// Self-follow is forbidden; the caller treats a false result as a silent
// no-op, not an error.
func (g *Gate) CanFollow(actor models.Actor, author *models.User) bool {
	return actor.Authenticated && actor.UserID != author.ID
}
