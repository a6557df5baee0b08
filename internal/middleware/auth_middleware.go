package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/artemk/inkwell/internal/app/models"
	pkgauth "github.com/artemk/inkwell/internal/pkg/auth"
	"github.com/artemk/inkwell/internal/pkg/logger"
)

// SessionCookieName is the cookie the identity provider stores its session
// token in.
const SessionCookieName = "session"

// actorContextKey is the gin context key holding the resolved actor.
const actorContextKey = "actor"

// AuthMiddleware resolves the request actor from the identity provider's
// session token.
type AuthMiddleware struct {
	sessions *pkgauth.SessionService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions *pkgauth.SessionService) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// ResolveActor reads the session token from the cookie (or Authorization
// header) and stores the resulting actor in the request context. Requests
// without a valid token proceed as anonymous; authorization decisions are
// made per-handler by the gate, not here.
func (m *AuthMiddleware) ResolveActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if cookie, err := c.Cookie(SessionCookieName); err == nil {
			tokenString = cookie
		} else if header := c.GetHeader("Authorization"); header != "" {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}

		actor := models.Anonymous()
		if tokenString != "" {
			claims, err := m.sessions.ValidateToken(tokenString)
			if err != nil {
				// An invalid or expired token degrades to anonymous.
				logger.Debug().Err(err).Msg("Session token rejected, treating request as anonymous")
			} else {
				actor = models.Actor{
					UserID:        claims.UserID,
					Username:      claims.Username,
					Authenticated: true,
				}
			}
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// ActorFromContext returns the actor resolved for this request. Requests
// that did not pass ResolveActor read as anonymous.
func ActorFromContext(c *gin.Context) models.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if actor, ok := v.(models.Actor); ok {
			return actor
		}
	}
	return models.Anonymous()
}
