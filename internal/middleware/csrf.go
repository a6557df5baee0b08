package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artemk/inkwell/internal/pkg/render"
)

const (
	// CSRFCookieName holds the double-submit token.
	CSRFCookieName = "csrf_token"
	// CSRFFieldName is the form field the token is echoed back in.
	CSRFFieldName = "csrf_token"
	// CSRFHeaderName is the header alternative for non-form clients.
	CSRFHeaderName = "X-CSRF-Token"

	csrfTokenBytes = 32
)

// CSRF implements double-submit-cookie protection for mutating requests.
// Safe methods receive a token cookie; unsafe methods must echo it back in
// the form body or header. Failures render the dedicated 403 page.
func CSRF(renderer render.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			if _, err := c.Cookie(CSRFCookieName); err != nil {
				token, genErr := generateCSRFToken()
				if genErr == nil {
					c.SetCookie(CSRFCookieName, token, 0, "/", "", false, false)
				}
			}
			c.Next()
			return
		}

		cookie, err := c.Cookie(CSRFCookieName)
		if err != nil || cookie == "" {
			csrfReject(c, renderer)
			return
		}

		submitted := c.PostForm(CSRFFieldName)
		if submitted == "" {
			submitted = c.GetHeader(CSRFHeaderName)
		}
		if subtle.ConstantTimeCompare([]byte(cookie), []byte(submitted)) != 1 {
			csrfReject(c, renderer)
			return
		}

		c.Next()
	}
}

func csrfReject(c *gin.Context, renderer render.Renderer) {
	renderer.Render(c, http.StatusForbidden, ViewCSRFFailure, render.Context{"path": c.Request.URL.Path})
	c.Abort()
}

func generateCSRFToken() (string, error) {
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
