package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/artemk/inkwell/internal/pkg/render"
)

func newCSRFRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CSRF(render.NewJSONRenderer()))
	router.GET("/form/", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/submit/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func csrfCookie(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form/", nil))
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == CSRFCookieName {
			return cookie
		}
	}
	t.Fatal("GET did not set the CSRF cookie")
	return nil
}

func TestGetIssuesToken(t *testing.T) {
	router := newCSRFRouter()

	cookie := csrfCookie(t, router)
	if cookie.Value == "" {
		t.Error("token cookie is empty")
	}
}

func TestPostWithMatchingTokenPasses(t *testing.T) {
	router := newCSRFRouter()
	cookie := csrfCookie(t, router)

	form := url.Values{CSRFFieldName: {cookie.Value}}
	req := httptest.NewRequest(http.MethodPost, "/submit/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestPostWithHeaderTokenPasses(t *testing.T) {
	router := newCSRFRouter()
	cookie := csrfCookie(t, router)

	req := httptest.NewRequest(http.MethodPost, "/submit/", nil)
	req.Header.Set(CSRFHeaderName, cookie.Value)
	req.AddCookie(cookie)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestPostWithoutTokenRendersCSRFFailure(t *testing.T) {
	router := newCSRFRouter()

	req := httptest.NewRequest(http.MethodPost, "/submit/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	var body struct {
		View string `json:"view"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.View != ViewCSRFFailure {
		t.Errorf("view = %q, want %q", body.View, ViewCSRFFailure)
	}
}

func TestPostWithMismatchedTokenRejected(t *testing.T) {
	router := newCSRFRouter()
	cookie := csrfCookie(t, router)

	form := url.Values{CSRFFieldName: {"not-the-token"}}
	req := httptest.NewRequest(http.MethodPost, "/submit/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
