package routes_test

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/artemk/inkwell/internal/app/auth"
	"github.com/artemk/inkwell/internal/app/controllers"
	"github.com/artemk/inkwell/internal/app/models"
	"github.com/artemk/inkwell/internal/app/models/dto"
	"github.com/artemk/inkwell/internal/app/routes"
	"github.com/artemk/inkwell/internal/middleware"
	"github.com/artemk/inkwell/internal/pkg/apperrors"
	pkgauth "github.com/artemk/inkwell/internal/pkg/auth"
	"github.com/artemk/inkwell/internal/pkg/render"
)

// Stub services with overridable behavior. The router tests exercise path
// wiring, the authorization gate, and the redirect contracts; service
// semantics are covered by the service tests.

type stubFeedService struct {
	globalFeed    func(page int) (*dto.FeedResponse, error)
	groupFeed     func(slug string, page int) (*dto.GroupFeedResponse, error)
	profile       func(username string, page int, actor models.Actor) (*dto.ProfileResponse, error)
	followingFeed func(actor models.Actor, page int) (*dto.FeedResponse, error)
}

func emptyFeed() *dto.FeedResponse {
	return &dto.FeedResponse{
		Posts:      []dto.PostResponse{},
		Pagination: dto.PaginationInfo{CurrentPage: 1, TotalPages: 1, PageSize: 10},
	}
}

func (s *stubFeedService) GlobalFeed(_ context.Context, page int) (*dto.FeedResponse, error) {
	if s.globalFeed != nil {
		return s.globalFeed(page)
	}
	return emptyFeed(), nil
}

func (s *stubFeedService) GroupFeed(_ context.Context, slug string, page int) (*dto.GroupFeedResponse, error) {
	if s.groupFeed != nil {
		return s.groupFeed(slug, page)
	}
	return nil, apperrors.ErrGroupNotFound
}

func (s *stubFeedService) Profile(_ context.Context, username string, page int, actor models.Actor) (*dto.ProfileResponse, error) {
	if s.profile != nil {
		return s.profile(username, page, actor)
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *stubFeedService) FollowingFeed(_ context.Context, actor models.Actor, page int) (*dto.FeedResponse, error) {
	if s.followingFeed != nil {
		return s.followingFeed(actor, page)
	}
	return emptyFeed(), nil
}

type stubPostService struct {
	getDetail func(id int64) (*dto.PostDetailResponse, error)
	create    func(actor models.Actor, form *dto.PostForm) (*models.Post, error)
	edit      func(actor models.Actor, postID int64, form *dto.PostForm) (*models.Post, error)
}

func (s *stubPostService) GetDetail(_ context.Context, id int64) (*dto.PostDetailResponse, error) {
	if s.getDetail != nil {
		return s.getDetail(id)
	}
	return nil, apperrors.ErrPostNotFound
}

func (s *stubPostService) Groups(_ context.Context) ([]dto.GroupResponse, error) {
	return []dto.GroupResponse{}, nil
}

func (s *stubPostService) Create(_ context.Context, actor models.Actor, form *dto.PostForm, _ *multipart.FileHeader) (*models.Post, error) {
	if s.create != nil {
		return s.create(actor, form)
	}
	return &models.Post{ID: 1, Text: form.Text, AuthorID: actor.UserID}, nil
}

func (s *stubPostService) Edit(_ context.Context, actor models.Actor, postID int64, form *dto.PostForm, _ *multipart.FileHeader) (*models.Post, error) {
	if s.edit != nil {
		return s.edit(actor, postID, form)
	}
	return &models.Post{ID: postID, Text: form.Text, AuthorID: actor.UserID}, nil
}

type stubCommentService struct {
	addComment func(actor models.Actor, postID int64, form *dto.CommentForm) error
}

func (s *stubCommentService) AddComment(_ context.Context, actor models.Actor, postID int64, form *dto.CommentForm) error {
	if s.addComment != nil {
		return s.addComment(actor, postID, form)
	}
	return nil
}

type stubFollowService struct {
	follow   func(actor models.Actor, username string) error
	unfollow func(actor models.Actor, username string) error
}

func (s *stubFollowService) Follow(_ context.Context, actor models.Actor, username string) error {
	if s.follow != nil {
		return s.follow(actor, username)
	}
	return nil
}

func (s *stubFollowService) Unfollow(_ context.Context, actor models.Actor, username string) error {
	if s.unfollow != nil {
		return s.unfollow(actor, username)
	}
	return nil
}

type routerFixture struct {
	engine   *gin.Engine
	sessions *pkgauth.SessionService
	feed     *stubFeedService
	posts    *stubPostService
	comments *stubCommentService
	follows  *stubFollowService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &routerFixture{
		sessions: pkgauth.NewSessionService(pkgauth.SessionConfig{
			SecretKey:  "test-secret",
			SessionExp: time.Hour,
			Issuer:     "test",
		}),
		feed:     &stubFeedService{},
		posts:    &stubPostService{},
		comments: &stubCommentService{},
		follows:  &stubFollowService{},
	}

	gate := auth.NewGate()
	renderer := render.NewJSONRenderer()
	authMw := middleware.NewAuthMiddleware(f.sessions)

	engine := gin.New()
	engine.Use(authMw.ResolveActor())
	routes.SetupRouter(engine,
		controllers.NewFeedController(f.feed, gate, renderer),
		controllers.NewPostController(f.posts, gate, renderer),
		controllers.NewCommentController(f.comments, gate, renderer),
		controllers.NewProfileController(f.feed, f.follows, gate, renderer),
		renderer,
	)
	f.engine = engine
	return f
}

// request performs a test request, optionally authenticated as user.
func (f *routerFixture) request(t *testing.T, method, path string, form url.Values, user *models.User) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if user != nil {
		token, err := f.sessions.GenerateToken(user)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

// view extracts the rendered view name from a JSON response.
func view(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		View string `json:"view"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body.View
}

func TestIndexRendersGlobalFeed(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.request(t, http.MethodGet, "/", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := view(t, rec); got != "posts/index" {
		t.Errorf("view = %q, want posts/index", got)
	}
}

func TestUnknownGroupRenders404(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.request(t, http.MethodGet, "/group/no-such-slug/", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := view(t, rec); got != "core/404" {
		t.Errorf("view = %q, want core/404", got)
	}
}

func TestUnknownPathRenders404(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.request(t, http.MethodGet, "/definitely/not/a/route/", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := view(t, rec); got != "core/404" {
		t.Errorf("view = %q, want core/404", got)
	}
}

// Anonymous create attempt lands on the login endpoint with the requested
// path preserved, slashes unescaped.
func TestAnonymousCreateRedirectsToLogin(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.request(t, http.MethodGet, "/create/", nil, nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/login/?next=/create/" {
		t.Errorf("Location = %q, want /auth/login/?next=/create/", loc)
	}
}

func TestAnonymousFollowFeedRedirectsToLogin(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.request(t, http.MethodGet, "/follow/", nil, nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/login/?next=/follow/" {
		t.Errorf("Location = %q, want /auth/login/?next=/follow/", loc)
	}
}

func TestCreateRedirectsToProfile(t *testing.T) {
	f := newRouterFixture(t)
	user := &models.User{ID: 1, Username: "leo"}

	rec := f.request(t, http.MethodPost, "/create/", url.Values{"text": {"hello"}}, user)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/profile/leo/" {
		t.Errorf("Location = %q, want /profile/leo/", loc)
	}
}

// A failed form does not redirect; the form view is re-rendered with the
// field errors.
func TestCreateValidationFailureRerendersForm(t *testing.T) {
	f := newRouterFixture(t)
	f.posts.create = func(models.Actor, *dto.PostForm) (*models.Post, error) {
		return nil, apperrors.NewValidationError(map[string]string{"text": "This field is required."})
	}
	user := &models.User{ID: 1, Username: "leo"}

	rec := f.request(t, http.MethodPost, "/create/", url.Values{"text": {""}}, user)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 form re-render", rec.Code)
	}
	if got := view(t, rec); got != "posts/create_post" {
		t.Errorf("view = %q, want posts/create_post", got)
	}
	if !strings.Contains(rec.Body.String(), "This field is required.") {
		t.Errorf("body %q should carry the field error", rec.Body.String())
	}
}

// The submitted group value reaches the service verbatim, so an
// unparseable choice fails validation and re-renders the form instead of
// being dropped and redirecting as a success.
func TestCreateCarriesRawGroupValueToValidation(t *testing.T) {
	f := newRouterFixture(t)
	var gotGroup string
	f.posts.create = func(_ models.Actor, form *dto.PostForm) (*models.Post, error) {
		gotGroup = form.Group
		return nil, apperrors.NewValidationError(map[string]string{"group": "Select a valid group."})
	}
	user := &models.User{ID: 1, Username: "leo"}

	rec := f.request(t, http.MethodPost, "/create/", url.Values{"text": {"hello"}, "group": {"abc"}}, user)
	if gotGroup != "abc" {
		t.Errorf("form.Group = %q, want %q", gotGroup, "abc")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 form re-render", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Select a valid group.") {
		t.Errorf("body %q should carry the group error", rec.Body.String())
	}
}

func postDetail(authorID int64) *dto.PostDetailResponse {
	return &dto.PostDetailResponse{
		Post: dto.PostResponse{
			ID:     7,
			Text:   "existing",
			Author: dto.UserResponse{ID: authorID, Username: "leo"},
		},
		Comments: []dto.CommentResponse{},
	}
}

// An authenticated non-author is silently sent to the detail page.
func TestEditByNonAuthorRedirectsToDetail(t *testing.T) {
	f := newRouterFixture(t)
	f.posts.getDetail = func(id int64) (*dto.PostDetailResponse, error) {
		return postDetail(1), nil
	}
	intruder := &models.User{ID: 2, Username: "mia"}

	rec := f.request(t, http.MethodPost, "/posts/7/edit/", url.Values{"text": {"hijack"}}, intruder)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/posts/7/" {
		t.Errorf("Location = %q, want /posts/7/", loc)
	}
}

func TestEditByAuthorRedirectsToDetail(t *testing.T) {
	f := newRouterFixture(t)
	f.posts.getDetail = func(id int64) (*dto.PostDetailResponse, error) {
		return postDetail(1), nil
	}
	author := &models.User{ID: 1, Username: "leo"}

	rec := f.request(t, http.MethodPost, "/posts/7/edit/", url.Values{"text": {"updated"}}, author)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/posts/7/" {
		t.Errorf("Location = %q, want /posts/7/", loc)
	}
}

// The comment endpoint redirects to the detail page even when the text
// fails validation; the invalid comment is just not persisted.
func TestCommentRedirectsToDetailEvenWhenInvalid(t *testing.T) {
	f := newRouterFixture(t)
	f.comments.addComment = func(models.Actor, int64, *dto.CommentForm) error {
		return apperrors.NewValidationError(map[string]string{"text": "This field is required."})
	}
	user := &models.User{ID: 2, Username: "mia"}

	rec := f.request(t, http.MethodPost, "/posts/7/comment/", url.Values{"text": {""}}, user)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/posts/7/" {
		t.Errorf("Location = %q, want /posts/7/", loc)
	}
}

func TestAnonymousCommentRedirectsToLogin(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.request(t, http.MethodPost, "/posts/7/comment/", url.Values{"text": {"hi"}}, nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/login/?next=/posts/7/comment/" {
		t.Errorf("Location = %q, want /auth/login/?next=/posts/7/comment/", loc)
	}
}

func TestFollowAndUnfollowRedirectToFollowFeed(t *testing.T) {
	f := newRouterFixture(t)
	user := &models.User{ID: 2, Username: "mia"}

	for _, path := range []string{"/profile/leo/follow/", "/profile/leo/unfollow/"} {
		rec := f.request(t, http.MethodGet, path, nil, user)
		if rec.Code != http.StatusFound {
			t.Fatalf("%s status = %d, want 302", path, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/follow/" {
			t.Errorf("%s Location = %q, want /follow/", path, loc)
		}
	}
}

func TestFollowUnknownAuthorRenders404(t *testing.T) {
	f := newRouterFixture(t)
	f.follows.follow = func(models.Actor, string) error {
		return apperrors.ErrUserNotFound
	}
	user := &models.User{ID: 2, Username: "mia"}

	rec := f.request(t, http.MethodGet, "/profile/ghost/follow/", nil, user)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := view(t, rec); got != "core/404" {
		t.Errorf("view = %q, want core/404", got)
	}
}

func TestProfileRendersForAnonymous(t *testing.T) {
	f := newRouterFixture(t)
	f.feed.profile = func(username string, page int, actor models.Actor) (*dto.ProfileResponse, error) {
		if actor.Authenticated {
			t.Errorf("actor should be anonymous, got %+v", actor)
		}
		return &dto.ProfileResponse{
			Author:     dto.UserResponse{ID: 1, Username: username},
			Posts:      []dto.PostResponse{},
			Pagination: dto.PaginationInfo{CurrentPage: 1, TotalPages: 1, PageSize: 10},
		}, nil
	}

	rec := f.request(t, http.MethodGet, "/profile/leo/", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := view(t, rec); got != "posts/profile" {
		t.Errorf("view = %q, want posts/profile", got)
	}
}

func TestExpiredSessionReadsAsAnonymous(t *testing.T) {
	f := newRouterFixture(t)
	expired := pkgauth.NewSessionService(pkgauth.SessionConfig{
		SecretKey:  "test-secret",
		SessionExp: -time.Hour,
		Issuer:     "test",
	})
	token, err := expired.GenerateToken(&models.User{ID: 1, Username: "leo"})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302 to login", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/login/?next=/create/" {
		t.Errorf("Location = %q, want login redirect", loc)
	}
}
