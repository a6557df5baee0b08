package services

import (
	"context"
	"mime/multipart"
	"sort"
	"time"

	"github.com/artemk/inkwell/internal/app/models"
	"github.com/artemk/inkwell/internal/pkg/apperrors"
)

// In-memory repository fakes. They reproduce the ordering and sentinel
// error contracts of the postgres implementations so service behavior can
// be tested without a database.

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User), nextID: 1}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (int64, error) {
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return user.ID, nil
}

type fakeGroupRepo struct {
	groups map[int64]*models.Group
	nextID int64
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[int64]*models.Group), nextID: 1}
}

func (r *fakeGroupRepo) GetByID(_ context.Context, id int64) (*models.Group, error) {
	if g, ok := r.groups[id]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, apperrors.ErrGroupNotFound
}

func (r *fakeGroupRepo) GetBySlug(_ context.Context, slug string) (*models.Group, error) {
	for _, g := range r.groups {
		if g.Slug == slug {
			copied := *g
			return &copied, nil
		}
	}
	return nil, apperrors.ErrGroupNotFound
}

func (r *fakeGroupRepo) ListAll(_ context.Context) ([]models.Group, error) {
	out := make([]models.Group, 0, len(r.groups))
	for _, g := range r.groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGroupRepo) Create(_ context.Context, group *models.Group) (int64, error) {
	for _, g := range r.groups {
		if g.Slug == group.Slug {
			return 0, apperrors.ErrResourceAlreadyExists
		}
	}
	group.ID = r.nextID
	r.nextID++
	copied := *group
	r.groups[group.ID] = &copied
	return group.ID, nil
}

type fakePostRepo struct {
	posts   map[int64]*models.Post
	nextID  int64
	follows *fakeFollowRepo
}

func newFakePostRepo(follows *fakeFollowRepo) *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*models.Post), nextID: 1, follows: follows}
}

func (r *fakePostRepo) Create(_ context.Context, post *models.Post) (int64, error) {
	post.ID = r.nextID
	r.nextID++
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	copied := *post
	r.posts[post.ID] = &copied
	return post.ID, nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id int64) (*models.Post, error) {
	if p, ok := r.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, apperrors.ErrPostNotFound
}

func (r *fakePostRepo) Update(_ context.Context, post *models.Post) error {
	stored, ok := r.posts[post.ID]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	stored.Text = post.Text
	stored.GroupID = post.GroupID
	stored.ImagePath = post.ImagePath
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id int64) error {
	delete(r.posts, id)
	return nil
}

// ordered returns the matching posts newest first, mirroring the
// created_at DESC, id DESC query ordering.
func (r *fakePostRepo) ordered(match func(*models.Post) bool) []models.Post {
	var out []models.Post
	for _, p := range r.posts {
		if match(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func page(posts []models.Post, limit, offset int) []models.Post {
	if offset >= len(posts) {
		return nil
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end]
}

func (r *fakePostRepo) ListAll(_ context.Context, limit, offset int) ([]models.Post, error) {
	return page(r.ordered(func(*models.Post) bool { return true }), limit, offset), nil
}

func (r *fakePostRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.posts)), nil
}

func (r *fakePostRepo) ListByGroup(_ context.Context, groupID int64, limit, offset int) ([]models.Post, error) {
	posts := r.ordered(func(p *models.Post) bool { return p.GroupID != nil && *p.GroupID == groupID })
	return page(posts, limit, offset), nil
}

func (r *fakePostRepo) CountByGroup(ctx context.Context, groupID int64) (int64, error) {
	posts := r.ordered(func(p *models.Post) bool { return p.GroupID != nil && *p.GroupID == groupID })
	return int64(len(posts)), nil
}

func (r *fakePostRepo) ListByAuthor(_ context.Context, authorID int64, limit, offset int) ([]models.Post, error) {
	posts := r.ordered(func(p *models.Post) bool { return p.AuthorID == authorID })
	return page(posts, limit, offset), nil
}

func (r *fakePostRepo) CountByAuthor(_ context.Context, authorID int64) (int64, error) {
	posts := r.ordered(func(p *models.Post) bool { return p.AuthorID == authorID })
	return int64(len(posts)), nil
}

func (r *fakePostRepo) followedMatch(userID int64) func(*models.Post) bool {
	return func(p *models.Post) bool {
		_, ok := r.follows.pairs[followPair{userID: userID, authorID: p.AuthorID}]
		return ok
	}
}

func (r *fakePostRepo) ListFollowed(_ context.Context, userID int64, limit, offset int) ([]models.Post, error) {
	return page(r.ordered(r.followedMatch(userID)), limit, offset), nil
}

func (r *fakePostRepo) CountFollowed(_ context.Context, userID int64) (int64, error) {
	return int64(len(r.ordered(r.followedMatch(userID)))), nil
}

type fakeCommentRepo struct {
	comments []models.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) (int64, error) {
	comment.ID = r.nextID
	r.nextID++
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	r.comments = append(r.comments, *comment)
	return comment.ID, nil
}

func (r *fakeCommentRepo) ListByPost(_ context.Context, postID int64) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

type followPair struct {
	userID   int64
	authorID int64
}

type fakeFollowRepo struct {
	pairs map[followPair]struct{}
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{pairs: make(map[followPair]struct{})}
}

func (r *fakeFollowRepo) GetOrCreate(_ context.Context, userID, authorID int64) (bool, error) {
	key := followPair{userID: userID, authorID: authorID}
	if _, ok := r.pairs[key]; ok {
		return false, nil
	}
	r.pairs[key] = struct{}{}
	return true, nil
}

func (r *fakeFollowRepo) Delete(_ context.Context, userID, authorID int64) error {
	delete(r.pairs, followPair{userID: userID, authorID: authorID})
	return nil
}

func (r *fakeFollowRepo) Exists(_ context.Context, userID, authorID int64) (bool, error) {
	_, ok := r.pairs[followPair{userID: userID, authorID: authorID}]
	return ok, nil
}

// fakeFileStorage records saves without touching the filesystem.
type fakeFileStorage struct {
	saved []string
}

func (f *fakeFileStorage) SaveFile(file *multipart.FileHeader) (string, error) {
	name := "stored/" + file.Filename
	f.saved = append(f.saved, name)
	return name, nil
}

func (f *fakeFileStorage) DeleteFile(string) error { return nil }
