package dto

import (
	"time"

	"github.com/artemk/inkwell/internal/app/models"
)

// PostForm carries the raw create/edit form fields. Group stays the raw
// submitted value; the service resolves it against the group table.
// The image file travels separately as a multipart header.
type PostForm struct {
	Text  string `form:"text" validate:"required"`
	Group string `form:"group"`
}

// PostResponse is the view model for a single post inside feeds and the
// detail page.
type PostResponse struct {
	ID        int64          `json:"id"`
	Text      string         `json:"text"`
	ImageURL  *string        `json:"imageUrl,omitempty"`
	Author    UserResponse   `json:"author"`
	Group     *GroupResponse `json:"group,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// FeedResponse is an ordered page of posts plus pagination metadata.
type FeedResponse struct {
	Posts      []PostResponse `json:"posts"`
	Pagination PaginationInfo `json:"pagination"`
}

// GroupFeedResponse is the group view: the group itself plus its feed page.
type GroupFeedResponse struct {
	Group      GroupResponse  `json:"group"`
	Posts      []PostResponse `json:"posts"`
	Pagination PaginationInfo `json:"pagination"`
}

// PostDetailResponse is the detail view: the post, its comments, and the
// author's total post count.
type PostDetailResponse struct {
	Post             PostResponse      `json:"post"`
	AuthorPostsCount int64             `json:"authorPostsCount"`
	Comments         []CommentResponse `json:"comments"`
}

// NewPostResponse maps a model to its view representation. Relations that
// were not loaded stay zero-valued.
func NewPostResponse(post *models.Post) PostResponse {
	resp := PostResponse{
		ID:        post.ID,
		Text:      post.Text,
		ImageURL:  post.ImagePath,
		CreatedAt: post.CreatedAt,
	}
	if post.Author != nil {
		resp.Author = NewUserResponse(post.Author)
	}
	if post.Group != nil {
		g := NewGroupResponse(post.Group)
		resp.Group = &g
	}
	return resp
}

// NewPostResponses maps a slice of posts.
func NewPostResponses(posts []models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, NewPostResponse(&posts[i]))
	}
	return out
}
