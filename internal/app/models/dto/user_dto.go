package dto

import "github.com/artemk/inkwell/internal/app/models"

// UserResponse is the view model for a referenced user.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// ProfileResponse is the author-feed view: the author, their paginated
// posts, the author's total post count, and - for authenticated actors -
// whether the actor currently follows the author.
type ProfileResponse struct {
	Author     UserResponse   `json:"author"`
	Posts      []PostResponse `json:"posts"`
	Pagination PaginationInfo `json:"pagination"`
	PostsCount int64          `json:"postsCount"`
	Following  *bool          `json:"following,omitempty"` // nil for anonymous actors
}

// NewUserResponse maps a user model to its view representation.
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
	}
}
