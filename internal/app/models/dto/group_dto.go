package dto

import "github.com/artemk/inkwell/internal/app/models"

// GroupResponse is the view model for a group.
type GroupResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// NewGroupResponse maps a group model to its view representation.
func NewGroupResponse(group *models.Group) GroupResponse {
	return GroupResponse{
		ID:          group.ID,
		Title:       group.Title,
		Slug:        group.Slug,
		Description: group.Description,
	}
}

// NewGroupResponses maps a slice of groups.
func NewGroupResponses(groups []models.Group) []GroupResponse {
	out := make([]GroupResponse, 0, len(groups))
	for i := range groups {
		out = append(out, NewGroupResponse(&groups[i]))
	}
	return out
}
