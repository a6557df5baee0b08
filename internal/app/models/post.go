package models

import "time"

// Post defines the post model based on the 'posts' table.
// AuthorID is fixed at creation; edits may only touch Text, GroupID and
// ImagePath.
type Post struct {
	ID        int64     `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	ImagePath *string   `json:"imagePath,omitempty" db:"image_path"` // nullable, set by the file storage collaborator
	GroupID   *int64    `json:"groupId,omitempty" db:"group_id"`     // nullable
	AuthorID  int64     `json:"authorId" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Author *User  `json:"author,omitempty"` // relation, no db tag
	Group  *Group `json:"group,omitempty"`  // relation, no db tag
}
