package models

import "time"

// Comment defines the comment model based on the 'comments' table.
// Comments are immutable after creation; PostID and AuthorID are never null.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	PostID    int64     `json:"postId" db:"post_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Author *User `json:"author,omitempty"` // relation, no db tag
}
