package models

import "time"

// Follow represents a directed follow edge: UserID follows AuthorID.
// The (user_id, author_id) pair is unique in the 'follows' table.
// Irreflexivity (no self-follow) is enforced by the authorization gate,
// not by the schema.
type Follow struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
