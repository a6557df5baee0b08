package models

// Group represents a topic that posts can be filed under.
// Groups are created by an administrator (see internal/seed); there is no
// end-user endpoint for creating or deleting them.
type Group struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`
}
