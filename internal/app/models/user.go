package models

import "time"

// User defines the user model based on the 'users' table.
// User records are owned by the external identity provider; this
// application only references them and never mutates profile fields.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // hashed credential, managed by the identity provider
	IsAdmin   bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
