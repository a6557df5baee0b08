package models

// Actor is the entity issuing the current request: either an authenticated
// user resolved from the identity provider's session token, or anonymous.
type Actor struct {
	UserID        int64
	Username      string
	Authenticated bool
}

// Anonymous returns the unauthenticated actor.
func Anonymous() Actor {
	return Actor{}
}
