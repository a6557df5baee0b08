package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/artemk/inkwell/internal/app/auth"
	"github.com/artemk/inkwell/internal/app/models"
	"github.com/artemk/inkwell/internal/pkg/apperrors"
)

type followFixture struct {
	users   *fakeUserRepo
	follows *fakeFollowRepo
	service FollowService
}

func newFollowFixture(t *testing.T) *followFixture {
	t.Helper()
	f := &followFixture{
		users:   newFakeUserRepo(),
		follows: newFakeFollowRepo(),
	}
	f.service = NewFollowService(f.follows, f.users, auth.NewGate(), zerolog.Nop())
	return f
}

func (f *followFixture) addUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	if _, err := f.users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestFollowRequiresAuthentication(t *testing.T) {
	f := newFollowFixture(t)
	f.addUser(t, "leo")

	err := f.service.Follow(context.Background(), models.Anonymous(), "leo")
	if !errors.Is(err, apperrors.ErrAuthenticationRequired) {
		t.Errorf("err = %v, want ErrAuthenticationRequired", err)
	}
}

func TestFollowUnknownAuthor(t *testing.T) {
	f := newFollowFixture(t)
	viewer := f.addUser(t, "mia")
	actor := models.Actor{UserID: viewer.ID, Username: viewer.Username, Authenticated: true}

	err := f.service.Follow(context.Background(), actor, "ghost")
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

// Following the same author twice leaves exactly one pair.
func TestFollowIsIdempotent(t *testing.T) {
	f := newFollowFixture(t)
	author := f.addUser(t, "leo")
	viewer := f.addUser(t, "mia")
	actor := models.Actor{UserID: viewer.ID, Username: viewer.Username, Authenticated: true}

	for i := 0; i < 2; i++ {
		if err := f.service.Follow(context.Background(), actor, "leo"); err != nil {
			t.Fatalf("Follow attempt %d: %v", i+1, err)
		}
	}

	if len(f.follows.pairs) != 1 {
		t.Errorf("pairs = %d, want 1", len(f.follows.pairs))
	}
	exists, _ := f.follows.Exists(context.Background(), viewer.ID, author.ID)
	if !exists {
		t.Error("expected the follow pair to exist")
	}
}

// Self-follow succeeds as a request but creates nothing.
func TestFollowSelfIsNoOp(t *testing.T) {
	f := newFollowFixture(t)
	viewer := f.addUser(t, "mia")
	actor := models.Actor{UserID: viewer.ID, Username: viewer.Username, Authenticated: true}

	if err := f.service.Follow(context.Background(), actor, "mia"); err != nil {
		t.Fatalf("Follow self: %v", err)
	}
	if len(f.follows.pairs) != 0 {
		t.Errorf("pairs = %d, want 0", len(f.follows.pairs))
	}
}

// Unfollowing twice, or without a prior follow, is not an error.
func TestUnfollowIsIdempotent(t *testing.T) {
	f := newFollowFixture(t)
	f.addUser(t, "leo")
	viewer := f.addUser(t, "mia")
	actor := models.Actor{UserID: viewer.ID, Username: viewer.Username, Authenticated: true}

	if err := f.service.Follow(context.Background(), actor, "leo"); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := f.service.Unfollow(context.Background(), actor, "leo"); err != nil {
			t.Fatalf("Unfollow attempt %d: %v", i+1, err)
		}
	}
	if len(f.follows.pairs) != 0 {
		t.Errorf("pairs = %d, want 0", len(f.follows.pairs))
	}
}

func TestUnfollowRequiresAuthentication(t *testing.T) {
	f := newFollowFixture(t)
	f.addUser(t, "leo")

	err := f.service.Unfollow(context.Background(), models.Anonymous(), "leo")
	if !errors.Is(err, apperrors.ErrAuthenticationRequired) {
		t.Errorf("err = %v, want ErrAuthenticationRequired", err)
	}
}
