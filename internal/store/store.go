package store

import (
	"context"
	"errors"

	"github.com/AnshRaj112/whisper-backend/internal/models"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
)

// SearchLimit caps the number of results returned by Search.
const SearchLimit = 20

// UserUpdate is a partial update. A nil field means "leave unchanged".
// Bio and Phone overwrite whenever set, including with the empty string
// (clearing them). Username, Email, ProfilePic and Password are only applied
// when set to a non-empty value.
type UserUpdate struct {
	Username   *string
	Email      *string
	Bio        *string
	Phone      *string
	ProfilePic *string
	Password   *string // already hashed by the caller
}

// UserStore is the credential store. Uniqueness of username and email is
// enforced by the store itself (unique indexes for Mongo, a single lock for
// the in-memory store); any pre-check a caller performs is advisory only.
type UserStore interface {
	// Create inserts a new user. The store performs an advisory combined
	// username/email lookup first, but the authoritative duplicate rejection
	// happens at insert time: two concurrent creates with the same email can
	// both pass the pre-check, and the second insert must still fail with
	// ErrDuplicateEmail or ErrDuplicateUsername.
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)

	// FindByEmail returns the user or ErrNotFound. The password hash is only
	// populated when includeHash is true.
	FindByEmail(ctx context.Context, email string, includeHash bool) (*models.User, error)

	// FindByID returns the user or ErrNotFound. An unparseable ID counts as
	// not found.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// Update applies a partial update and returns the updated record.
	Update(ctx context.Context, id string, upd UserUpdate) (*models.User, error)

	// List returns every user except excludeID, ordered by username ascending,
	// hashes excluded.
	List(ctx context.Context, excludeID string) ([]models.User, error)

	// Search matches q case-insensitively as a substring of username or email,
	// excluding excludeID, capped at SearchLimit results, hashes excluded.
	Search(ctx context.Context, q, excludeID string) ([]models.User, error)

	// SetOffline clears the online flag and stamps last-seen. Best effort.
	SetOffline(ctx context.Context, id string) error
}
