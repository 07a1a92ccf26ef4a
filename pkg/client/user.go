package client

import (
	"errors"
	"time"
)

// User is the identity record as the API returns it. Responses are validated
// into this shape once, at the response-parsing boundary; downstream code
// never re-validates.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Bio        string    `json:"bio"`
	Phone      string    `json:"phone,omitempty"`
	ProfilePic string    `json:"profilePic"`
	IsOnline   bool      `json:"isOnline"`
	LastSeen   time.Time `json:"lastSeen"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

var errMalformedUser = errors.New("malformed user in response")

func validateUser(u *User) error {
	if u == nil || u.ID == "" || u.Username == "" {
		return errMalformedUser
	}
	return nil
}

// UserPatch is a partial user update applied to the session's current
// identity. Nil fields are left unchanged.
type UserPatch struct {
	Username   *string
	Email      *string
	Bio        *string
	Phone      *string
	ProfilePic *string
	IsOnline   *bool
	LastSeen   *time.Time
}

func patchFromUser(u User) UserPatch {
	return UserPatch{
		Username:   &u.Username,
		Email:      &u.Email,
		Bio:        &u.Bio,
		Phone:      &u.Phone,
		ProfilePic: &u.ProfilePic,
		IsOnline:   &u.IsOnline,
		LastSeen:   &u.LastSeen,
	}
}
