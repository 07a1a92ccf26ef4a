// Package client is the Go API client for the whisper backend. It owns the
// session state (identity + token), persists it durably so a restart can
// restore the session, attaches the bearer token to every call, and keeps a
// tag-invalidated cache of query responses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// APIError is a failed API call. Message carries the server's
// {success:false, message} body when one was decoded.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client wraps the /api surface. Mutations update the session store and
// invalidate cached queries only when they succeed.
type Client struct {
	baseURL string
	http    *http.Client
	session *SessionStore
	cache   *Cache
}

// New creates a Client. storage backs the session store; use NewFileStorage
// for a durable session or NewMemStorage for a throwaway one.
func New(baseURL string, storage Storage) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		session: NewSessionStore(storage),
		cache:   NewCache(),
	}
}

// Session exposes the session store for state reads and subscriptions.
func (c *Client) Session() *SessionStore {
	return c.session
}

// Restore attempts to restore a persisted session. Call it once on startup,
// before any redirect decision reads IsAuthenticated.
func (c *Client) Restore() {
	c.session.Restore()
}

// SignupRequest is the payload for Signup.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for Login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate is a partial profile update. Nil fields are not sent and
// stay unchanged server-side; an empty string clears bio/phone.
type ProfileUpdate struct {
	Username   *string `json:"username,omitempty"`
	Email      *string `json:"email,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	ProfilePic *string `json:"profilePic,omitempty"`
	Password   *string `json:"password,omitempty"`
}

type userEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token"`
}

type usersEnvelope struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Users   []User `json:"users"`
}

// Signup registers a new account and signs the session in.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &env); err != nil {
		return User{}, err
	}
	if err := validateUser(env.User); err != nil {
		return User{}, err
	}
	if env.Token == "" {
		return User{}, fmt.Errorf("missing token in signup response")
	}
	c.session.SetCredentials(*env.User, env.Token)
	c.cache.OnMutation(MutationSignup)
	return *env.User, nil
}

// Login signs the session in.
func (c *Client) Login(ctx context.Context, req LoginRequest) (User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &env); err != nil {
		return User{}, err
	}
	if err := validateUser(env.User); err != nil {
		return User{}, err
	}
	if env.Token == "" {
		return User{}, fmt.Errorf("missing token in login response")
	}
	c.session.SetCredentials(*env.User, env.Token)
	c.cache.OnMutation(MutationLogin)
	return *env.User, nil
}

// Logout tells the server to clear the online flag, then drops the local
// session. A failed call leaves session and cache untouched.
func (c *Client) Logout(ctx context.Context) error {
	var env userEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, &env); err != nil {
		return err
	}
	c.session.Logout()
	c.cache.OnMutation(MutationLogout)
	return nil
}

// UpdateProfile updates the caller's record and merges the response into the
// session.
func (c *Client) UpdateProfile(ctx context.Context, req ProfileUpdate) (User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodPut, "/users/profile", req, &env); err != nil {
		return User{}, err
	}
	if err := validateUser(env.User); err != nil {
		return User{}, err
	}
	c.session.UpdateUser(patchFromUser(*env.User))
	c.cache.OnMutation(MutationUpdateProfile)
	return *env.User, nil
}

// Me returns the authenticated identity, cached under the Auth tag.
func (c *Client) Me(ctx context.Context) (User, error) {
	const key = "me"
	if v, ok := c.cache.Get(key); ok {
		return v.(User), nil
	}
	var env userEnvelope
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &env); err != nil {
		return User{}, err
	}
	if err := validateUser(env.User); err != nil {
		return User{}, err
	}
	c.cache.Set(key, *env.User, TagAuth)
	return *env.User, nil
}

// Users lists everyone except the caller, cached under the User tag.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	const key = "users"
	if v, ok := c.cache.Get(key); ok {
		return v.([]User), nil
	}
	var env usersEnvelope
	if err := c.do(ctx, http.MethodGet, "/users", nil, &env); err != nil {
		return nil, err
	}
	c.cache.Set(key, env.Users, TagUser)
	return env.Users, nil
}

// UserByID fetches one profile, cached under the User tag.
func (c *Client) UserByID(ctx context.Context, id string) (User, error) {
	key := "user:" + id
	if v, ok := c.cache.Get(key); ok {
		return v.(User), nil
	}
	var env userEnvelope
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &env); err != nil {
		return User{}, err
	}
	if err := validateUser(env.User); err != nil {
		return User{}, err
	}
	c.cache.Set(key, *env.User, TagUser)
	return *env.User, nil
}

// SearchUsers queries the directory, cached per term under the User tag.
// An empty term is rejected server-side with 400.
func (c *Client) SearchUsers(ctx context.Context, term string) ([]User, error) {
	key := "search:" + term
	if v, ok := c.cache.Get(key); ok {
		return v.([]User), nil
	}
	var env usersEnvelope
	if err := c.do(ctx, http.MethodGet, "/users/search?q="+url.QueryEscape(term), nil, &env); err != nil {
		return nil, err
	}
	c.cache.Set(key, env.Users, TagUser)
	return env.Users, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.session.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var env struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&env) == nil && env.Message != "" {
			apiErr.Message = env.Message
		}
		return apiErr
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
