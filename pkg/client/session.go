package client

import (
	"encoding/json"
	"sync"
)

// State is an immutable snapshot of the session. IsAuthenticated is true iff
// both User and Token are set. IsInitialized distinguishes "restoration not
// yet attempted" from "attempted and found nothing"; route guards must not
// read IsAuthenticated before it turns true.
type State struct {
	User            *User
	Token           string
	IsAuthenticated bool
	IsInitialized   bool
}

// SessionStore owns the client session. It is the single writer: UI code
// mutates it only through the methods below and reads it via State()
// snapshots or Subscribe callbacks. Every credential-setting mutation is
// mirrored to durable storage.
type SessionStore struct {
	mu      sync.Mutex
	user    *User
	token   string
	initial bool // isInitialized
	storage Storage
	subs    []func(State)
}

func NewSessionStore(storage Storage) *SessionStore {
	return &SessionStore{storage: storage}
}

// SetCredentials installs the identity and token from a login or signup
// response and persists both durably.
func (s *SessionStore) SetCredentials(user User, token string) {
	s.mu.Lock()
	s.user = &user
	s.token = token
	s.initial = true
	s.persistLocked()
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(snap, subs)
}

// UpdateUser merges a partial update into the current identity, if one is
// present, and re-persists it.
func (s *SessionStore) UpdateUser(patch UserPatch) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	if patch.Username != nil {
		s.user.Username = *patch.Username
	}
	if patch.Email != nil {
		s.user.Email = *patch.Email
	}
	if patch.Bio != nil {
		s.user.Bio = *patch.Bio
	}
	if patch.Phone != nil {
		s.user.Phone = *patch.Phone
	}
	if patch.ProfilePic != nil {
		s.user.ProfilePic = *patch.ProfilePic
	}
	if patch.IsOnline != nil {
		s.user.IsOnline = *patch.IsOnline
	}
	if patch.LastSeen != nil {
		s.user.LastSeen = *patch.LastSeen
	}
	s.persistLocked()
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(snap, subs)
}

// Logout clears the session and durable storage. The session stays
// initialized.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.initial = true
	s.storage.Delete(storageTokenKey)
	s.storage.Delete(storageUserKey)
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(snap, subs)
}

// Restore reads durable storage once and populates the session when both the
// token and the user are present. It is idempotent: the first call flips
// IsInitialized, later calls do nothing.
func (s *SessionStore) Restore() {
	s.mu.Lock()
	if s.initial {
		s.mu.Unlock()
		return
	}
	s.initial = true

	tok, okTok := s.storage.Get(storageTokenKey)
	raw, okUser := s.storage.Get(storageUserKey)
	if okTok && okUser && tok != "" {
		var u User
		if err := json.Unmarshal([]byte(raw), &u); err == nil && validateUser(&u) == nil {
			s.user = &u
			s.token = tok
		}
	}
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(snap, subs)
}

// State returns a snapshot of the session.
func (s *SessionStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, _ := s.snapshotLocked()
	return snap
}

// Token returns the current token, or "" when unauthenticated.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Subscribe registers fn to run after every mutation with the new state.
func (s *SessionStore) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *SessionStore) persistLocked() {
	if s.user == nil || s.token == "" {
		return
	}
	if raw, err := json.Marshal(s.user); err == nil {
		s.storage.Set(storageTokenKey, s.token)
		s.storage.Set(storageUserKey, string(raw))
	}
}

func (s *SessionStore) snapshotLocked() (State, []func(State)) {
	var user *User
	if s.user != nil {
		cp := *s.user
		user = &cp
	}
	snap := State{
		User:            user,
		Token:           s.token,
		IsAuthenticated: s.user != nil && s.token != "",
		IsInitialized:   s.initial,
	}
	subs := make([]func(State), len(s.subs))
	copy(subs, s.subs)
	return snap, subs
}

// notify runs outside the lock so subscribers can safely read the store.
func notify(snap State, subs []func(State)) {
	for _, fn := range subs {
		fn(snap)
	}
}
