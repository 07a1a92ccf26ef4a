package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() User {
	return User{ID: "507f1f77bcf86cd799439011", Username: "alice", Email: "a@x.com"}
}

func TestSessionStore_SetCredentials(t *testing.T) {
	storage := NewMemStorage()
	s := NewSessionStore(storage)

	s.SetCredentials(testUser(), "tok-1")

	state := s.State()
	assert.True(t, state.IsAuthenticated)
	assert.True(t, state.IsInitialized)
	assert.Equal(t, "tok-1", state.Token)
	require.NotNil(t, state.User)
	assert.Equal(t, "alice", state.User.Username)

	// Both keys persisted together.
	tok, ok := storage.Get(storageTokenKey)
	require.True(t, ok)
	assert.Equal(t, "tok-1", tok)
	raw, ok := storage.Get(storageUserKey)
	require.True(t, ok)
	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	assert.Equal(t, "alice", u.Username)
}

func TestSessionStore_Restore_NoData(t *testing.T) {
	s := NewSessionStore(NewMemStorage())

	initializations := 0
	s.Subscribe(func(st State) {
		if st.IsInitialized {
			initializations++
		}
	})

	s.Restore()
	state := s.State()
	assert.False(t, state.IsAuthenticated)
	assert.True(t, state.IsInitialized)

	// Idempotent: a second restore neither re-notifies nor flips state.
	s.Restore()
	assert.Equal(t, 1, initializations)
	assert.False(t, s.State().IsAuthenticated)
}

func TestSessionStore_Restore_WithData(t *testing.T) {
	storage := NewMemStorage()
	first := NewSessionStore(storage)
	first.SetCredentials(testUser(), "tok-1")

	// Fresh store over the same storage, as after a page load.
	second := NewSessionStore(storage)
	assert.False(t, second.State().IsInitialized)

	second.Restore()
	state := second.State()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "tok-1", state.Token)
	require.NotNil(t, state.User)
	assert.Equal(t, "alice", state.User.Username)
}

func TestSessionStore_Restore_CorruptUser(t *testing.T) {
	storage := NewMemStorage()
	storage.Set(storageTokenKey, "tok-1")
	storage.Set(storageUserKey, "{not json")

	s := NewSessionStore(storage)
	s.Restore()

	state := s.State()
	assert.False(t, state.IsAuthenticated)
	assert.True(t, state.IsInitialized)
}

func TestSessionStore_Restore_TokenOnly(t *testing.T) {
	storage := NewMemStorage()
	storage.Set(storageTokenKey, "tok-1")

	s := NewSessionStore(storage)
	s.Restore()

	assert.False(t, s.State().IsAuthenticated)
}

func TestSessionStore_Logout(t *testing.T) {
	storage := NewMemStorage()
	s := NewSessionStore(storage)
	s.SetCredentials(testUser(), "tok-1")

	s.Logout()

	state := s.State()
	assert.False(t, state.IsAuthenticated)
	assert.True(t, state.IsInitialized)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)

	_, ok := storage.Get(storageTokenKey)
	assert.False(t, ok)
	_, ok = storage.Get(storageUserKey)
	assert.False(t, ok)
}

func TestSessionStore_UpdateUser(t *testing.T) {
	storage := NewMemStorage()
	s := NewSessionStore(storage)

	// No identity present: a merge is a no-op.
	bio := "hello"
	s.UpdateUser(UserPatch{Bio: &bio})
	assert.Nil(t, s.State().User)

	s.SetCredentials(testUser(), "tok-1")
	s.UpdateUser(UserPatch{Bio: &bio})

	state := s.State()
	require.NotNil(t, state.User)
	assert.Equal(t, "hello", state.User.Bio)
	assert.Equal(t, "alice", state.User.Username)

	// Re-persisted.
	raw, ok := storage.Get(storageUserKey)
	require.True(t, ok)
	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	assert.Equal(t, "hello", u.Bio)
}

func TestSessionStore_SubscriberSeesEveryMutation(t *testing.T) {
	s := NewSessionStore(NewMemStorage())

	var states []State
	s.Subscribe(func(st State) { states = append(states, st) })

	s.Restore()
	s.SetCredentials(testUser(), "tok-1")
	s.Logout()

	require.Len(t, states, 3)
	assert.False(t, states[0].IsAuthenticated)
	assert.True(t, states[1].IsAuthenticated)
	assert.False(t, states[2].IsAuthenticated)
}

func TestSessionStore_StateSnapshotIsIsolated(t *testing.T) {
	s := NewSessionStore(NewMemStorage())
	s.SetCredentials(testUser(), "tok-1")

	snap := s.State()
	snap.User.Username = "mutated"

	assert.Equal(t, "alice", s.State().User.Username)
}
