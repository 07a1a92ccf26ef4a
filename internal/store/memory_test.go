package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestMemoryStore_Create(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	user, err := s.Create(ctx, "alice", "a@x.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	assert.False(t, user.ID.IsZero())
}

func TestMemoryStore_Create_Duplicates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Create(ctx, "alice", "a@x.com", "hash")
	require.NoError(t, err)

	_, err = s.Create(ctx, "bob", "a@x.com", "hash")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = s.Create(ctx, "alice", "b@x.com", "hash")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestMemoryStore_Create_ConcurrentSameEmail(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Create(ctx, fmt.Sprintf("alice%d", i), "a@x.com", "hash")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrDuplicateEmail)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestMemoryStore_FindByEmail_HashInclusion(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Create(ctx, "alice", "a@x.com", "hash")
	require.NoError(t, err)

	withHash, err := s.FindByEmail(ctx, "a@x.com", true)
	require.NoError(t, err)
	assert.Equal(t, "hash", withHash.Password)

	withoutHash, err := s.FindByEmail(ctx, "a@x.com", false)
	require.NoError(t, err)
	assert.Empty(t, withoutHash.Password)

	_, err = s.FindByEmail(ctx, "missing@x.com", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_FindByID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	created, err := s.Create(ctx, "alice", "a@x.com", "hash")
	require.NoError(t, err)

	found, err := s.FindByID(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)
	assert.Empty(t, found.Password)

	_, err = s.FindByID(ctx, "ffffffffffffffffffffffff")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Update_PartialSemantics(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	created, err := s.Create(ctx, "alice", "a@x.com", "hash")
	require.NoError(t, err)
	id := created.ID.Hex()

	// Set a bio, leave everything else.
	updated, err := s.Update(ctx, id, UserUpdate{Bio: strptr("hello")})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Bio)
	assert.Equal(t, "alice", updated.Username)

	// Empty bio clears it; nil leaves it.
	updated, err = s.Update(ctx, id, UserUpdate{Bio: strptr("")})
	require.NoError(t, err)
	assert.Empty(t, updated.Bio)

	updated, err = s.Update(ctx, id, UserUpdate{Phone: strptr("123")})
	require.NoError(t, err)
	assert.Empty(t, updated.Bio)
	assert.Equal(t, "123", updated.Phone)

	// Empty username is a no-op, not a clear.
	updated, err = s.Update(ctx, id, UserUpdate{Username: strptr("")})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Username)

	// Non-empty username applies.
	updated, err = s.Update(ctx, id, UserUpdate{Username: strptr("alice2")})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
}

func TestMemoryStore_Update_DuplicateUsername(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Create(ctx, "alice", "a@x.com", "hash")
	require.NoError(t, err)
	bob, err := s.Create(ctx, "bob", "b@x.com", "hash")
	require.NoError(t, err)

	_, err = s.Update(ctx, bob.ID.Hex(), UserUpdate{Username: strptr("alice")})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	_, err = s.Update(ctx, bob.ID.Hex(), UserUpdate{Email: strptr("a@x.com")})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestMemoryStore_List(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	carol, err := s.Create(ctx, "carol", "c@x.com", "hash")
	require.NoError(t, err)
	_, err = s.Create(ctx, "alice", "a@x.com", "hash")
	require.NoError(t, err)
	_, err = s.Create(ctx, "bob", "b@x.com", "hash")
	require.NoError(t, err)

	users, err := s.List(ctx, carol.ID.Hex())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	for _, u := range users {
		assert.Empty(t, u.Password)
	}
}

func TestMemoryStore_Search(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	alice, err := s.Create(ctx, "alice", "alice@x.com", "hash")
	require.NoError(t, err)
	_, err = s.Create(ctx, "alicia", "alicia@x.com", "hash")
	require.NoError(t, err)
	_, err = s.Create(ctx, "bob", "bob@x.com", "hash")
	require.NoError(t, err)

	// Case-insensitive match over username, excluding the caller even if the
	// caller's own name matches.
	users, err := s.Search(ctx, "ALI", alice.ID.Hex())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alicia", users[0].Username)

	// Match over email too.
	users, err = s.Search(ctx, "bob@", alice.ID.Hex())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)
}

func TestMemoryStore_Search_CapsResults(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	caller, err := s.Create(ctx, "caller", "caller@x.com", "hash")
	require.NoError(t, err)
	for i := 0; i < SearchLimit+5; i++ {
		_, err := s.Create(ctx, fmt.Sprintf("match%02d", i), fmt.Sprintf("match%02d@x.com", i), "hash")
		require.NoError(t, err)
	}

	users, err := s.Search(ctx, "match", caller.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, users, SearchLimit)
}

func TestMemoryStore_SetOffline(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	created, err := s.Create(ctx, "alice", "a@x.com", "hash")
	require.NoError(t, err)

	require.NoError(t, s.SetOffline(ctx, created.ID.Hex()))

	found, err := s.FindByID(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.False(t, found.IsOnline)
	assert.False(t, found.LastSeen.IsZero())

	assert.ErrorIs(t, s.SetOffline(ctx, "ffffffffffffffffffffffff"), ErrNotFound)
}
