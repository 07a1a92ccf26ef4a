package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := NewFileStorage(path)
	require.NoError(t, s.Set(storageTokenKey, "tok-1"))
	require.NoError(t, s.Set(storageUserKey, `{"id":"1","username":"alice"}`))

	// A new instance over the same file sees both keys.
	reloaded := NewFileStorage(path)
	tok, ok := reloaded.Get(storageTokenKey)
	require.True(t, ok)
	assert.Equal(t, "tok-1", tok)
	_, ok = reloaded.Get(storageUserKey)
	assert.True(t, ok)
}

func TestFileStorage_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := NewFileStorage(path)
	require.NoError(t, s.Set(storageTokenKey, "tok-1"))
	require.NoError(t, s.Delete(storageTokenKey))

	_, ok := NewFileStorage(path).Get(storageTokenKey)
	assert.False(t, ok)
}

func TestFileStorage_MissingFileStartsEmpty(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "missing.json"))
	_, ok := s.Get(storageTokenKey)
	assert.False(t, ok)
}

func TestFileStorage_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{garbage"), 0o600))

	s := NewFileStorage(path)
	_, ok := s.Get(storageTokenKey)
	assert.False(t, ok)

	// And it is still writable afterwards.
	require.NoError(t, s.Set(storageTokenKey, "tok-1"))
	v, ok := NewFileStorage(path).Get(storageTokenKey)
	require.True(t, ok)
	assert.Equal(t, "tok-1", v)
}
