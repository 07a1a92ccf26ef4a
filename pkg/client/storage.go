package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Durable storage holds exactly two keys: the raw token string and the
// serialized user record. Both are written and cleared together by the
// session store.
const (
	storageTokenKey = "token"
	storageUserKey  = "user"
)

// Storage is the durable key-value store backing the session store.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// MemStorage is an in-memory Storage, used by tests.
type MemStorage struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemStorage() *MemStorage {
	return &MemStorage{m: make(map[string]string)}
}

func (s *MemStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *MemStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// FileStorage persists keys as a JSON object in a single file, written
// atomically via rename.
type FileStorage struct {
	mu   sync.Mutex
	path string
	m    map[string]string
}

// NewFileStorage loads path if it exists; a missing or unreadable file
// starts empty.
func NewFileStorage(path string) *FileStorage {
	s := &FileStorage{path: path, m: make(map[string]string)}
	if data, err := os.ReadFile(path); err == nil {
		var m map[string]string
		if json.Unmarshal(data, &m) == nil && m != nil {
			s.m = m
		}
	}
	return s
}

func (s *FileStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return s.flush()
}

func (s *FileStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return s.flush()
}

func (s *FileStorage) flush() error {
	data, err := json.Marshal(s.m)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
