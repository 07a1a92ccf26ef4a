package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/whisper-backend/internal/models"
)

// MemoryStore is an in-memory UserStore used by tests. All operations run
// under a single mutex, so uniqueness holds even under concurrent creates.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by ID hex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*models.User)}
}

func (s *MemoryStore) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, ErrDuplicateEmail
		}
		if u.Username == username {
			return nil, ErrDuplicateUsername
		}
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		Username:  username,
		Email:     email,
		Password:  passwordHash,
		LastSeen:  now,
	}
	s.users[user.ID.Hex()] = user
	return copyUser(user, true), nil
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string, includeHash bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u, includeHash), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u, false), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, upd UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	if upd.Username != nil && *upd.Username != "" && *upd.Username != u.Username {
		for _, other := range s.users {
			if other.ID != u.ID && other.Username == *upd.Username {
				return nil, ErrDuplicateUsername
			}
		}
		u.Username = *upd.Username
	}
	if upd.Email != nil && *upd.Email != "" && *upd.Email != u.Email {
		for _, other := range s.users {
			if other.ID != u.ID && other.Email == *upd.Email {
				return nil, ErrDuplicateEmail
			}
		}
		u.Email = *upd.Email
	}
	if upd.ProfilePic != nil && *upd.ProfilePic != "" {
		u.ProfilePic = *upd.ProfilePic
	}
	if upd.Password != nil && *upd.Password != "" {
		u.Password = *upd.Password
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	u.UpdatedAt = time.Now().UTC()

	return copyUser(u, false), nil
}

func (s *MemoryStore) List(ctx context.Context, excludeID string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := []models.User{}
	for id, u := range s.users {
		if id == excludeID {
			continue
		}
		users = append(users, *copyUser(u, false))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *MemoryStore) Search(ctx context.Context, q, excludeID string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(q)
	users := []models.User{}
	for id, u := range s.users {
		if id == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) {
			users = append(users, *copyUser(u, false))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	if len(users) > SearchLimit {
		users = users[:SearchLimit]
	}
	return users, nil
}

func (s *MemoryStore) SetOffline(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.IsOnline = false
	u.LastSeen = time.Now().UTC()
	return nil
}

func copyUser(u *models.User, includeHash bool) *models.User {
	cp := *u
	if !includeHash {
		cp.Password = ""
	}
	return &cp
}
