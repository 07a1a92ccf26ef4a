package client

import "sync"

// Tag marks a category of cached responses.
type Tag string

const (
	// TagAuth covers the caller's own identity (whoami).
	TagAuth Tag = "Auth"
	// TagUser covers directory data (listing, search, profiles).
	TagUser Tag = "User"
)

// Mutation identifies a state-changing call for cache invalidation.
type Mutation string

const (
	MutationSignup        Mutation = "signup"
	MutationLogin         Mutation = "login"
	MutationLogout        Mutation = "logout"
	MutationUpdateProfile Mutation = "updateProfile"
)

// invalidations maps each mutation to the tags dropped after it succeeds.
// A failed mutation invalidates nothing.
var invalidations = map[Mutation][]Tag{
	MutationSignup:        {TagAuth},
	MutationLogin:         {TagAuth},
	MutationLogout:        {TagAuth},
	MutationUpdateProfile: {TagUser, TagAuth},
}

type cacheEntry struct {
	value interface{}
	tags  []Tag
}

// Cache is a tag-invalidated response cache. Entries live until a mutation
// invalidates one of their tags; the next read then refetches.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value interface{}, tags ...Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, tags: tags}
}

// Invalidate drops every entry carrying any of the given tags.
func (c *Cache) Invalidate(tags ...Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if hasAnyTag(e.tags, tags) {
			delete(c.entries, key)
		}
	}
}

// OnMutation resolves the invalidation table for a successful mutation.
func (c *Cache) OnMutation(m Mutation) {
	if tags, ok := invalidations[m]; ok {
		c.Invalidate(tags...)
	}
}

func hasAnyTag(have, want []Tag) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
