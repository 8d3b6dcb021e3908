package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/faqbot/internal/domain"
	"github.com/patrickmn/go-cache"
)

type entry struct {
	mu      sync.Mutex
	session *domain.Session
}

// MemoryStore implements Repository on a TTL cache. Every access extends the
// session lifetime; idle sessions expire and are dropped.
type MemoryStore struct {
	mu    sync.Mutex // guards get-or-create
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemoryStore creates a store whose sessions expire after ttl of inactivity.
// onEnd, if non-nil, is called with the ID of every expired or deleted session.
func NewMemoryStore(ttl time.Duration, onEnd func(id string)) *MemoryStore {
	c := cache.New(ttl, ttl/2)
	c.OnEvicted(func(id string, _ interface{}) {
		slog.Info("Chat session ended", "session_id", id)
		if onEnd != nil {
			onEnd(id)
		}
	})
	return &MemoryStore{cache: c, ttl: ttl}
}

func (s *MemoryStore) entry(id string, create func() *domain.Session) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if x, found := s.cache.Get(id); found {
		return x.(*entry)
	}
	e := &entry{session: create()}
	s.cache.Set(id, e, cache.DefaultExpiration)
	return e
}

// Update runs fn under the session's lock and refreshes its expiry.
func (s *MemoryStore) Update(id string, create func() *domain.Session, fn func(*domain.Session) error) error {
	e := s.entry(id, create)

	e.mu.Lock()
	defer e.mu.Unlock()

	err := fn(e.session)
	s.cache.Set(id, e, cache.DefaultExpiration)
	return err
}

// Get retrieves a session by ID.
func (s *MemoryStore) Get(id string) (*domain.Session, bool) {
	if x, found := s.cache.Get(id); found {
		return x.(*entry).session, true
	}
	return nil, false
}

// Delete ends a session.
func (s *MemoryStore) Delete(id string) {
	s.cache.Delete(id)
}

// Count returns the number of live sessions.
func (s *MemoryStore) Count() int {
	return s.cache.ItemCount()
}

var _ Repository = (*MemoryStore)(nil)
