package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/gradebook-api/internal/grading"
)

type layoutEntry struct {
	layout  grading.SlotLayout
	expires time.Time
}

// LayoutStore keeps the slot layout chosen by an instructor for a course.
// Layouts live in the shared cache when it is enabled and always in a local
// map, which serves reads when the cache misses or fails.
type LayoutStore struct {
	cache *CacheService
	ttl   time.Duration

	mu    sync.Mutex
	local map[string]layoutEntry
	now   func() time.Time
}

// NewLayoutStore constructs a store. cache may be nil.
func NewLayoutStore(cache *CacheService, ttl time.Duration) *LayoutStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &LayoutStore{cache: cache, ttl: ttl, local: make(map[string]layoutEntry), now: time.Now}
}

func layoutKey(userID, courseID string) string {
	return fmt.Sprintf("layout:%s:%s", userID, courseID)
}

// Load returns the stored layout or the default one.
func (s *LayoutStore) Load(ctx context.Context, userID, courseID string) grading.SlotLayout {
	key := layoutKey(userID, courseID)
	if s.cache.Enabled() {
		var cached grading.SlotLayout
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached.Normalize()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.local[key]
	if !ok || s.now().After(entry.expires) {
		delete(s.local, key)
		return grading.DefaultLayout()
	}
	return entry.layout
}

// Save records a layout for the instructor and course.
func (s *LayoutStore) Save(ctx context.Context, userID, courseID string, layout grading.SlotLayout) {
	key := layoutKey(userID, courseID)
	layout = layout.Normalize()

	s.mu.Lock()
	s.local[key] = layoutEntry{layout: layout, expires: s.now().Add(s.ttl)}
	s.sweepLocked()
	s.mu.Unlock()

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, key, layout, s.ttl)
	}
}

func (s *LayoutStore) sweepLocked() {
	now := s.now()
	for k, e := range s.local {
		if now.After(e.expires) {
			delete(s.local, k)
		}
	}
}
