package metrics

import (
	"sync/atomic"
)

// Entity labels used by the cache counters.
const (
	EntityUser = "user"
	EntityPost = "post"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UserCacheHits   uint64
	UserCacheMisses uint64
	PostCacheHits   uint64
	PostCacheMisses uint64
	UsersCreated    uint64
	UsersUpdated    uint64
	UsersDeleted    uint64
	PostsCreated    uint64
	PostsUpdated    uint64
	PostsDeleted    uint64
}

// InMemoryRecorder keeps counters in process memory and backs /metrics.
type InMemoryRecorder struct {
	userCacheHits   uint64
	userCacheMisses uint64
	postCacheHits   uint64
	postCacheMisses uint64
	usersCreated    uint64
	usersUpdated    uint64
	usersDeleted    uint64
	postsCreated    uint64
	postsUpdated    uint64
	postsDeleted    uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UserCacheHits:   atomic.LoadUint64(&m.userCacheHits),
		UserCacheMisses: atomic.LoadUint64(&m.userCacheMisses),
		PostCacheHits:   atomic.LoadUint64(&m.postCacheHits),
		PostCacheMisses: atomic.LoadUint64(&m.postCacheMisses),
		UsersCreated:    atomic.LoadUint64(&m.usersCreated),
		UsersUpdated:    atomic.LoadUint64(&m.usersUpdated),
		UsersDeleted:    atomic.LoadUint64(&m.usersDeleted),
		PostsCreated:    atomic.LoadUint64(&m.postsCreated),
		PostsUpdated:    atomic.LoadUint64(&m.postsUpdated),
		PostsDeleted:    atomic.LoadUint64(&m.postsDeleted),
	}
}

// IncCacheHit increments the cache hit counter for entity.
func (m *InMemoryRecorder) IncCacheHit(entity string) {
	switch entity {
	case EntityUser:
		atomic.AddUint64(&m.userCacheHits, 1)
	case EntityPost:
		atomic.AddUint64(&m.postCacheHits, 1)
	}
}

// IncCacheMiss increments the cache miss counter for entity.
func (m *InMemoryRecorder) IncCacheMiss(entity string) {
	switch entity {
	case EntityUser:
		atomic.AddUint64(&m.userCacheMisses, 1)
	case EntityPost:
		atomic.AddUint64(&m.postCacheMisses, 1)
	}
}

// IncUserCreated increments user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncUserUpdated increments user updated counter.
func (m *InMemoryRecorder) IncUserUpdated() {
	atomic.AddUint64(&m.usersUpdated, 1)
}

// IncUserDeleted increments user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	atomic.AddUint64(&m.usersDeleted, 1)
}

// IncPostCreated increments post created counter.
func (m *InMemoryRecorder) IncPostCreated() {
	atomic.AddUint64(&m.postsCreated, 1)
}

// IncPostUpdated increments post updated counter.
func (m *InMemoryRecorder) IncPostUpdated() {
	atomic.AddUint64(&m.postsUpdated, 1)
}

// IncPostDeleted increments post deleted counter.
func (m *InMemoryRecorder) IncPostDeleted() {
	atomic.AddUint64(&m.postsDeleted, 1)
}
