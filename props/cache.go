package props

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the capacity of the default resolution cache.
const DefaultCacheSize = 1000

// Cache stores merged location property sets keyed by the ordered location
// list they were loaded from. A miss only means the set must be recomputed.
//
// Implementations must be safe for concurrent use. Values stored in a Cache
// are never mutated by the [Component].
type Cache interface {
	Get(key CacheKey) (*Properties, bool)
	Add(key CacheKey, value *Properties)
	Purge()
}

// lruCache is a bounded least-recently-used [Cache].
type lruCache struct {
	*lru.Cache[CacheKey, *Properties]
}

// NewCache returns a bounded least-recently-used [Cache] holding up to size
// entries. A size less than 1 selects [DefaultCacheSize].
func NewCache(size int) Cache {
	if size < 1 {
		size = DefaultCacheSize
	}

	// lru.New only fails for non-positive sizes.
	c, _ := lru.New[CacheKey, *Properties](size)

	return lruCache{c}
}

func (c lruCache) Add(key CacheKey, value *Properties) { c.Cache.Add(key, value) }

// snapshot is a one-slot cache holding the merged property set of the
// default location list.
type snapshot struct {
	p atomic.Pointer[Properties]
}

func (s *snapshot) load() (*Properties, bool) {
	p := s.p.Load()

	return p, p != nil
}

func (s *snapshot) store(p *Properties) { s.p.Store(p) }

func (s *snapshot) clear() { s.p.Store(nil) }
