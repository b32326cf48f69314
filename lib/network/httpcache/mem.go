package httpcache

import (
	"time"

	"github.com/hashicorp/golang-lru"
)

// MemCacheAdapter holds cached pages in-process, bounded by an lru cache.
type MemCacheAdapter struct {
	entries *lru.Cache
}

func NewMemCacheAdapter(size int) *MemCacheAdapter {
	entries, err := lru.New(size)
	if err != nil {
		panic(err)
	}

	return &MemCacheAdapter{entries: entries}
}

func (m *MemCacheAdapter) Get(key string) (*Response, bool) {
	value, ok := m.entries.Get(key)
	if !ok {
		return nil, false
	}

	resp, ok := value.(*Response)
	return resp, ok
}

// The lru bound is the only eviction here; staleness is the client's call.
func (m *MemCacheAdapter) Set(key string, resp *Response, expire time.Time) {
	m.entries.Add(key, resp)
}

func (m *MemCacheAdapter) Remove(key string) {
	m.entries.Remove(key)
}
