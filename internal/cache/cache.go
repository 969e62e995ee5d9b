package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is an in-memory, size-bounded store whose entries expire after ttl.
// It is safe for concurrent use.
type Cache[V any] struct {
	entries *expirable.LRU[string, V]
}

// New creates a cache holding at most size entries. A ttl of zero keeps
// entries until they are evicted by size.
func New[V any](size int, ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: expirable.NewLRU[string, V](size, nil, ttl),
	}
}

// GenerateHash returns the hex SHA-256 of content, used as cache key.
func GenerateHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

func (c *Cache[V]) Get(key string) (V, bool) {
	return c.entries.Get(key)
}

func (c *Cache[V]) Set(key string, value V) {
	c.entries.Add(key, value)
}

func (c *Cache[V]) Len() int {
	return c.entries.Len()
}

