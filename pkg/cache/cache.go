// Package cache holds previously computed check results keyed by query
// text and schema version.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the entry capacity used when callers pass no size.
const DefaultSize = 512

// ResultCache is an LRU cache for computed check results. It is safe for
// concurrent use.
type ResultCache[V any] struct {
	entries *lru.Cache[string, V]
}

// New creates a cache with the given capacity. A non-positive size falls
// back to DefaultSize.
func New[V any](size int) (*ResultCache[V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, V](size)
	if err != nil {
		return nil, err
	}
	return &ResultCache[V]{entries: entries}, nil
}

// Key derives the cache key for a query under a schema version. Entries
// computed under an older version never collide with the current one.
func Key(schemaVersion, sql string) string {
	sum := sha256.Sum256([]byte(schemaVersion + "\x00" + sql))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached value for key, if present.
func (c *ResultCache[V]) Get(key string) (V, bool) {
	return c.entries.Get(key)
}

// Put stores a value under key.
func (c *ResultCache[V]) Put(key string, value V) {
	c.entries.Add(key, value)
}

// Len returns the number of cached entries.
func (c *ResultCache[V]) Len() int {
	return c.entries.Len()
}

// Clear drops every entry. Called when the schema changes out from under
// a long-lived process.
func (c *ResultCache[V]) Clear() {
	c.entries.Purge()
}
