// Package cache keeps the last collection fetched for each list page so the
// dashboard can show stale-but-present rows when a refetch fails.
//
// Values are stored as JSON with their write time and TTL. Memory is an LRU
// map used in tests and when no cache directory is usable; BadgerCache is
// the persistent store shared by the process. Each backend host reads and
// writes through its own Namespace of the shared store.
package cache

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/devnullvoid/shoptui/internal/logger"
	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
)

// Cache is a JSON key-value store with per-entry expiry.
type Cache interface {
	// Get unmarshals the value of key into dest and reports whether a live
	// entry was found.
	Get(key string, dest interface{}) (bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(key string, data interface{}, ttl time.Duration) error

	Delete(key string) error

	// Clear removes every entry visible through this Cache.
	Clear() error

	Close() error
}

// Store is a Cache that can also drop every key under a prefix, which is
// what Namespace needs to clear one host without touching the others.
type Store interface {
	Cache
	DeletePrefix(prefix string) error
}

// entry is the stored form of a value.
type entry struct {
	Data     json.RawMessage `json:"data"`
	StoredAt time.Time       `json:"storedAt"`
	TTL      time.Duration   `json:"ttl,omitempty"`
}

func newEntry(data interface{}, ttl time.Duration) (entry, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return entry{}, fmt.Errorf("marshal cache value: %w", err)
	}

	return entry{Data: raw, StoredAt: time.Now(), TTL: ttl}, nil
}

func (e entry) expired(now time.Time) bool {
	return e.TTL > 0 && now.Sub(e.StoredAt) > e.TTL
}

func (e entry) decode(dest interface{}) error {
	if err := json.Unmarshal(e.Data, dest); err != nil {
		return fmt.Errorf("unmarshal cache value: %w", err)
	}

	return nil
}

func cacheLog() interfaces.Logger {
	return logger.For("cache")
}
