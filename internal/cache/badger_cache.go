package cache

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// gcInterval is how often the value log is compacted.
const gcInterval = 5 * time.Minute

// BadgerCache is a Store persisted in a Badger database.
type BadgerCache struct {
	db   *badger.DB
	done chan struct{}
	once sync.Once
}

// NewBadgerCache opens (or creates) the database in dir. It fails when
// another shoptui process holds the directory lock.
func NewBadgerCache(dir string) (*BadgerCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create badger dir: %w", err)
	}

	opts := badger.DefaultOptions(dir).
		WithLogger(nil).
		WithValueLogFileSize(1 << 20).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}

	c := &BadgerCache{db: db, done: make(chan struct{})}
	go c.collectGarbage()

	return c, nil
}

func (c *BadgerCache) collectGarbage() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			// Rewrite a value log file once half of it is garbage.
			if err := c.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				cacheLog().Debug("Badger GC: %v", err)
			}
		}
	}
}

func (c *BadgerCache) Get(key string, dest interface{}) (bool, error) {
	var (
		e     entry
		found bool
	)

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		found = true

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if err != nil {
		return false, fmt.Errorf("badger get %s: %w", key, err)
	}

	if !found {
		return false, nil
	}

	if e.expired(time.Now()) {
		return false, c.Delete(key)
	}

	if err := e.decode(dest); err != nil {
		return false, err
	}

	return true, nil
}

// Set stores data. Badger's own TTL mirrors the entry's so compaction drops
// expired keys nobody reads again.
func (c *BadgerCache) Set(key string, data interface{}, ttl time.Duration) error {
	e, err := newEntry(data, ttl)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		be := badger.NewEntry([]byte(key), raw)
		if ttl > 0 {
			be = be.WithTTL(ttl)
		}

		return txn.SetEntry(be)
	})
	if err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}

	return nil
}

func (c *BadgerCache) Delete(key string) error {
	if err := c.db.Update(func(txn *badger.Txn) error { return txn.Delete([]byte(key)) }); err != nil {
		return fmt.Errorf("badger delete %s: %w", key, err)
	}

	return nil
}

// DeletePrefix removes every key starting with prefix.
func (c *BadgerCache) DeletePrefix(prefix string) error {
	if err := c.db.DropPrefix([]byte(prefix)); err != nil {
		return fmt.Errorf("badger drop %s*: %w", prefix, err)
	}

	return nil
}

func (c *BadgerCache) Clear() error {
	return c.db.DropAll()
}

// Close stops compaction and closes the database. Calling it twice is safe.
func (c *BadgerCache) Close() error {
	var err error

	c.once.Do(func() {
		close(c.done)
		err = c.db.Close()
	})

	return err
}
