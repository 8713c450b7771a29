package cache

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"
)

// memoryLimit bounds the fallback store; a few snapshots per host.
const memoryLimit = 256

// Namespace is the view of a Store for one backend host. Keys are stored as
// "<name>/<key>", so two shops never see each other's collections.
type Namespace struct {
	store  Store
	prefix string
}

// NewNamespace scopes store to name.
func NewNamespace(store Store, name string) *Namespace {
	return &Namespace{store: store, prefix: name + "/"}
}

func (n *Namespace) Get(key string, dest interface{}) (bool, error) {
	return n.store.Get(n.prefix+key, dest)
}

func (n *Namespace) Set(key string, data interface{}, ttl time.Duration) error {
	return n.store.Set(n.prefix+key, data, ttl)
}

func (n *Namespace) Delete(key string) error {
	return n.store.Delete(n.prefix + key)
}

// Clear drops this namespace only.
func (n *Namespace) Clear() error {
	return n.store.DeletePrefix(n.prefix)
}

// Close is a no-op; the shared store is closed by Shutdown.
func (n *Namespace) Close() error { return nil }

var (
	sharedMu   sync.Mutex
	shared     Store
	namespaces = make(map[string]*Namespace)
)

// Open sets up the process-wide store in dir/badger. When dir is empty or
// the database cannot be opened, an in-memory store is used instead and the
// open error is returned for the caller to log.
func Open(dir string) error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared != nil {
		return nil
	}

	if dir == "" {
		shared = NewMemory(memoryLimit)
		return nil
	}

	db, err := NewBadgerCache(filepath.Join(dir, "badger"))
	if err != nil {
		shared = NewMemory(memoryLimit)
		return fmt.Errorf("persistent cache unavailable, using memory: %w", err)
	}

	cacheLog().Debug("Opened cache at %s", dir)
	shared = db

	return nil
}

// ForHost returns the namespace of host, opening an in-memory store if Open
// was never called.
func ForHost(host string) Cache {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared == nil {
		shared = NewMemory(memoryLimit)
	}

	ns, ok := namespaces[host]
	if !ok {
		ns = NewNamespace(shared, host)
		namespaces[host] = ns
	}

	return ns
}

// Shutdown closes the shared store. A later Open starts over.
func Shutdown() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	clear(namespaces)

	if shared == nil {
		return nil
	}

	err := shared.Close()
	shared = nil

	return err
}
