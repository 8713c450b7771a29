package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Cache evicting the least recently used entry
// once it holds more than its limit.
type Memory struct {
	mu    sync.Mutex
	limit int
	order *list.List
	index map[string]*list.Element
}

type memoryItem struct {
	key string
	e   entry
}

// NewMemory creates a cache holding at most limit entries; 0 means no limit.
func NewMemory(limit int) *Memory {
	return &Memory{
		limit: max(limit, 0),
		order: list.New(),
		index: make(map[string]*list.Element),
	}
}

// Get returns the entry of key and marks it as recently used.
func (m *Memory) Get(key string, dest interface{}) (bool, error) {
	m.mu.Lock()

	el, ok := m.index[key]
	if !ok {
		m.mu.Unlock()
		return false, nil
	}

	it := el.Value.(*memoryItem)
	if it.e.expired(time.Now()) {
		m.remove(el)
		m.mu.Unlock()
		return false, nil
	}

	m.order.MoveToFront(el)
	e := it.e
	m.mu.Unlock()

	if err := e.decode(dest); err != nil {
		return false, err
	}

	return true, nil
}

func (m *Memory) Set(key string, data interface{}, ttl time.Duration) error {
	e, err := newEntry(data, ttl)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.index[key]; ok {
		el.Value.(*memoryItem).e = e
		m.order.MoveToFront(el)
		return nil
	}

	m.index[key] = m.order.PushFront(&memoryItem{key: key, e: e})

	for m.limit > 0 && m.order.Len() > m.limit {
		oldest := m.order.Back()
		cacheLog().Debug("Evicting %s (limit %d)", oldest.Value.(*memoryItem).key, m.limit)
		m.remove(oldest)
	}

	return nil
}

// remove is called with m.mu held.
func (m *Memory) remove(el *list.Element) {
	m.order.Remove(el)
	delete(m.index, el.Value.(*memoryItem).key)
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.index[key]; ok {
		m.remove(el)
	}

	return nil
}

// DeletePrefix removes every key starting with prefix.
func (m *Memory) DeletePrefix(prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, el := range m.index {
		if strings.HasPrefix(key, prefix) {
			m.remove(el)
		}
	}

	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.order.Init()
	clear(m.index)

	return nil
}

// Len returns the number of entries, counting expired ones not yet read.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.order.Len()
}

func (m *Memory) Close() error { return nil }
