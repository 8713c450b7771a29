package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type order struct {
	ID    string  `json:"id"`
	Total float64 `json:"total"`
}

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory(0)

	want := order{ID: "ORD-001", Total: 42.5}
	require.NoError(t, c.Set("collection:orders", want, time.Minute))

	var got order
	found, err := c.Get("collection:orders", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)

	found, err = c.Get("collection:customers", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory(0)

	require.NoError(t, c.Set("k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var s string
	found, err := c.Get("k", &s)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, c.Len(), "expired entries are dropped on read")
}

func TestMemory_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemory(2)

	require.NoError(t, c.Set("a", 1, 0))
	require.NoError(t, c.Set("b", 2, 0))

	var n int
	found, _ := c.Get("a", &n)
	require.True(t, found)

	require.NoError(t, c.Set("c", 3, 0))

	found, _ = c.Get("b", &n)
	assert.False(t, found, "b was least recently used")

	found, _ = c.Get("a", &n)
	assert.True(t, found)
	assert.Equal(t, 2, c.Len())
}

func TestMemory_DeletePrefixAndClear(t *testing.T) {
	c := NewMemory(0)

	require.NoError(t, c.Set("shop-a/x", 1, 0))
	require.NoError(t, c.Set("shop-a/y", 2, 0))
	require.NoError(t, c.Set("shop-b/x", 3, 0))

	require.NoError(t, c.DeletePrefix("shop-a/"))
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete("missing"))
	require.NoError(t, c.Clear())
	assert.Zero(t, c.Len())
}

func TestMemory_Concurrent(t *testing.T) {
	c := NewMemory(16)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%8)
			_ = c.Set(key, i, time.Minute)
			var v int
			_, _ = c.Get(key, &v)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 16)
}

func TestBadgerCache(t *testing.T) {
	c, err := NewBadgerCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set("shop/collection:products", []order{{ID: "PRD-001"}}, time.Minute))
	require.NoError(t, c.Set("other/collection:products", []order{{ID: "PRD-900"}}, 0))

	var got []order
	found, err := c.Get("shop/collection:products", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "PRD-001", got[0].ID)

	require.NoError(t, c.DeletePrefix("shop/"))
	found, err = c.Get("shop/collection:products", &got)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = c.Get("other/collection:products", &got)
	require.NoError(t, err)
	assert.True(t, found)

	require.NoError(t, c.Delete("other/collection:products"))
	found, err = c.Get("other/collection:products", &got)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close(), "closing twice is safe")
}

func TestBadgerCache_PersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	c1, err := NewBadgerCache(dir)
	require.NoError(t, err)
	require.NoError(t, c1.Set("collection:admins", "val", time.Minute))
	require.NoError(t, c1.Close())

	c2, err := NewBadgerCache(dir)
	require.NoError(t, err)
	defer c2.Close()

	var v string
	found, err := c2.Get("collection:admins", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "val", v)
}

func TestSnapshots(t *testing.T) {
	c := NewMemory(0)

	_, found, err := LoadSnapshot[order](c, "orders")
	require.NoError(t, err)
	assert.False(t, found)

	items := []order{{ID: "ORD-001", Total: 10}, {ID: "ORD-002", Total: 20}}
	require.NoError(t, SaveSnapshot(c, "orders", items, 25))

	snap, found, err := LoadSnapshot[order](c, "orders")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, items, snap.Items)
	assert.Equal(t, 25, snap.Total)
	assert.Less(t, snap.Age(time.Now()), time.Minute)

	require.NoError(t, DropSnapshots(c, "orders", "customers"))
	_, found, err = LoadSnapshot[order](c, "orders")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSnapshots_NilCache(t *testing.T) {
	assert.NoError(t, SaveSnapshot[order](nil, "orders", nil, 0))

	_, found, err := LoadSnapshot[order](nil, "orders")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestForHost_IsolatesShops(t *testing.T) {
	t.Cleanup(func() { _ = Shutdown() })

	require.NoError(t, Open(t.TempDir()))

	a := ForHost("shop.example.com:443")
	b := ForHost("localhost:5000")

	assert.Same(t, a, ForHost("shop.example.com:443"))

	require.NoError(t, a.Set("k", "from-a", 0))
	require.NoError(t, b.Set("k", "from-b", 0))

	var v string
	found, err := b.Get("k", &v)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "from-b", v)

	require.NoError(t, b.Clear())
	found, err = a.Get("k", &v)
	require.NoError(t, err)
	assert.True(t, found, "clearing one shop keeps the other")
}

func TestForHost_WithoutOpenUsesMemory(t *testing.T) {
	t.Cleanup(func() { _ = Shutdown() })

	c := ForHost("localhost:5000")
	require.NoError(t, c.Set("k", 1, 0))

	var n int
	found, err := c.Get("k", &n)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, n)
}
