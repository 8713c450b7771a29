package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReload_PicksUpOtherProcess(t *testing.T) {
	path := newStorePath(t)

	dashboard, err := Open(path)
	require.NoError(t, err)

	cli, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, cli.SetLogin("tok-abc", "admin@glowshop.test"))

	require.NoError(t, dashboard.Reload())
	assert.Equal(t, "tok-abc", dashboard.Token())

	require.NoError(t, cli.Clear())
	require.NoError(t, dashboard.Reload())
	assert.Empty(t, dashboard.Token())
	assert.Empty(t, dashboard.Email())
}

func TestWatch_ReportsLoginAndLogout(t *testing.T) {
	path := newStorePath(t)

	dashboard, err := Open(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var signedIn, calls atomic.Int32
	done := make(chan error, 1)

	go func() {
		done <- Watch(ctx, dashboard, 20*time.Millisecond, func(in bool) {
			if in {
				signedIn.Store(1)
			} else {
				signedIn.Store(0)
			}
			calls.Add(1)
		}, nil)
	}()

	cli, err := Open(path)
	require.NoError(t, err)

	// The watcher must be registered before the first write.
	assert.Eventually(t, func() bool {
		_ = cli.SetLogin("tok-abc", "admin@glowshop.test")
		return signedIn.Load() == 1
	}, 2*time.Second, 50*time.Millisecond)
	assert.Equal(t, "tok-abc", dashboard.Token())

	require.NoError(t, cli.Clear())
	assert.Eventually(t, func() bool { return signedIn.Load() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Empty(t, dashboard.Token())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return after cancel")
	}
	assert.Positive(t, calls.Load())
}
