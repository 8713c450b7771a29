package api_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devnullvoid/shoptui/pkg/api"
)

func TestClient_EventsURL(t *testing.T) {
	f := newFixture(t, true)

	u, err := f.client.EventsURL()

	require.NoError(t, err)
	assert.Regexp(t, `^ws://127\.0\.0\.1:\d+/api/events$`, u)
}

func TestClient_SubscribeEvents(t *testing.T) {
	f := newFixture(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan api.Event, 4)
	done := make(chan error, 1)

	go func() {
		done <- f.client.SubscribeEvents(ctx, func(e api.Event) { events <- e })
	}()

	require.Eventually(t, func() bool { return f.backend.Hub.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, f.client.UpdateOrderStatus(ctx, "ORD-005", api.StatusUpdate{Status: api.OrderStatusCancelled}))

	select {
	case e := <-events:
		r, ok := e.Resource()
		assert.True(t, ok)
		assert.Equal(t, api.ResourceOrders, r)
		assert.Equal(t, []string{"ORD-005"}, e.IDs)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not stop after cancel")
	}
}

func TestClient_SubscribeEvents_Unauthorized(t *testing.T) {
	f := newFixture(t, true)
	f.backend.State.RevokeTokens()

	err := f.client.SubscribeEvents(context.Background(), func(api.Event) {})

	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Empty(t, f.session.Token())
}
