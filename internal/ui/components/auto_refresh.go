package components

import (
	"context"
	"errors"
	"time"

	"github.com/devnullvoid/shoptui/pkg/api"
)

const (
	// eventQuiet suppresses change events that arrive right after a fetch,
	// such as the echoes of this dashboard's own bulk mutations.
	eventQuiet = 2 * time.Second

	reconnectMin = time.Second
	reconnectMax = 30 * time.Second
)

// startEvents subscribes to the backend change feed. Events for the active
// page trigger a refetch.
func (a *App) startEvents() {
	a.eventsMu.Lock()
	defer a.eventsMu.Unlock()

	if a.eventsCancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(a.ctx)
	a.eventsCancel = cancel

	go a.subscribeLoop(ctx)
}

// stopEvents ends the change feed subscription, if any.
func (a *App) stopEvents() {
	a.eventsMu.Lock()
	defer a.eventsMu.Unlock()

	if a.eventsCancel != nil {
		a.eventsCancel()
		a.eventsCancel = nil
	}
}

// subscribeLoop keeps the subscription alive, reconnecting with exponential
// backoff. The feed is optional, so failures are only logged.
func (a *App) subscribeLoop(ctx context.Context) {
	backoff := reconnectMin

	for {
		connected := time.Now()

		err := a.client.SubscribeEvents(ctx, a.handleEvent)
		if ctx.Err() != nil {
			return
		}

		if errors.Is(err, api.ErrUnauthorized) {
			a.handleUnauthorized(err)
			return
		}

		if err != nil {
			a.logger.Debug("Event feed unavailable: %v", err)
		}

		if time.Since(connected) > reconnectMax {
			backoff = reconnectMin
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, reconnectMax)
	}
}

func (a *App) handleEvent(ev api.Event) {
	resource, ok := ev.Resource()
	if !ok {
		return
	}

	a.QueueUpdateDraw(func() {
		v := a.currentView()
		if v.Resource() != resource || v.Busy() || time.Since(v.FetchedAt()) < eventQuiet {
			return
		}

		a.logger.Debug("Refreshing %s after change event", resource)
		a.refreshView(v)
	})
}
