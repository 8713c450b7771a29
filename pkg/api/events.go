package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// EventsURL derives the websocket URL of the change feed from the API base.
func (c *Client) EventsURL() (string, error) {
	u, err := url.Parse(c.baseURL + EndpointEvents)
	if err != nil {
		return "", fmt.Errorf("failed to parse events URL: %w", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	return u.String(), nil
}

// SubscribeEvents connects to the change feed and calls handler for every
// event until ctx is cancelled or the connection drops. A nil error means
// ctx ended or the server closed the feed normally.
func (c *Client) SubscribeEvents(ctx context.Context, handler func(Event)) error {
	eventsURL, err := c.EventsURL()
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		Proxy:            http.ProxyFromEnvironment,
	}

	headers := make(http.Header)
	headers.Set("User-Agent", c.userAgent)

	if token := c.authManager.Token(); token != "" {
		headers.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := dialer.DialContext(ctx, eventsURL, headers)
	if err != nil {
		if resp != nil {
			if resp.StatusCode == http.StatusUnauthorized {
				c.authManager.ClearToken()
				return ErrUnauthorized
			}

			return fmt.Errorf("failed to connect to event feed (status %d): %w", resp.StatusCode, err)
		}

		return fmt.Errorf("failed to connect to event feed: %w", err)
	}
	defer conn.Close()

	c.logger.Debug("Subscribed to event feed: %s", eventsURL)

	// Unblock ReadMessage when ctx ends.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return fmt.Errorf("event feed closed unexpectedly: %w", err)
			}

			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return nil
			}

			return fmt.Errorf("event feed read failed: %w", err)
		}

		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			c.logger.Debug("Ignoring malformed event %q: %v", strings.TrimSpace(string(message)), err)
			continue
		}

		handler(event)
	}
}
