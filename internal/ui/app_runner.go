// Package ui runs the interactive admin dashboard.
package ui

import (
	"context"

	"github.com/devnullvoid/shoptui/internal/cache"
	"github.com/devnullvoid/shoptui/internal/config"
	"github.com/devnullvoid/shoptui/internal/session"
	"github.com/devnullvoid/shoptui/internal/ui/components"
	"github.com/devnullvoid/shoptui/internal/ui/models"
	"github.com/devnullvoid/shoptui/pkg/api"
	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
)

// RunApp creates and starts the dashboard. It returns when the user quits or
// ctx is cancelled.
func RunApp(ctx context.Context, client *api.Client, cfg *config.Config, store *session.Store, snapshots cache.Cache, logger interfaces.Logger) error {
	if logger != nil {
		models.SetUILogger(logger)
	}

	app := components.NewApp(ctx, client, cfg, store, snapshots)

	// Stop the event loop when the caller gives up, as on SIGTERM.
	stop := context.AfterFunc(ctx, app.Stop)
	defer stop()

	return app.Run()
}
