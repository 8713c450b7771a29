// Package app wires configuration, logging, caching, the session store and
// the API client into the environment every command runs in.
package app

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/devnullvoid/shoptui/internal/adapters"
	"github.com/devnullvoid/shoptui/internal/cache"
	"github.com/devnullvoid/shoptui/internal/config"
	"github.com/devnullvoid/shoptui/internal/logger"
	"github.com/devnullvoid/shoptui/internal/session"
	"github.com/devnullvoid/shoptui/internal/ui"
	"github.com/devnullvoid/shoptui/internal/version"
	"github.com/devnullvoid/shoptui/pkg/api"
	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
)

// Options configures Open.
type Options struct {
	NoCache bool
	// Client options appended after the defaults, e.g. a test HTTP client.
	ClientOptions []api.ClientOption
}

// Env is everything a command needs to talk to the shop backend.
type Env struct {
	Config  *config.Config
	Client  *api.Client
	Session *session.Store
	// Snapshots holds the last-known collections of this backend. Nil when
	// caching is disabled.
	Snapshots cache.Cache
	Logger    interfaces.Logger
}

// Open builds an Env from a validated config.
func Open(cfg *config.Config, opts Options) (*Env, error) {
	if cfg.CacheDir != "" {
		if err := os.MkdirAll(cfg.CacheDir, 0o750); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	// Packages that log through the global logger share the adapter's file.
	log := adapters.NewLoggerAdapter(cfg)
	if la, ok := log.(*adapters.LoggerAdapter); ok {
		logger.SetDefault(la.Underlying())
	}

	store, err := session.Open(cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	var snapshots cache.Cache
	if !opts.NoCache {
		if err := cache.Open(cfg.CacheDir); err != nil {
			log.Error("%v", err)
		}

		snapshots = cache.ForHost(cacheNamespace(cfg.GetAPIURL()))
	}

	clientOpts := append([]api.ClientOption{
		api.WithLogger(log),
		api.WithSession(store),
		api.WithRetries(2),
		api.WithUserAgent(version.UserAgent()),
	}, opts.ClientOptions...)

	client, err := api.NewClient(adapters.NewConfigAdapter(cfg), clientOpts...)
	if err != nil {
		return nil, err
	}

	return &Env{
		Config:    cfg,
		Client:    client,
		Session:   store,
		Snapshots: snapshots,
		Logger:    log,
	}, nil
}

// cacheNamespace keys cached collections by backend host so two shops never
// share them.
func cacheNamespace(apiURL string) string {
	u, err := url.Parse(apiURL)
	if err != nil || u.Host == "" {
		return "default"
	}

	return u.Host
}

// Close flushes the caches.
func (e *Env) Close() error {
	return cache.Shutdown()
}

// RunTUI starts the dashboard and blocks until it exits.
func (e *Env) RunTUI(ctx context.Context) error {
	return ui.RunApp(ctx, e.Client, e.Config, e.Session, e.Snapshots, e.Logger)
}
