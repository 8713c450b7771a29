// Package pages binds the generic list view model to the backend: one
// Controller per admin or catalog page owns its model, fetches the collection
// with latest-wins sequencing, falls back to the last-known collection when a
// fetch fails and runs bulk actions over the selection.
package pages

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/devnullvoid/shoptui/internal/bulk"
	"github.com/devnullvoid/shoptui/internal/cache"
	"github.com/devnullvoid/shoptui/pkg/api"
	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
	"github.com/devnullvoid/shoptui/pkg/listview"
)

// Fetch retrieves one collection from the backend.
type Fetch[T any] func(ctx context.Context, params api.ListParams) (api.Page[T], error)

// Level classifies a notice.
type Level int

// Notice levels.
const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a transient message for the user.
type Notice struct {
	Level   Level
	Message string
}

// Hooks are called by a controller from whatever goroutine completes the
// work. UI callers must marshal them onto their event loop.
type Hooks struct {
	// OnChange fires after the collection, selection or state changed.
	OnChange func()
	// OnNotify receives user-facing notices.
	OnNotify func(Notice)
	// OnUnauthorized fires when the backend rejected the session. The
	// session has already been cleared.
	OnUnauthorized func(err error)
}

// Options configure a Controller.
type Options struct {
	// Cache keeps the last-known collection. Nil disables the fallback.
	Cache cache.Cache
	// Logger defaults to a no-op logger.
	Logger interfaces.Logger
	// Runner runs bulk actions. Defaults to bulk.NewRunner with Logger.
	Runner *bulk.Runner
	Hooks  Hooks
	// PageSize overrides the schema's default page size when positive.
	PageSize int
	// Limit is the page size requested from the backend.
	Limit int
}

// State describes the fetch state of a page.
type State struct {
	Loading bool
	// Stale is set while the model shows a cached collection after a
	// failed fetch.
	Stale     bool
	FetchedAt time.Time
	Err       error
}

// Controller drives one list page.
type Controller[T any] struct {
	resource api.Resource
	model    *listview.Model[T]
	fetch    Fetch[T]
	loader   Loader
	cache    cache.Cache
	runner   *bulk.Runner
	logger   interfaces.Logger
	hooks    Hooks
	limit    int

	mu    sync.RWMutex
	state State
}

// NewController creates a controller for resource. schema describes the
// item type and fetch loads the collection.
func NewController[T any](resource api.Resource, schema listview.Schema[T], fetch Fetch[T], opts Options) *Controller[T] {
	if opts.PageSize > 0 {
		schema.DefaultPageSize = opts.PageSize
	}

	if opts.Logger == nil {
		opts.Logger = &interfaces.NoOpLogger{}
	}

	if opts.Runner == nil {
		opts.Runner = bulk.NewRunner(bulk.WithLogger(opts.Logger))
	}

	if opts.Limit <= 0 {
		opts.Limit = api.DefaultListLimit
	}

	return &Controller[T]{
		resource: resource,
		model:    listview.New(schema),
		fetch:    fetch,
		cache:    opts.Cache,
		runner:   opts.Runner,
		logger:   opts.Logger,
		hooks:    opts.Hooks,
		limit:    opts.Limit,
	}
}

// Resource returns the collection the controller shows.
func (c *Controller[T]) Resource() api.Resource {
	return c.resource
}

// Model returns the page's view model.
func (c *Controller[T]) Model() *listview.Model[T] {
	return c.model
}

// State returns the current fetch state.
func (c *Controller[T]) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state
}

// Refresh fetches the collection and replaces the model's items with it. On
// failure the last-known collection stays in place; when the model is empty
// the cached snapshot is loaded instead and the state is flagged stale.
// A fetch overtaken by a newer one returns ErrSuperseded without touching
// the model.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.state.Loading = true
	c.mu.Unlock()
	c.changed()

	var (
		fetched []T
		total   int
	)

	err := Load(ctx, &c.loader,
		func(ctx context.Context) (api.Page[T], error) {
			return c.fetch(ctx, api.ListParams{Limit: c.limit})
		},
		func(page api.Page[T], err error) {
			if err == nil {
				fetched, total = page.Items, page.Total
			}

			c.apply(page, err)
		},
	)

	switch {
	case errors.Is(err, ErrSuperseded):
		c.logger.Debug("Discarded superseded %s fetch", c.resource)
		return err
	case err != nil:
		c.fetchFailed(err)
	default:
		c.logger.Debug("Fetched %d %s", len(fetched), c.resource)

		if serr := cache.SaveSnapshot(c.cache, string(c.resource), fetched, total); serr != nil {
			c.logger.Error("Failed to cache %s: %v", c.resource, serr)
		}
	}

	c.changed()

	return err
}

// apply runs under the loader lock for the latest fetch only.
func (c *Controller[T]) apply(page api.Page[T], err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Loading = false
	c.state.Err = err

	if err == nil {
		c.model.SetItems(page.Items, page.Total)
		c.state.Stale = false
		c.state.FetchedAt = time.Now()

		return
	}

	if len(c.model.Items()) > 0 || api.IsUnauthorized(err) {
		return
	}

	snap, ok, lerr := cache.LoadSnapshot[T](c.cache, string(c.resource))
	if lerr != nil {
		c.logger.Error("Failed to read cached %s: %v", c.resource, lerr)
		return
	}

	if ok {
		c.model.SetItems(snap.Items, snap.Total)
		c.state.Stale = true
		c.state.FetchedAt = snap.FetchedAt
	}
}

func (c *Controller[T]) fetchFailed(err error) {
	c.logger.Error("Failed to fetch %s: %v", c.resource, err)

	if api.IsUnauthorized(err) {
		c.unauthorized(err)
		return
	}

	msg := fmt.Sprintf("Failed to load %s: %v", c.resource, err)
	if st := c.State(); st.Stale {
		msg += fmt.Sprintf(" (showing cached data from %s)", st.FetchedAt.Local().Format("2006-01-02 15:04"))
	}

	c.notify(LevelError, msg)
}

// Stop discards any fetch still in flight, as when the page is left.
func (c *Controller[T]) Stop() {
	c.loader.Stop()

	c.mu.Lock()
	c.state.Loading = false
	c.mu.Unlock()
}

// Bulk applies action to every selected id, then refetches exactly once.
// Afterwards only the ids whose call failed remain selected. The returned
// error is non-nil only when nothing was selected.
func (c *Controller[T]) Bulk(ctx context.Context, action bulk.Action) (bulk.Result, error) {
	ids := c.model.SelectedIDs()

	res, err := c.runner.Run(ctx, ids, action, func(ctx context.Context) error {
		if err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
			return err
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, bulk.ErrEmptySelection) {
			c.notify(LevelWarning, "No items selected")
		}

		return res, err
	}

	// Only the failed ids stay selected, ready for a retry.
	c.model.ClearSelection()
	c.model.Select(res.FailedIDs()...)

	level := LevelInfo
	switch {
	case len(res.Succeeded) == 0:
		level = LevelError
	case len(res.Failed) > 0:
		level = LevelWarning
	}

	c.notify(level, res.Summary())

	if !api.IsUnauthorized(res.RefetchErr) {
		for _, f := range res.Failed {
			if api.IsUnauthorized(f.Err) {
				c.unauthorized(f.Err)
				break
			}
		}
	}

	c.changed()

	return res, nil
}

// Apply runs action on a single item and refetches after a success.
func (c *Controller[T]) Apply(ctx context.Context, id string, action bulk.Action) error {
	if err := action(ctx, id); err != nil {
		c.logger.Error("Action on %s failed: %v", id, err)

		if api.IsUnauthorized(err) {
			c.unauthorized(err)
		} else {
			c.notify(LevelError, fmt.Sprintf("%s: %v", id, err))
		}

		return err
	}

	c.notify(LevelInfo, "Updated "+id)

	if err := c.Refresh(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, ErrSuperseded) {
		return fmt.Errorf("refetch after update: %w", err)
	}

	return nil
}

// FilterChoices returns the distinct values the fetched items hold for a
// dimension, sorted, for building filter menus.
func (c *Controller[T]) FilterChoices(dimension string) []string {
	extract, ok := c.model.Schema().Dimensions[dimension]
	if !ok {
		return nil
	}

	seen := make(map[string]struct{})

	for _, item := range c.model.Items() {
		for _, v := range extract(item) {
			if v != "" {
				seen[v] = struct{}{}
			}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

func (c *Controller[T]) unauthorized(err error) {
	c.notify(LevelError, "Session expired, please sign in again")

	if c.hooks.OnUnauthorized != nil {
		c.hooks.OnUnauthorized(err)
	}
}

func (c *Controller[T]) notify(level Level, msg string) {
	if c.hooks.OnNotify != nil {
		c.hooks.OnNotify(Notice{Level: level, Message: msg})
	}
}

func (c *Controller[T]) changed() {
	if c.hooks.OnChange != nil {
		c.hooks.OnChange()
	}
}
