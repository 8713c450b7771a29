package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/devnullvoid/shoptui/internal/app"
	"github.com/devnullvoid/shoptui/internal/bulk"
	"github.com/devnullvoid/shoptui/internal/export"
	"github.com/devnullvoid/shoptui/internal/pages"
	"github.com/devnullvoid/shoptui/pkg/api"
	"github.com/devnullvoid/shoptui/pkg/listview"
)

// query is the list state a command line describes.
type query struct {
	Search  string
	Filters map[string][]string
	// From and To bound the creation date when HasRange is set.
	From, To time.Time
	HasRange bool
	Sort     listview.SortKey
	Page     int
	PageSize int
}

// listing is the page returned by collection.List.
type listing struct {
	Summary listview.Summary
	Sort    listview.SortKey
	Stale   bool
	// FetchedAt is when the shown collection was loaded.
	FetchedAt time.Time
}

// collection is one resource's controller with its item type erased.
type collection interface {
	Resource() api.Resource
	Load(ctx context.Context) error
	Apply(q query) error
	List(w io.Writer, format string) (listing, error)
	Export(w io.Writer, format export.Format, filtered bool) (int, error)
	Bulk(ctx context.Context, ids []string, action bulk.Action) (bulk.Result, []string, error)
}

type pageCollection[T any] struct {
	ctrl    *pages.Controller[T]
	columns []export.Column[T]
}

func resourceNames() []string {
	return []string{
		string(api.ResourceOrders),
		string(api.ResourceCustomers),
		string(api.ResourceAdmins),
		string(api.ResourceProducts),
	}
}

// parseResource accepts a resource name or its singular form.
func parseResource(name string) (api.Resource, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	if res, ok := api.ParseResource(name); ok {
		return res, nil
	}

	if res, ok := api.ParseResource(name + "s"); ok {
		return res, nil
	}

	return "", fmt.Errorf("unknown resource %q (use %s)", name, strings.Join(resourceNames(), ", "))
}

// newCollection builds the controller of res. Notices go to notify.
func newCollection(env *app.Env, res api.Resource, notify func(pages.Notice)) (collection, error) {
	opts := pages.Options{
		Cache:    env.Snapshots,
		Logger:   env.Logger,
		PageSize: env.Config.PageSize,
		Hooks:    pages.Hooks{OnNotify: notify},
	}

	switch res {
	case api.ResourceOrders:
		return &pageCollection[api.Order]{pages.NewOrders(env.Client, opts), export.OrderColumns()}, nil
	case api.ResourceCustomers:
		return &pageCollection[api.Customer]{pages.NewCustomers(env.Client, opts), export.CustomerColumns()}, nil
	case api.ResourceAdmins:
		return &pageCollection[api.Admin]{pages.NewAdmins(env.Client, opts), export.AdminColumns()}, nil
	case api.ResourceProducts:
		return &pageCollection[api.Product]{pages.NewProducts(env.Client, opts), export.ProductColumns()}, nil
	default:
		return nil, fmt.Errorf("unknown resource %q", res)
	}
}

func (c *pageCollection[T]) Resource() api.Resource { return c.ctrl.Resource() }

// Load fetches the collection. A failed fetch that fell back to the cached
// collection is not an error; the listing is flagged stale instead.
func (c *pageCollection[T]) Load(ctx context.Context) error {
	err := c.ctrl.Refresh(ctx)
	if err != nil && !api.IsUnauthorized(err) && c.ctrl.State().Stale {
		return nil
	}

	return err
}

// Apply validates q against the page and sets it on the model.
func (c *pageCollection[T]) Apply(q query) error {
	m := c.ctrl.Model()
	schema := m.Schema()

	m.ClearAll()

	for dim, values := range q.Filters {
		if !schema.HasDimension(dim) {
			return fmt.Errorf("%s cannot be filtered by %q (use %s)", c.Resource(), dim, strings.Join(pages.Dimensions(c.Resource()), ", "))
		}
		m.SetFilterValues(dim, values...)
	}

	if q.Sort != "" && !m.SetSortKey(q.Sort) {
		keys := make([]string, 0)
		for _, k := range pages.SortKeys(c.Resource()) {
			keys = append(keys, string(k))
		}

		return fmt.Errorf("%s cannot be sorted by %q (use %s)", c.Resource(), q.Sort, strings.Join(keys, ", "))
	}

	if q.HasRange {
		m.SetDateRange(q.From, q.To)
	}

	m.SetSearchText(q.Search)
	m.SetPageSize(q.PageSize)
	m.SetPage(q.Page)

	return nil
}

// List writes the current page as a table or JSON.
func (c *pageCollection[T]) List(w io.Writer, format string) (listing, error) {
	m := c.ctrl.Model()
	st := c.ctrl.State()
	visible := m.ComputeVisibleSlice()

	l := listing{
		Summary:   m.Summary(),
		Sort:      m.SortKey(),
		Stale:     st.Stale,
		FetchedAt: st.FetchedAt,
	}

	switch format {
	case outputJSON:
		return l, writeJSONPage(w, l, visible)
	case outputTable:
		return l, writeTable(w, c.columns, visible)
	default:
		return l, fmt.Errorf("unsupported output %q (use %s or %s)", format, outputTable, outputJSON)
	}
}

func (c *pageCollection[T]) Export(w io.Writer, format export.Format, filtered bool) (int, error) {
	m := c.ctrl.Model()

	items := m.Items()
	if filtered {
		items = m.Filtered()
	}

	return len(items), export.Write(w, format, c.columns, items)
}

// Bulk selects ids in the loaded collection and runs action on them. Ids
// the collection does not hold are returned as missing and not attempted.
func (c *pageCollection[T]) Bulk(ctx context.Context, ids []string, action bulk.Action) (bulk.Result, []string, error) {
	m := c.ctrl.Model()
	m.ClearSelection()
	m.Select(ids...)

	selected := m.SelectedIDs()

	var missing []string
	for _, id := range ids {
		if !slices.Contains(selected, id) && !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}

	res, err := c.ctrl.Bulk(ctx, action)

	return res, missing, err
}
