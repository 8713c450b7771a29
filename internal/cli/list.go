package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/devnullvoid/shoptui/internal/app"
	"github.com/devnullvoid/shoptui/internal/forms"
	"github.com/devnullvoid/shoptui/internal/pages"
	"github.com/devnullvoid/shoptui/pkg/api"
	"github.com/devnullvoid/shoptui/pkg/listview"
)

// addQueryFlags adds the flags describing a list query.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("search", "s", "", "Case-insensitive text search")
	cmd.Flags().StringArrayP("filter", "f", nil, "Filter as dimension=value[,value] (repeatable)")
	cmd.Flags().String("from", "", "Created on or after this day (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Created on or before this day (YYYY-MM-DD)")
	cmd.Flags().String("sort", "", "Sort key")
}

// parseFilters turns "status=pending,shipped" flags into accepted values.
// Repeating a dimension adds to its values.
func parseFilters(raw []string) (map[string][]string, error) {
	filters := make(map[string][]string)

	for _, f := range raw {
		dim, values, ok := strings.Cut(f, "=")
		dim = strings.ToLower(strings.TrimSpace(dim))
		if !ok || dim == "" {
			return nil, fmt.Errorf("invalid filter %q (expected dimension=value)", f)
		}

		for _, v := range strings.Split(values, ",") {
			if v = strings.TrimSpace(v); v != "" {
				filters[dim] = append(filters[dim], v)
			}
		}
	}

	return filters, nil
}

// queryFromFlags reads the query flags of cmd.
func queryFromFlags(cmd *cobra.Command, pageSize int) (query, error) {
	search, _ := cmd.Flags().GetString("search")
	rawFilters, _ := cmd.Flags().GetStringArray("filter")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	sort, _ := cmd.Flags().GetString("sort")

	page := 1
	if f := cmd.Flags().Lookup("page"); f != nil {
		page, _ = cmd.Flags().GetInt("page")
	}

	filters, err := parseFilters(rawFilters)
	if err != nil {
		return query{}, err
	}

	q := query{
		Search:   search,
		Filters:  filters,
		Sort:     listview.SortKey(strings.ToLower(strings.TrimSpace(sort))),
		Page:     page,
		PageSize: pageSize,
	}

	if strings.TrimSpace(from) != "" || strings.TrimSpace(to) != "" {
		q.From, q.To, err = forms.ParseDateRange(from, to, time.Local)
		if err != nil {
			return query{}, err
		}
		q.HasRange = true
	}

	return q, nil
}

// loadCollection fetches res, then applies q. Notices are printed to stderr.
func loadCollection(cmd *cobra.Command, env *app.Env, res api.Resource, q query) (collection, error) {
	col, err := newCollection(env, res, func(n pages.Notice) {
		if n.Level != pages.LevelInfo {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", n.Level, n.Message)
		}
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), env.Config.GetTimeout())
	defer cancel()

	if err := col.Load(ctx); err != nil {
		return nil, fail("load "+string(res), err)
	}

	// The page is clamped against the loaded collection.
	if err := col.Apply(q); err != nil {
		return nil, err
	}

	return col, nil
}

// newListCmd creates the list command
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <orders|customers|admins|products>",
		Short: "List one page of a collection",
		Long: `Fetch a collection and print one page of it after searching, filtering
and sorting on the client, exactly as the dashboard does.

Filter dimensions:
  orders     status, payment
  customers  status
  admins     role, status
  products   category, brand, availability, price, tag

Examples:
  shoptui list orders --filter status=pending,processing --sort total-high
  shoptui list products -s serum --filter price=25-50 --page 2
  shoptui list customers --from 2025-01-01 --output json`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: resourceNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := parseResource(args[0])
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString("output")

			return withEnv(cmd, func(env *app.Env) error {
				q, err := queryFromFlags(cmd, env.Config.PageSize)
				if err != nil {
					return err
				}

				col, err := loadCollection(cmd, env, res, q)
				if err != nil {
					return err
				}

				l, err := col.List(cmd.OutOrStdout(), output)
				if err != nil {
					return err
				}

				if output == outputTable {
					fmt.Fprintln(cmd.OutOrStdout(), summaryLine(l.Summary, l.Sort))
				}

				if l.Stale {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: showing cached %s from %s\n", res, since(l.FetchedAt))
				}

				return nil
			})
		},
	}

	addQueryFlags(cmd)
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().StringP("output", "o", outputTable, "Output format: table or json")

	return cmd
}
