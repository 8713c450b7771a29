package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devnullvoid/shoptui/internal/app"
	"github.com/devnullvoid/shoptui/internal/bulk"
	"github.com/devnullvoid/shoptui/internal/forms"
	"github.com/devnullvoid/shoptui/internal/pages"
	"github.com/devnullvoid/shoptui/pkg/api"
)

// addIDsFlag adds the required --ids flag.
func addIDsFlag(cmd *cobra.Command) {
	cmd.Flags().StringSlice("ids", nil, "Comma-separated item ids (repeatable)")
	_ = cmd.MarkFlagRequired("ids")
}

func idsFromFlags(cmd *cobra.Command) ([]string, error) {
	raw, _ := cmd.Flags().GetStringSlice("ids")

	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return nil, bulk.ErrEmptySelection
	}

	return ids, nil
}

// runBulk loads res, runs action on ids and reports the outcome. It fails
// when any id is missing or any action failed.
func runBulk(cmd *cobra.Command, env *app.Env, res api.Resource, ids []string, action func(*api.Client) bulk.Action) error {
	col, err := loadCollection(cmd, env, res, query{PageSize: env.Config.PageSize, Page: 1})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	ctx, cancel := context.WithTimeout(cmd.Context(), env.Config.GetTimeout()*2)
	defer cancel()

	result, missing, err := col.Bulk(ctx, ids, action(env.Client))

	if len(missing) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "not found in %s: %s\n", res, strings.Join(missing, ", "))
	}

	if errors.Is(err, bulk.ErrEmptySelection) {
		return fmt.Errorf("none of the given ids exist in %s", res)
	}

	if result.Total() > 0 {
		fmt.Fprintln(out, result.Summary())
		for _, f := range result.Failed {
			fmt.Fprintf(out, "  %s: %v\n", f.ID, f.Err)
		}
	}

	if result.RefetchErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: refetch after %s update failed: %v\n", res, result.RefetchErr)
	}

	if err != nil {
		return fail(string(res), err)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%d of %d ids not found", len(missing), len(ids))
	}

	return result.Err()
}

// newSetStatusCmd creates the set-status command
func newSetStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-status <orders|customers|admins>",
		Short: "Set the status of one or more items",
		Long: `Set the status of several orders, customers or admins at once. The
requests run concurrently and the collection is fetched once afterwards.

Order statuses:   pending, processing, shipped, delivered, cancelled
Account statuses: active, inactive, blocked

Examples:
  shoptui set-status orders --ids ORD-001,ORD-002 --status shipped
  shoptui set-status customers --ids CUS-004 --status inactive --notes "requested"`,
		Args: cobra.ExactArgs(1),
		ValidArgs: []string{
			string(api.ResourceOrders),
			string(api.ResourceCustomers),
			string(api.ResourceAdmins),
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := parseResource(args[0])
			if err != nil {
				return err
			}

			status, _ := cmd.Flags().GetString("status")
			notes, _ := cmd.Flags().GetString("notes")

			update, err := forms.ValidateStatus(forms.StatusInput{Resource: res, Status: status, Notes: notes})
			if err != nil {
				return err
			}

			ids, err := idsFromFlags(cmd)
			if err != nil {
				return err
			}

			return withEnv(cmd, func(env *app.Env) error {
				return runBulk(cmd, env, res, ids, func(c *api.Client) bulk.Action {
					return pages.StatusAction(c, res, update.Status, update.Notes)
				})
			})
		},
	}

	addIDsFlag(cmd)
	cmd.Flags().String("status", "", "New status")
	cmd.Flags().String("notes", "", "Note stored with the change")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

// newBlockCmd creates the block command
func newBlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Block or unblock customers",
		Example: `  shoptui block --ids CUS-003,CUS-007
  shoptui block --ids CUS-003 --unblock`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			unblock, _ := cmd.Flags().GetBool("unblock")

			ids, err := idsFromFlags(cmd)
			if err != nil {
				return err
			}

			return withEnv(cmd, func(env *app.Env) error {
				return runBulk(cmd, env, api.ResourceCustomers, ids, func(c *api.Client) bulk.Action {
					return pages.BlockAction(c, !unblock)
				})
			})
		},
	}

	addIDsFlag(cmd)
	cmd.Flags().Bool("unblock", false, "Unblock instead of block")

	return cmd
}

// newDeleteCmd creates the delete command
func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <orders|customers|admins|products>",
		Short: "Delete one or more items",
		Long: `Delete several items at once. Without --yes the ids are listed and
confirmation is asked for.`,
		Example:   `  shoptui delete products --ids PRD-004,PRD-011 --yes`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: resourceNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := parseResource(args[0])
			if err != nil {
				return err
			}

			ids, err := idsFromFlags(cmd)
			if err != nil {
				return err
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				ok, err := confirm(cmd, fmt.Sprintf("Delete %d %s (%s)?", len(ids), res, strings.Join(ids, ", ")))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			return withEnv(cmd, func(env *app.Env) error {
				return runBulk(cmd, env, res, ids, func(c *api.Client) bulk.Action {
					return pages.DeleteAction(c, res)
				})
			})
		},
	}

	addIDsFlag(cmd)
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	return cmd
}
