package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/devnullvoid/shoptui/internal/app"
	"github.com/devnullvoid/shoptui/internal/export"
)

// writeTo sends write to stdout when path is "-", else to the file.
func writeTo(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(cmd.OutOrStdout())
	}

	return export.ToFile(path, write)
}

// newExportCmd creates the export command
func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <orders|customers|admins|products>",
		Short: "Export a collection as CSV or JSON",
		Long: `Export a fetched collection as CSV or JSON.

The whole collection is written unless --filtered is given, in which case
the search, filter and date flags select the rows, in list order.
The file name defaults to <resource>-<date>-<time>.<format> in the working
directory; use -o - for stdout.`,
		Example: `  shoptui export orders --format csv
  shoptui export products --filtered --filter category=skincare -o skincare.json --format json
  shoptui export customers -o - | less`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: resourceNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := parseResource(args[0])
			if err != nil {
				return err
			}

			name, _ := cmd.Flags().GetString("format")
			format, err := export.ParseFormat(name)
			if err != nil {
				return err
			}

			filtered, _ := cmd.Flags().GetBool("filtered")
			path, _ := cmd.Flags().GetString("output")
			if strings.TrimSpace(path) == "" {
				path = export.Filename(string(res), format, time.Now())
			}

			return withEnv(cmd, func(env *app.Env) error {
				q, err := queryFromFlags(cmd, env.Config.PageSize)
				if err != nil {
					return err
				}

				col, err := loadCollection(cmd, env, res, q)
				if err != nil {
					return err
				}

				var n int
				err = writeTo(cmd, path, func(w io.Writer) error {
					var werr error
					n, werr = col.Export(w, format, filtered)
					return werr
				})
				if err != nil {
					return fmt.Errorf("export %s: %w", res, err)
				}

				if path != "-" {
					fmt.Fprintf(cmd.OutOrStdout(), "Exported %d %s to %s\n", n, res, path)
				}

				return nil
			})
		},
	}

	addQueryFlags(cmd)
	cmd.Flags().String("format", string(export.FormatCSV), "Export format: csv or json")
	cmd.Flags().Bool("filtered", false, "Export only the rows matching the query flags")
	cmd.Flags().StringP("output", "o", "", "Output file, - for stdout")

	return cmd
}

// newInvoiceCmd creates the invoice command
func newInvoiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice <order-id>",
		Short: "Render a printable HTML invoice for an order",
		Example: `  shoptui invoice ORD-012
  shoptui invoice ORD-012 -o - > invoice.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			path, _ := cmd.Flags().GetString("output")

			return withEnv(cmd, func(env *app.Env) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), env.Config.GetTimeout())
				defer cancel()

				order, err := env.Client.GetOrder(ctx, id)
				if err != nil {
					return fail("fetch order "+id, err)
				}

				if strings.TrimSpace(path) == "" {
					path = export.InvoiceNumber(order) + ".html"
				}

				if err := writeTo(cmd, path, func(w io.Writer) error {
					return export.Invoice(w, export.DefaultShop, order, time.Now())
				}); err != nil {
					return err
				}

				if path != "-" {
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote invoice %s to %s\n", export.InvoiceNumber(order), path)
				}

				return nil
			})
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file, - for stdout")

	return cmd
}
