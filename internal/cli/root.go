package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/devnullvoid/shoptui/internal/app"
	"github.com/devnullvoid/shoptui/internal/bootstrap"
	"github.com/devnullvoid/shoptui/internal/onboarding"
	"github.com/devnullvoid/shoptui/internal/version"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = newRootCmd()

// newRootCmd builds the command tree. Tests build a fresh tree per run so
// flag values never leak between executions.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shoptui",
		Short: "A terminal back-office for a beauty shop",
		Long: `shoptui is a terminal user interface and command line client for the
back-office of a beauty and cosmetics shop.

It lists, searches, filters and pages through orders, customers, admins and
products, runs bulk status changes and exports collections as CSV or JSON.
Run without a subcommand to start the interactive dashboard.`,
		Version:       version.GetVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	cmd.CompletionOptions.DisableDefaultCmd = true

	addPersistentFlags(cmd)

	cmd.AddCommand(
		newTUICmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newListCmd(),
		newSetStatusCmd(),
		newBlockCmd(),
		newDeleteCmd(),
		newExportCmd(),
		newInvoiceCmd(),
		newVersionCmd(),
	)

	return cmd
}

// errSilent marks an error that was already reported to the user.
var errSilent = errors.New("already reported")

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := RootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// openEnv bootstraps the configuration and builds the command environment.
// Tests replace it to point commands at a fake backend.
var openEnv = func(cmd *cobra.Command) (*app.Env, error) {
	opts := getBootstrapOptions(cmd)

	result, err := bootstrap.Bootstrap(opts)
	if err != nil {
		if result == nil {
			return nil, err
		}

		// The configuration loaded but is invalid: guide the user.
		if oerr := onboarding.HandleValidationError(cmd.InOrStdin(), cmd.ErrOrStderr(), result.ConfigPath, errors.Unwrap(err)); oerr != nil {
			if errors.Is(oerr, onboarding.ErrNotConfigured) {
				return nil, err
			}

			return nil, oerr
		}

		return nil, errSilent
	}

	return app.Open(result.Config, app.Options{NoCache: result.NoCache})
}

// withEnv opens the environment for the duration of fn.
func withEnv(cmd *cobra.Command, fn func(env *app.Env) error) error {
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	return fn(env)
}

// runTUI starts the interactive dashboard
func runTUI(cmd *cobra.Command, args []string) error {
	return withEnv(cmd, func(env *app.Env) error {
		return env.RunTUI(cmd.Context())
	})
}

// getBootstrapOptions collects the config path and the flag and
// environment overrides, which viper has already merged.
func getBootstrapOptions(cmd *cobra.Command) bootstrap.Options {
	configPath, _ := cmd.Flags().GetString("config")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	var overrides bootstrap.Overrides
	if err := viper.Unmarshal(&overrides); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: ignoring flag values: %v\n", err)
	}

	return bootstrap.Options{
		ConfigPath: configPath,
		NoCache:    noCache,
		Overrides:  overrides,
	}
}

// addPersistentFlags adds all the persistent flags to the root command
func addPersistentFlags(cmd *cobra.Command) {
	// Bootstrap flags
	cmd.PersistentFlags().StringP("config", "c", "", "Path to YAML config file")
	cmd.PersistentFlags().BoolP("no-cache", "n", false, "Disable the last-known collection cache")

	// Config flags
	cmd.PersistentFlags().String("api-url", "", "Shop backend base URL")
	cmd.PersistentFlags().String("email", "", "Admin email")
	cmd.PersistentFlags().String("password", "", "Admin password")
	cmd.PersistentFlags().Duration("timeout", 0, "Per-request timeout")
	cmd.PersistentFlags().Bool("insecure", false, "Skip TLS verification")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().String("cache-dir", "", "Cache directory path")
	cmd.PersistentFlags().String("session-file", "", "Session file path")
	cmd.PersistentFlags().Int("page-size", 0, "Rows per page")

	// Bind flags to environment variables
	viper.SetEnvPrefix("SHOPTUI")
	viper.AutomaticEnv()

	bindings := map[string]string{
		"api_url":      "api-url",
		"email":        "email",
		"password":     "password",
		"timeout":      "timeout",
		"insecure":     "insecure",
		"debug":        "debug",
		"cache_dir":    "cache-dir",
		"session_file": "session-file",
		"page_size":    "page-size",
	}

	for key, flag := range bindings {
		if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", key, err))
		}
	}
}
