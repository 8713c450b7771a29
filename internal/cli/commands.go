package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/devnullvoid/shoptui/internal/app"
	"github.com/devnullvoid/shoptui/internal/cache"
	"github.com/devnullvoid/shoptui/internal/config"
	"github.com/devnullvoid/shoptui/internal/forms"
	"github.com/devnullvoid/shoptui/internal/version"
	"github.com/devnullvoid/shoptui/pkg/api"
)

// newTUICmd creates the dashboard command
func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive dashboard",
		Long: `Start the interactive dashboard.

This is also what running shoptui without a subcommand does.`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}
}

// newLoginCmd creates the login command
func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Sign in to the shop backend and store the session token, age-encrypted,
in the session file. The running dashboard picks the new session up.

The email and password come from flags, SHOPTUI_ variables or the config
file; whatever is missing is prompted for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(env *app.Env) error {
				return runLogin(cmd, env)
			})
		},
	}
}

func runLogin(cmd *cobra.Command, env *app.Env) error {
	email := env.Config.Email
	password, err := env.Config.GetPassword()
	if err != nil {
		return fmt.Errorf("read configured password: %w", err)
	}

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.ErrOrStderr()

	if email == "" {
		if email, err = promptLine(in, out, "Email: "); err != nil {
			return err
		}
	}

	if password == "" {
		if password, err = promptPassword(cmd.InOrStdin(), in, out, "Password: "); err != nil {
			return err
		}
	}

	creds, err := forms.ValidateLogin(forms.LoginInput{Email: email, Password: password})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), env.Config.GetTimeout())
	defer cancel()

	user, err := env.Client.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	if err := env.Session.SetLogin(env.Session.Token(), user.Email); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	encryptConfigPassword(cmd, env)

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", user.Email, user.Role)

	return nil
}

// encryptConfigPassword rewrites a config file whose password proved valid
// but is still stored in cleartext.
func encryptConfigPassword(cmd *cobra.Command, env *app.Env) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path, _ = config.FindDefaultConfigPath()
	}

	if path == "" || !env.Config.HasCleartextSensitiveData() {
		return
	}

	if err := config.SaveConfigFile(env.Config, path); err != nil {
		env.Logger.Error("Failed to encrypt password in %s: %v", path, err)
		return
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Encrypted the password stored in %s\n", path)
}

func promptLine(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)

	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(prompt), ": "), err)
	}

	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question on stderr. Anything but y or yes is a no.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	answer, err := promptLine(bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr(), question+" [y/N] ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// promptPassword reads without echo from a terminal, else a plain line.
func promptPassword(raw io.Reader, in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	if f, ok := raw.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, prompt)

		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}

		return string(b), nil
	}

	return promptLine(in, out, prompt)
}

// newLogoutCmd creates the logout command
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session and cached collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(env *app.Env) error {
				env.Client.Logout()

				if env.Snapshots != nil {
					if err := cache.DropSnapshots(env.Snapshots, resourceNames()...); err != nil {
						return fmt.Errorf("drop cached collections: %w", err)
					}
				}

				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")

				return nil
			})
		},
	}
}

// newWhoamiCmd creates the session status command
func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(env *app.Env) error {
				if env.Session.Token() == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
					return api.ErrNotAuthenticated
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s at %s (%s)\n",
					env.Session.Email(), env.Config.GetAPIURL(), since(env.Session.SavedAt()))

				return nil
			})
		},
	}
}

func since(t time.Time) string {
	if t.IsZero() {
		return "unknown time"
	}

	return humanize.Time(t)
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetBuildInfo()
			fmt.Fprint(cmd.OutOrStdout(), info.String())

			if version.IsDevBuild() {
				fmt.Fprintln(cmd.OutOrStdout(), "Development build")
			}

			return nil
		},
	}
}

// fail reports err as a command failure, keeping the wrapped sentinel for
// errors.Is callers.
func fail(format string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrNotAuthenticated) {
		return fmt.Errorf(format+": %w (run shoptui login)", err)
	}

	return fmt.Errorf(format+": %w", err)
}
