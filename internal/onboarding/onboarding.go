// Package onboarding handles the first-run configuration flow.
//
// It explains why a configuration was rejected and, when no config file
// exists yet, offers to write the commented default one.
package onboarding

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/devnullvoid/shoptui/internal/config"
)

// ErrNotConfigured is returned when the user declines to create a config file
// or an existing one still needs fixing by hand.
var ErrNotConfigured = errors.New("configuration setup required")

// HandleValidationError guides the user after cfg.Validate failed. A nil
// return means a default config file was created and the command should be
// re-run.
func HandleValidationError(in io.Reader, out io.Writer, configPath string, validationErr error) error {
	fmt.Fprintln(out, "🔧 Configuration Setup Required")
	fmt.Fprintln(out)

	target, err := resolveOnboardingTarget(configPath)
	if err != nil {
		return fmt.Errorf("resolve onboarding target: %w", err)
	}

	if validationErr != nil {
		fmt.Fprintf(out, "Issue: %v\n", validationErr)
		fmt.Fprintln(out)
	}

	if target.exists {
		fmt.Fprintf(out, "✅ Found existing configuration at '%s'.\n", target.path)
		if isKeyBindingValidationError(validationErr) {
			fmt.Fprintf(out, "💡 Key binding errors must be fixed under key_bindings in '%s'.\n", target.path)
		} else {
			fmt.Fprintf(out, "💡 Please update '%s' or override the value with a flag or SHOPTUI_ variable.\n", target.path)
		}

		return ErrNotConfigured
	}

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, fmt.Sprintf("Would you like to create a default configuration file at '%s'?", target.path)) {
		fmt.Fprintln(out, "❌ Configuration setup canceled. You can configure via flags or environment variables instead.")
		return ErrNotConfigured
	}

	path, err := config.CreateDefaultConfigFileAt(target.path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}

	fmt.Fprintf(out, "✅ Configuration file created at %s\n", path)
	fmt.Fprintln(out, "🔄 Set api_url to your shop backend and re-run shoptui.")
	if config.FindSOPSRule(filepath.Dir(path)) {
		fmt.Fprintf(out, "🔐 A .sops.yaml rule covers this directory; encrypt the file with: sops -e -i %s\n", path)
	}

	return nil
}

type onboardingTarget struct {
	path   string
	exists bool
}

func resolveOnboardingTarget(configPath string) (onboardingTarget, error) {
	if configPath == "" {
		return onboardingTarget{
			path:   config.GetDefaultConfigPath(),
			exists: false,
		}, nil
	}

	if _, err := os.Stat(configPath); err == nil {
		return onboardingTarget{path: configPath, exists: true}, nil
	} else if os.IsNotExist(err) {
		return onboardingTarget{path: configPath, exists: false}, nil
	} else {
		return onboardingTarget{}, err
	}
}

// promptYesNo asks until it reads y, n or an empty line (yes). EOF is no.
func promptYesNo(reader *bufio.Reader, out io.Writer, prompt string) bool {
	for {
		fmt.Fprintf(out, "%s [Y/n] ", prompt)

		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			fmt.Fprintln(out)
			return false
		}

		switch strings.TrimSpace(strings.ToLower(input)) {
		case "y", "yes", "":
			return true
		case "n", "no":
			return false
		default:
			fmt.Fprintln(out, "Please enter 'y' or 'n'.")
		}
	}
}

func isKeyBindingValidationError(err error) bool {
	if err == nil {
		return false
	}

	return strings.Contains(strings.ToLower(err.Error()), "key binding ")
}
