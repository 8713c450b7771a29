// Package bootstrap loads the configuration for a command: the config file,
// then SHOPTUI_* environment variables, then command line flags, with
// defaults filling whatever is left.
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/devnullvoid/shoptui/internal/config"
)

// Overrides are the settings given on the command line or in the
// environment. Zero values leave the loaded configuration untouched.
type Overrides struct {
	APIURL      string        `mapstructure:"api_url"`
	Email       string        `mapstructure:"email"`
	Password    string        `mapstructure:"password"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Insecure    bool          `mapstructure:"insecure"`
	Debug       bool          `mapstructure:"debug"`
	CacheDir    string        `mapstructure:"cache_dir"`
	SessionFile string        `mapstructure:"session_file"`
	PageSize    int           `mapstructure:"page_size"`
}

func (o Overrides) apply(cfg *config.Config) {
	if v := strings.TrimSpace(o.APIURL); v != "" {
		cfg.APIURL = v
	}
	if o.Email != "" {
		cfg.Email = o.Email
	}
	if o.Password != "" {
		cfg.Password = o.Password
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
	}
	if o.PageSize > 0 {
		cfg.PageSize = o.PageSize
	}
	if o.CacheDir != "" {
		cfg.CacheDir = config.ExpandHomePath(o.CacheDir)
	}
	if o.SessionFile != "" {
		cfg.SessionFile = config.ExpandHomePath(o.SessionFile)
	}

	cfg.Insecure = cfg.Insecure || o.Insecure
	cfg.Debug = cfg.Debug || o.Debug
}

// Options selects the config file and carries the overrides.
type Options struct {
	ConfigPath string
	NoCache    bool
	Overrides  Overrides
}

// Result is a loaded configuration and the file it came from, if any.
type Result struct {
	Config     *config.Config
	ConfigPath string
	NoCache    bool
}

// Bootstrap loads and validates the configuration. When only validation
// fails, the result is returned along with the error so onboarding can
// point the user at the file to fix.
func Bootstrap(opts Options) (*Result, error) {
	cfg := config.NewConfig()
	path := ResolveConfigPath(opts.ConfigPath)

	if path != "" {
		if err := cfg.MergeWithFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	opts.Overrides.apply(cfg)
	cfg.SetDefaults()

	res := &Result{Config: cfg, ConfigPath: path, NoCache: opts.NoCache}

	if err := cfg.Validate(); err != nil {
		return res, fmt.Errorf("invalid configuration: %w", err)
	}

	return res, nil
}

// ResolveConfigPath returns the flag path with ~ expanded, else the first
// config file found in the default locations, else "".
func ResolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return config.ExpandHomePath(flagPath)
	}

	if path, found := config.FindDefaultConfigPath(); found {
		return path
	}

	return ""
}
