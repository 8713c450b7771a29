// Package config loads shoptui settings.
//
// Sources, lowest precedence first: built-in defaults, the YAML config file
// (optionally SOPS-encrypted), SHOPTUI_* environment variables and finally
// command-line flags, which internal/bootstrap applies on top.
//
//	api_url: "https://shop.example.com/api"
//	email: "admin@shop.example.com"
//	password: "age1:..."  # cleartext is encrypted on first successful login
//	timeout: 30s
//	page_size: 20
//	redirect_delay: 1.5s
//	key_bindings:
//	  search: "/"
//	theme:
//	  name: rose
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/getsops/sops/v3/decrypt"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIURL is used when no backend URL is configured anywhere.
	DefaultAPIURL = "http://localhost:5000/api"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second
	// DefaultPageSize is the number of rows per list page.
	DefaultPageSize = 10
	// DefaultRedirectDelay is how long the dashboard waits after an expired
	// session before returning to the login screen.
	DefaultRedirectDelay = 1500 * time.Millisecond
)

const sessionFileName = "session"

// Config is the complete application configuration.
type Config struct {
	APIURL   string        `yaml:"api_url"`
	Email    string        `yaml:"email" validate:"omitempty,email"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout" validate:"min=0"`
	Insecure bool          `yaml:"insecure"`
	Debug    bool          `yaml:"debug"`
	CacheDir string        `yaml:"cache_dir"`
	// AgeDir holds the age identity used for the password and session files.
	AgeDir        string        `yaml:"age_dir,omitempty"`
	SessionFile   string        `yaml:"session_file"`
	PageSize      int           `yaml:"page_size" validate:"min=0,max=500"`
	RedirectDelay time.Duration `yaml:"redirect_delay" validate:"min=0"`
	KeyBindings   KeyBindings   `yaml:"key_bindings" validate:"-"`
	Theme         ThemeConfig   `yaml:"theme" validate:"-"`

	// hasCleartextSensitive is set when the last file merged held a password
	// that is not yet age-encrypted.
	hasCleartextSensitive bool `yaml:"-"`
}

// ThemeConfig selects and tweaks the color theme.
type ThemeConfig struct {
	// Name selects a built-in theme ("default" or "rose").
	Name string `yaml:"name,omitempty"`
	// Colors overrides named theme colors with any tcell color name or hex
	// code.
	Colors map[string]string `yaml:"colors"`
}

// HasCleartextSensitiveData reports whether the loaded file held a password
// that is not yet age-encrypted.
func (c *Config) HasCleartextSensitiveData() bool {
	return c.hasCleartextSensitive
}

// MarkSensitiveDataEncrypted clears the cleartext marker after a rewrite.
func (c *Config) MarkSensitiveDataEncrypted() {
	c.hasCleartextSensitive = false
}

// envVar binds one SHOPTUI_* variable to a field. Malformed values are
// ignored, leaving the field for the file or defaults to fill.
type envVar struct {
	name string
	set  func(c *Config, v string)
}

var envVars = []envVar{
	{"SHOPTUI_API_URL", func(c *Config, v string) { c.APIURL = v }},
	{"SHOPTUI_EMAIL", func(c *Config, v string) { c.Email = v }},
	{"SHOPTUI_PASSWORD", func(c *Config, v string) { c.Password = v }},
	{"SHOPTUI_INSECURE", func(c *Config, v string) { c.Insecure = isTrue(v) }},
	{"SHOPTUI_DEBUG", func(c *Config, v string) { c.Debug = isTrue(v) }},
	{"SHOPTUI_CACHE_DIR", func(c *Config, v string) { c.CacheDir = ExpandHomePath(v) }},
	{"SHOPTUI_AGE_DIR", func(c *Config, v string) { c.AgeDir = ExpandHomePath(v) }},
	{"SHOPTUI_SESSION_FILE", func(c *Config, v string) { c.SessionFile = ExpandHomePath(v) }},
	{"SHOPTUI_TIMEOUT", func(c *Config, v string) {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}},
	{"SHOPTUI_PAGE_SIZE", func(c *Config, v string) {
		if n, err := strconv.Atoi(v); err == nil {
			c.PageSize = n
		}
	}},
}

func isTrue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// NewConfig returns a Config holding only what the environment sets. Call
// SetDefaults after merging the file and flags.
func NewConfig() *Config {
	c := &Config{KeyBindings: DefaultKeyBindings()}

	for _, ev := range envVars {
		if v := os.Getenv(ev.name); v != "" {
			ev.set(c, v)
		}
	}

	if c.AgeDir != "" {
		SetAgeDirOverride(c.AgeDir)
	}

	return c
}

// fileConfig is the on-disk form. Pointers tell an explicit false or zero
// apart from a missing key.
type fileConfig struct {
	APIURL        string            `yaml:"api_url"`
	Email         string            `yaml:"email"`
	Password      string            `yaml:"password"`
	Timeout       *time.Duration    `yaml:"timeout"`
	Insecure      *bool             `yaml:"insecure"`
	Debug         *bool             `yaml:"debug"`
	CacheDir      string            `yaml:"cache_dir"`
	AgeDir        string            `yaml:"age_dir"`
	SessionFile   string            `yaml:"session_file"`
	PageSize      *int              `yaml:"page_size"`
	RedirectDelay *time.Duration    `yaml:"redirect_delay"`
	KeyBindings   map[string]string `yaml:"key_bindings"`
	Theme         ThemeConfig       `yaml:"theme"`
}

func setString(dst *string, v string, expand bool) {
	if v == "" {
		return
	}

	if expand {
		v = ExpandHomePath(v)
	}

	*dst = v
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (fc *fileConfig) apply(c *Config) error {
	// The age directory is needed before any password is decrypted, and the
	// environment keeps precedence over it.
	if c.AgeDir == "" {
		setString(&c.AgeDir, fc.AgeDir, true)
	}
	if c.AgeDir != "" {
		SetAgeDirOverride(c.AgeDir)
	}

	setString(&c.APIURL, fc.APIURL, false)
	setString(&c.Email, fc.Email, false)
	setString(&c.Password, fc.Password, false)
	setString(&c.CacheDir, fc.CacheDir, true)
	setString(&c.SessionFile, fc.SessionFile, true)
	setString(&c.Theme.Name, fc.Theme.Name, false)

	setPtr(&c.Timeout, fc.Timeout)
	setPtr(&c.Insecure, fc.Insecure)
	setPtr(&c.Debug, fc.Debug)
	setPtr(&c.PageSize, fc.PageSize)
	setPtr(&c.RedirectDelay, fc.RedirectDelay)

	for name, color := range fc.Theme.Colors {
		if c.Theme.Colors == nil {
			c.Theme.Colors = make(map[string]string, len(fc.Theme.Colors))
		}
		c.Theme.Colors[name] = color
	}

	return c.KeyBindings.merge(fc.KeyBindings)
}

// MergeWithFile layers the YAML file at path over c. An empty path is a
// no-op; SOPS-encrypted files are decrypted first.
func (c *Config) MergeWithFile(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	sopsFile := IsSOPSEncrypted(path, data)
	if sopsFile {
		if data, err = decrypt.File(path, "yaml"); err != nil {
			return fmt.Errorf("decrypt %s: %w", path, err)
		}
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	c.hasCleartextSensitive = !sopsFile && fc.Password != "" && !isEncrypted(fc.Password)

	if err := fc.apply(c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}

// SetDefaults fills every option left unset.
func (c *Config) SetDefaults() {
	c.APIURL = c.GetAPIURL()
	c.Timeout = c.GetTimeout()

	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.RedirectDelay <= 0 {
		c.RedirectDelay = DefaultRedirectDelay
	}
	if c.CacheDir == "" {
		c.CacheDir = getXDGCacheDir()
	}
	if c.SessionFile == "" {
		c.SessionFile = filepath.Join(getXDGConfigDir(), sessionFileName)
	}
	if c.Theme.Colors == nil {
		c.Theme.Colors = make(map[string]string)
	}

	c.KeyBindings.fillDefaults()
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance reports fields by their YAML names.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})

	return validate
}

// Validate checks the configuration. Call after SetDefaults.
func (c *Config) Validate() error {
	if err := validateAPIURL(c.APIURL); err != nil {
		return err
	}

	if err := validatorInstance().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}

		fe := verrs[0]
		switch fe.Tag() {
		case "max":
			return fmt.Errorf("%s %v exceeds maximum of %s", fe.Field(), fe.Value(), fe.Param())
		case "min":
			return fmt.Errorf("%s must not be negative", fe.Field())
		case "email":
			return fmt.Errorf("%s %q is not an email address", fe.Field(), fe.Value())
		default:
			return fmt.Errorf("%s is invalid (%s)", fe.Field(), fe.Tag())
		}
	}

	return ValidateKeyBindings(c.KeyBindings)
}

func validateAPIURL(raw string) error {
	if raw == "" {
		return errors.New("api_url is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid api_url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url must use http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("api_url %q has no host", raw)
	}

	return nil
}

// GetAPIURL returns the configured backend base URL.
func (c *Config) GetAPIURL() string {
	if c.APIURL == "" {
		return DefaultAPIURL
	}

	return c.APIURL
}

// GetTimeout returns the per-request timeout.
func (c *Config) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}

	return c.Timeout
}

// GetInsecure returns the configured insecure flag.
func (c *Config) GetInsecure() bool {
	return c.Insecure
}

// GetPassword returns the configured password, decrypting it when it carries
// the age prefix.
func (c *Config) GetPassword() (string, error) {
	return DecryptField(c.Password)
}

// ExpandHomePath trims path and expands a leading "~" to the home directory.
func ExpandHomePath(path string) string {
	path = strings.TrimSpace(path)

	rest, ok := strings.CutPrefix(path, "~")
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != '\\') {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimLeft(rest, `/\`))
}
