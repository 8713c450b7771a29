package config

import "time"

// marshaledConfig is the sanitized structure written to disk.
type marshaledConfig struct {
	APIURL        string            `yaml:"api_url,omitempty"`
	Email         string            `yaml:"email,omitempty"`
	Password      string            `yaml:"password,omitempty"`
	Timeout       string            `yaml:"timeout,omitempty"`
	Insecure      bool              `yaml:"insecure,omitempty"`
	Debug         bool              `yaml:"debug,omitempty"`
	CacheDir      string            `yaml:"cache_dir,omitempty"`
	AgeDir        string            `yaml:"age_dir,omitempty"`
	SessionFile   string            `yaml:"session_file,omitempty"`
	PageSize      int               `yaml:"page_size,omitempty"`
	RedirectDelay string            `yaml:"redirect_delay,omitempty"`
	KeyBindings   map[string]string `yaml:"key_bindings,omitempty"`
	Theme         *ThemeConfig      `yaml:"theme,omitempty"`
}

// MarshalYAML implements yaml.Marshaler. Durations are written in their
// string form and only key bindings that differ from the defaults are kept.
func (cfg *Config) MarshalYAML() (any, error) {
	if cfg == nil {
		return nil, nil
	}

	clean := marshaledConfig{
		APIURL:        cfg.APIURL,
		Email:         cfg.Email,
		Password:      cfg.Password,
		Timeout:       durationString(cfg.Timeout),
		Insecure:      cfg.Insecure,
		Debug:         cfg.Debug,
		CacheDir:      cfg.CacheDir,
		AgeDir:        cfg.AgeDir,
		SessionFile:   cfg.SessionFile,
		PageSize:      cfg.PageSize,
		RedirectDelay: durationString(cfg.RedirectDelay),
	}

	defaults := DefaultKeyBindings()
	defaultFields := defaults.fields()
	kb := cfg.KeyBindings

	for name, field := range kb.fields() {
		if *field == "" || *field == *defaultFields[name] {
			continue
		}

		if clean.KeyBindings == nil {
			clean.KeyBindings = make(map[string]string)
		}

		clean.KeyBindings[name] = *field
	}

	if cfg.Theme.Name != "" || len(cfg.Theme.Colors) > 0 {
		theme := cfg.Theme
		clean.Theme = &theme
	}

	return clean, nil
}

func durationString(d time.Duration) string {
	if d <= 0 {
		return ""
	}

	return d.String()
}
