package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/devnullvoid/shoptui/internal/logger"
)

const appDirName = "shoptui"

//go:embed config.tpl.yml
var templateFS embed.FS

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getXDGConfigDir(), "config.yml")
}

// CreateDefaultConfigFile creates a default configuration file and returns its path.
func CreateDefaultConfigFile() (string, error) {
	return CreateDefaultConfigFileAt(GetDefaultConfigPath())
}

// CreateDefaultConfigFileAt writes the commented template to path unless a
// file already exists there.
func CreateDefaultConfigFileAt(path string) (string, error) {
	if path == "" {
		return "", errors.New("config path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	templateData, err := templateFS.ReadFile("config.tpl.yml")
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}

	if err := os.WriteFile(path, templateData, 0o600); err != nil {
		return "", fmt.Errorf("write config file: %w", err)
	}

	return path, nil
}

// FindDefaultConfigPath finds the default configuration file path.
func FindDefaultConfigPath() (string, bool) {
	configPath := GetDefaultConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		return configPath, true
	}

	if _, err := os.Stat("config.yml"); err == nil {
		return "config.yml", true
	}

	return "", false
}

// SaveConfigFile writes cfg to path as YAML with the password age-encrypted.
// SOPS-encrypted files are never rewritten.
func SaveConfigFile(cfg *Config, path string) error {
	if path == "" {
		return errors.New("config path is empty")
	}

	if data, err := os.ReadFile(path); err == nil && IsSOPSEncrypted(path, data) {
		return fmt.Errorf("%s is SOPS-encrypted; edit it with sops", path)
	}

	out := *cfg
	if err := EncryptConfigSensitiveFields(&out); err != nil {
		return err
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	cfg.Password = out.Password
	cfg.MarkSensitiveDataEncrypted()

	return nil
}

func getXDGConfigDir() string { return xdgDir("XDG_CONFIG_HOME", ".config") }

func getXDGCacheDir() string { return xdgDir("XDG_CACHE_HOME", ".cache") }

// xdgDir resolves the application directory under the XDG base directory
// named by env, or under ~/<fallback> when it is unset.
func xdgDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appDirName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(fallback, appDirName)
	}

	return filepath.Join(home, fallback, appDirName)
}

// IsSOPSEncrypted reports whether data looks like a SOPS-managed file: a
// "sops:" metadata block or ENC[...] values. path is only used for logging.
func IsSOPSEncrypted(path string, data []byte) bool {
	found := bytes.Contains(data, []byte("sops:")) || bytes.Contains(data, []byte("ENC["))
	if found {
		logger.For("config").Debug("%s is SOPS-encrypted", path)
	}

	return found
}

// FindSOPSRule reports whether a .sops.yaml exists in dir or one of its
// parents, i.e. whether a new config file written there would be encrypted
// by sops.
func FindSOPSRule(dir string) bool {
	for {
		if _, err := os.Stat(filepath.Join(dir, ".sops.yaml")); err == nil {
			return true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}
