package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCreateDefaultConfigFileAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	gotPath, err := CreateDefaultConfigFileAt(path)
	require.NoError(t, err)
	assert.Equal(t, path, gotPath)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "api_url:")

	// The template itself must load cleanly.
	c := &Config{KeyBindings: DefaultKeyBindings()}
	require.NoError(t, c.MergeWithFile(path))
	c.SetDefaults()
	assert.NoError(t, c.Validate())

	// Second call is a no-op and keeps the same path.
	gotPath, err = CreateDefaultConfigFileAt(path)
	require.NoError(t, err)
	assert.Equal(t, path, gotPath)
}

func TestCreateDefaultConfigFileAt_EmptyPath(t *testing.T) {
	_, err := CreateDefaultConfigFileAt("")
	assert.Error(t, err)
}

func TestSaveConfigFile_EncryptsPassword(t *testing.T) {
	useAgeDir(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := &Config{
		APIURL:      "https://shop.example.com/api",
		Password:    "plain-secret",
		KeyBindings: DefaultKeyBindings(),
	}
	cfg.KeyBindings.Filter = "F3"
	cfg.hasCleartextSensitive = true

	require.NoError(t, SaveConfigFile(cfg, path))

	assert.False(t, cfg.HasCleartextSensitiveData())
	assert.True(t, isEncrypted(cfg.Password))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "plain-secret")

	var raw map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, map[string]interface{}{"filter": "F3"}, raw["key_bindings"])

	reloaded := &Config{KeyBindings: DefaultKeyBindings()}
	require.NoError(t, reloaded.MergeWithFile(path))
	assert.False(t, reloaded.HasCleartextSensitiveData())

	password, err := reloaded.GetPassword()
	require.NoError(t, err)
	assert.Equal(t, "plain-secret", password)
}

func TestSaveConfigFile_RefusesSOPS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: ENC[AES256_GCM,data:abc]\nsops:\n  version: 3.9.0\n"), 0o600))

	err := SaveConfigFile(&Config{}, path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sops")
}

func TestIsSOPSEncrypted(t *testing.T) {
	assert.True(t, IsSOPSEncrypted("a.yml", []byte("password: ENC[AES256_GCM,data:x]")))
	assert.True(t, IsSOPSEncrypted("a.yml", []byte("sops:\n  age: []")))
	assert.False(t, IsSOPSEncrypted("a.yml", []byte("api_url: http://localhost:5000/api")))
}

func TestFindSOPSRule(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	assert.False(t, FindSOPSRule(nested))

	require.NoError(t, os.WriteFile(filepath.Join(root, ".sops.yaml"), []byte("creation_rules: []\n"), 0o600))
	assert.True(t, FindSOPSRule(nested))
}
