package onboarding

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOnboardingTarget(t *testing.T) {
	t.Run("empty path uses default", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		target, err := resolveOnboardingTarget("")
		require.NoError(t, err)
		assert.False(t, target.exists)
		assert.NotEmpty(t, target.path)
	})

	t.Run("existing config path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("api_url: x"), 0o600))

		target, err := resolveOnboardingTarget(path)
		require.NoError(t, err)
		assert.True(t, target.exists)
		assert.Equal(t, path, target.path)
	})

	t.Run("missing config path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.yml")

		target, err := resolveOnboardingTarget(path)
		require.NoError(t, err)
		assert.False(t, target.exists)
		assert.Equal(t, path, target.path)
	})
}

func TestHandleValidationError_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shoptui", "config.yml")
	var out bytes.Buffer

	err := HandleValidationError(strings.NewReader("maybe\ny\n"), &out, path, errors.New("api_url must use http or https"))
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Contains(t, out.String(), "Issue: api_url must use http or https")
	assert.Contains(t, out.String(), "Please enter 'y' or 'n'.")
	assert.Contains(t, out.String(), "Configuration file created")
}

func TestHandleValidationError_SOPSHint(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".sops.yaml"), []byte("creation_rules: []\n"), 0o600))

	path := filepath.Join(root, "shoptui", "config.yml")
	var out bytes.Buffer

	require.NoError(t, HandleValidationError(strings.NewReader("y\n"), &out, path, nil))
	assert.Contains(t, out.String(), "sops -e -i "+path)
}

func TestHandleValidationError_Declined(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	var out bytes.Buffer

	err := HandleValidationError(strings.NewReader("n\n"), &out, path, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.NoFileExists(t, path)
}

func TestHandleValidationError_NoInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	err := HandleValidationError(strings.NewReader(""), &bytes.Buffer{}, path, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestHandleValidationError_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("key_bindings:\n  quit: Escape\n"), 0o600))
	var out bytes.Buffer

	err := HandleValidationError(strings.NewReader("y\n"), &out, path, errors.New("key binding quit uses reserved key Escape"))
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, out.String(), "under key_bindings")
}

func TestIsKeyBindingValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "keybinding validation error", err: errors.New("key binding bulk uses reserved key Escape"), want: true},
		{name: "other validation error", err: errors.New("api_url is required"), want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isKeyBindingValidationError(tc.err))
		})
	}
}
