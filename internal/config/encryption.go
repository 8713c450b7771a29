package config

// Values that must not sit on disk in cleartext (the config password and
// the persisted session token) are sealed with a per-user age X25519 key
// unless the whole file is managed by SOPS. A sealed value is "age1:"
// followed by the base64 age ciphertext.

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"filippo.io/age"
)

const (
	encryptionPrefix  = "age1:"
	identityFileName  = ".age-identity"
	recipientFileName = ".age-recipient"
)

var (
	keyMu     sync.Mutex
	keyDir    string
	keyCache  = make(map[string]*age.X25519Identity)
	errNoKeys = errors.New("identity file holds no X25519 key")
)

// SetAgeDirOverride keeps the age key files in dir instead of the config
// directory. An empty dir restores the default.
func SetAgeDirOverride(dir string) {
	keyMu.Lock()
	keyDir = dir
	keyMu.Unlock()
}

// loadIdentity returns the key of the current age directory, generating and
// saving one on first use. Keys are cached per directory.
func loadIdentity() (*age.X25519Identity, error) {
	keyMu.Lock()
	defer keyMu.Unlock()

	dir := keyDir
	if dir == "" {
		dir = getXDGConfigDir()
	}

	if id, ok := keyCache[dir]; ok {
		return id, nil
	}

	id, err := readIdentity(filepath.Join(dir, identityFileName))
	if errors.Is(err, os.ErrNotExist) {
		id, err = createIdentity(dir)
	}
	if err != nil {
		return nil, err
	}

	keyCache[dir] = id

	return id, nil
}

func readIdentity(path string) (*age.X25519Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ids, err := age.ParseIdentities(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, id := range ids {
		if x, ok := id.(*age.X25519Identity); ok {
			return x, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", path, errNoKeys)
}

// createIdentity writes a new private key and, for reference, its public
// recipient into dir.
func createIdentity(dir string) (*age.X25519Identity, error) {
	id, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generate age key: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create age dir: %w", err)
	}

	files := map[string]string{
		identityFileName:  id.String() + "\n",
		recipientFileName: id.Recipient().String() + "\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			return nil, fmt.Errorf("save %s: %w", name, err)
		}
	}

	return id, nil
}

func isEncrypted(value string) bool {
	return strings.HasPrefix(value, encryptionPrefix)
}

// EncryptField seals value. Empty and already sealed values are returned
// unchanged.
func EncryptField(value string) (string, error) {
	if value == "" || isEncrypted(value) {
		return value, nil
	}

	id, err := loadIdentity()
	if err != nil {
		return "", err
	}

	var sealed bytes.Buffer

	w, err := age.Encrypt(&sealed, id.Recipient())
	if err != nil {
		return "", fmt.Errorf("age encrypt: %w", err)
	}
	if _, err := io.WriteString(w, value); err != nil {
		return "", fmt.Errorf("age encrypt: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("age encrypt: %w", err)
	}

	return encryptionPrefix + base64.StdEncoding.EncodeToString(sealed.Bytes()), nil
}

// DecryptField opens a value sealed by EncryptField. Values without the
// prefix are returned unchanged.
func DecryptField(value string) (string, error) {
	payload, ok := strings.CutPrefix(value, encryptionPrefix)
	if !ok {
		return value, nil
	}

	sealed, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}

	id, err := loadIdentity()
	if err != nil {
		return "", err
	}

	r, err := age.Decrypt(bytes.NewReader(sealed), id)
	if err != nil {
		return "", fmt.Errorf("age decrypt: %w", err)
	}

	plain, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("age decrypt: %w", err)
	}

	return string(plain), nil
}

// EncryptConfigSensitiveFields seals the password of cfg in place.
func EncryptConfigSensitiveFields(cfg *Config) error {
	sealed, err := EncryptField(cfg.Password)
	if err != nil {
		return fmt.Errorf("encrypt password: %w", err)
	}

	cfg.Password = sealed

	return nil
}
