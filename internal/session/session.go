// Package session persists the dashboard's bearer token between runs.
//
// The token is age-encrypted with the same identity used for config secrets
// and written to a 0600 file, so `shoptui login` in one process signs in the
// dashboard started by the next.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devnullvoid/shoptui/internal/config"
	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
)

var _ interfaces.Session = (*Store)(nil)

// record is the on-disk layout.
type record struct {
	Token   string    `yaml:"token"`
	Email   string    `yaml:"email,omitempty"`
	SavedAt time.Time `yaml:"saved_at"`
}

// Store is a file-backed interfaces.Session. The decrypted token is kept in
// memory after the first read; every mutation is written through.
type Store struct {
	path string

	mu      sync.RWMutex
	token   string
	email   string
	savedAt time.Time
}

// Open loads the session stored at path. A missing file is an empty session.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("session file path is empty")
	}

	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Reload re-reads the session file, picking up a login or logout made by
// another process. A missing file signs the store out.
func (s *Store) Reload() error {
	rec, err := readRecord(s.path)
	if err != nil {
		return err
	}

	token, err := config.DecryptField(rec.Token)
	if err != nil {
		return fmt.Errorf("decrypt session token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.email = rec.Email
	s.savedAt = rec.SavedAt
	s.mu.Unlock()

	return nil
}

func readRecord(path string) (record, error) {
	var rec record

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return rec, nil
	}
	if err != nil {
		return rec, fmt.Errorf("read session: %w", err)
	}

	if err := yaml.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("parse session %s: %w", path, err)
	}

	return rec, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Token returns the current bearer token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Email returns the address the session was opened with, if recorded.
func (s *Store) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.email
}

// SavedAt returns when the token was last written.
func (s *Store) SavedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.savedAt
}

// SetToken stores a new token. An empty token clears the session.
func (s *Store) SetToken(token string) error {
	return s.save(token, s.Email())
}

// SetLogin stores the token together with the signed-in email.
func (s *Store) SetLogin(token, email string) error {
	return s.save(token, email)
}

// Clear removes the token and deletes the session file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.email = ""
	s.savedAt = time.Time{}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}

	return nil
}

func (s *Store) save(token, email string) error {
	if token == "" {
		return s.Clear()
	}

	encrypted, err := config.EncryptField(token)
	if err != nil {
		return fmt.Errorf("encrypt session token: %w", err)
	}

	now := time.Now().UTC()

	data, err := yaml.Marshal(record{Token: encrypted, Email: email, SavedAt: now})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace session: %w", err)
	}

	s.token = token
	s.email = email
	s.savedAt = now

	return nil
}
