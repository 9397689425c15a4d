// Package client is the Go consumer of the test-manager API: a thin HTTP
// wrapper with uniform error normalization, typed endpoint calls, local
// form validation and the execution-detail aggregation used by the CLI.
package client

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore holds the bearer token between calls. The session lifecycle
// is: set on login, cleared on logout or on any 401 response.
type TokenStore interface {
	Token() string
	SetToken(tok string) error
	Clear() error
}

// MemoryStore keeps the token in memory, for tests and one-shot scripts.
type MemoryStore struct {
	mu  sync.Mutex
	tok string
}

func (s *MemoryStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tok
}

func (s *MemoryStore) SetToken(tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = tok
	return nil
}

func (s *MemoryStore) Clear() error { return s.SetToken("") }

// FileStore persists the token under a fixed file so separate CLI
// invocations share one session.
type FileStore struct {
	Path string
}

// DefaultFileStore places the token under the user config directory.
func DefaultFileStore() (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &FileStore{Path: filepath.Join(dir, "test-manager", "auth_token")}, nil
}

func (s *FileStore) Token() string {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (s *FileStore) SetToken(tok string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(tok), 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
