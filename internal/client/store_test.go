package client

import (
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s := &FileStore{Path: filepath.Join(t.TempDir(), "nested", "auth_token")}

	if got := s.Token(); got != "" {
		t.Fatalf("fresh store should be empty, got %q", got)
	}
	if err := s.SetToken("abc123"); err != nil {
		t.Fatal(err)
	}
	if got := s.Token(); got != "abc123" {
		t.Errorf("Token() = %q, want abc123", got)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if got := s.Token(); got != "" {
		t.Errorf("cleared store should be empty, got %q", got)
	}
	// clearing twice is fine
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear() = %v", err)
	}
}
