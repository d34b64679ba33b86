package session

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestLoginLogout(t *testing.T) {
	s := NewIdentityStore(filepath.Join(t.TempDir(), "nested", "session.yml"))

	if id, err := s.Current(); err != nil || id != "" {
		t.Fatalf("expected signed out, got %q, %v", id, err)
	}

	if err := s.Login("  alice  "); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if id, _ := s.Current(); id != "alice" {
		t.Errorf("current = %q, want alice", id)
	}
	info, _ := s.Info()
	if info == nil || info.SignedInAt.IsZero() {
		t.Errorf("expected sign-in time, got %+v", info)
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if err := s.Logout(); err != nil {
		t.Errorf("second logout should be a no-op, got %v", err)
	}
	if id, _ := s.Current(); id != "" {
		t.Errorf("expected signed out after logout, got %q", id)
	}
}

func TestLoginRejectsEmptyID(t *testing.T) {
	s := NewIdentityStore(filepath.Join(t.TempDir(), "session.yml"))
	if err := s.Login("   "); !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("expected ErrEmptyUserID, got %v", err)
	}
}
