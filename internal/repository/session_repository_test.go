package repository

import (
	"path/filepath"
	"regexp"
	"testing"
	"time"
)

func TestSessionRepoCreateAndResolve(t *testing.T) {
	t.Parallel()
	repo := NewSessionRepo(filepath.Join(t.TempDir(), "sessions.csv"))

	session, err := repo.Create("user_1", 30*24*time.Hour)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !regexp.MustCompile(`^[0-9a-f]{64}$`).MatchString(session.Token) {
		t.Errorf("Create() token = %q, want 64 hex chars", session.Token)
	}

	got, err := repo.GetByToken(session.Token)
	if err != nil {
		t.Fatalf("GetByToken() error = %v", err)
	}
	if got.UserID != "user_1" {
		t.Errorf("GetByToken() userId = %q, want user_1", got.UserID)
	}

	if _, err := repo.GetByToken("deadbeef"); err != ErrNotFound {
		t.Errorf("GetByToken() unknown error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepoExpiredTokenIsAbsent(t *testing.T) {
	t.Parallel()
	repo := NewSessionRepo(filepath.Join(t.TempDir(), "sessions.csv"))

	session, err := repo.Create("user_1", -time.Minute)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repo.GetByToken(session.Token); err != ErrNotFound {
		t.Errorf("GetByToken() expired error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepoDeleteByToken(t *testing.T) {
	t.Parallel()
	repo := NewSessionRepo(filepath.Join(t.TempDir(), "sessions.csv"))

	s1, err := repo.Create("user_1", time.Hour)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	s2, err := repo.Create("user_2", time.Hour)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.DeleteByToken(s1.Token); err != nil {
		t.Fatalf("DeleteByToken() error = %v", err)
	}
	if _, err := repo.GetByToken(s1.Token); err != ErrNotFound {
		t.Errorf("GetByToken() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByToken(s2.Token); err != nil {
		t.Errorf("GetByToken() unrelated session error = %v, want nil", err)
	}

	// Logging out an already-dead token is a no-op, not an error.
	if err := repo.DeleteByToken(s1.Token); err != nil {
		t.Errorf("DeleteByToken() twice error = %v, want nil", err)
	}
}

func TestSessionRepoDeleteByUser(t *testing.T) {
	t.Parallel()
	repo := NewSessionRepo(filepath.Join(t.TempDir(), "sessions.csv"))

	a1, err := repo.Create("user_a", time.Hour)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	a2, err := repo.Create("user_a", time.Hour)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	b, err := repo.Create("user_b", time.Hour)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.DeleteByUser("user_a"); err != nil {
		t.Fatalf("DeleteByUser() error = %v", err)
	}
	for _, token := range []string{a1.Token, a2.Token} {
		if _, err := repo.GetByToken(token); err != ErrNotFound {
			t.Errorf("GetByToken(%q) error = %v, want ErrNotFound", token, err)
		}
	}
	if _, err := repo.GetByToken(b.Token); err != nil {
		t.Errorf("GetByToken() other user's session error = %v, want nil", err)
	}
}
