package session

import (
	"context"
	"errors"
	"testing"

	"budgetbook/internal/store"
)

var testSecret = []byte("test-secret")

func TestLoginIssuesVerifiableToken(t *testing.T) {
	ctx := context.Background()
	s := Restore(ctx, store.NewMemory(), testSecret)

	u, tok, err := s.Login(ctx, "john@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Email != "john@example.com" || tok == "" {
		t.Fatalf("unexpected login result: %+v %q", u, tok)
	}
	if !s.Authenticated() {
		t.Fatalf("expected authenticated session")
	}

	got, err := s.VerifyToken(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.Email != u.Email || got.ID != u.ID {
		t.Fatalf("claims mismatch: %+v != %+v", got, u)
	}
}

func TestLoginValidation(t *testing.T) {
	ctx := context.Background()
	s := Restore(ctx, store.NewMemory(), testSecret)

	if _, _, err := s.Login(ctx, "", "pw"); !errors.Is(err, ErrEmptyEmail) {
		t.Fatalf("expected ErrEmptyEmail, got %v", err)
	}
	if _, _, err := s.Login(ctx, "a@b.c", ""); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestVerifyTokenRejectsForgedSecret(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	s := Restore(ctx, st, testSecret)
	_, tok, err := s.Login(ctx, "a@b.c", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	other := Restore(ctx, store.NewMemory(), []byte("different-secret"))
	if _, err := other.VerifyToken(tok); err == nil {
		t.Fatalf("expected verification failure with wrong secret")
	}
}

func TestRestorePersistedState(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	s := Restore(ctx, st, testSecret)
	if _, _, err := s.Register(ctx, "Jane", "jane@example.com", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.ConnectOAuth(ctx, "ya29.fake-bearer"); err != nil {
		t.Fatalf("connect oauth: %v", err)
	}

	// A new session over the same store restores user and token.
	s2 := Restore(ctx, st, testSecret)
	u, ok := s2.User()
	if !ok || u.Name != "Jane" {
		t.Fatalf("restored user = %+v ok=%v", u, ok)
	}
	tok, ok := s2.OAuthToken()
	if !ok || tok != "ya29.fake-bearer" {
		t.Fatalf("restored token = %q ok=%v", tok, ok)
	}
	if !s2.SheetsConnected() {
		t.Fatalf("expected sheets-connected flag restored")
	}
}

func TestLogoutKeepsOAuthToken(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	s := Restore(ctx, st, testSecret)
	if _, _, err := s.Login(ctx, "a@b.c", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.ConnectOAuth(ctx, "tok"); err != nil {
		t.Fatalf("connect: %v", err)
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if s.Authenticated() {
		t.Fatalf("still authenticated after logout")
	}
	if _, ok := s.OAuthToken(); !ok {
		t.Fatalf("oauth token should survive logout")
	}
}

func TestRestoreToleratesBrokenStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	st.FailWith(errors.New("device storage unavailable"))

	s := Restore(ctx, st, testSecret)
	if s.Authenticated() {
		t.Fatalf("broken store must restore a logged-out session")
	}
}
