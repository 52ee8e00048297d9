// Package session holds the per-device auth state as an explicit object
// passed to collaborators instead of an ambient global. Authentication is a
// local mock: any credentials are accepted and a locally signed token is
// issued; the only real credential is the Google OAuth bearer token used by
// the sheet client.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"budgetbook/internal/store"
)

const tokenTTL = 30 * 24 * time.Hour

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

var (
	ErrEmptyEmail    = errors.New("empty email")
	ErrEmptyPassword = errors.New("empty password")
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyToken    = errors.New("empty token")
	ErrNotLoggedIn   = errors.New("not logged in")
)

type Session struct {
	store  store.Store
	secret []byte

	mu              sync.RWMutex
	user            *User
	oauthToken      string
	sheetsConnected bool
}

// Restore builds the session from persisted credentials. Storage failures are
// logged and degrade to a fresh session rather than blocking startup.
func Restore(ctx context.Context, st store.Store, secret []byte) *Session {
	s := &Session{store: st, secret: secret}

	var u User
	if ok, err := store.GetJSON(ctx, st, store.KeyUser, &u); err != nil {
		slog.WarnContext(ctx, "Could not restore user, starting logged out", "error", err)
	} else if ok {
		s.user = &u
	}

	var tok string
	if ok, err := store.GetJSON(ctx, st, store.KeyOAuthToken, &tok); err != nil {
		slog.WarnContext(ctx, "Could not restore oauth token", "error", err)
	} else if ok {
		s.oauthToken = tok
	}

	var connected bool
	if ok, err := store.GetJSON(ctx, st, store.KeySheetsConnected, &connected); err != nil {
		slog.WarnContext(ctx, "Could not restore sheets-connected flag", "error", err)
	} else if ok {
		s.sheetsConnected = connected
	}

	return s
}

// Login accepts any credentials (mock auth), persists the user, and returns a
// locally signed session token.
func (s *Session) Login(ctx context.Context, email, password string) (User, string, error) {
	if strings.TrimSpace(email) == "" {
		return User{}, "", ErrEmptyEmail
	}
	if strings.TrimSpace(password) == "" {
		return User{}, "", ErrEmptyPassword
	}
	u := User{ID: "1", Name: "John Doe", Email: email}
	return s.establish(ctx, u)
}

// Register mirrors Login with a caller-supplied display name.
func (s *Session) Register(ctx context.Context, name, email, password string) (User, string, error) {
	if strings.TrimSpace(name) == "" {
		return User{}, "", ErrEmptyName
	}
	if strings.TrimSpace(email) == "" {
		return User{}, "", ErrEmptyEmail
	}
	if strings.TrimSpace(password) == "" {
		return User{}, "", ErrEmptyPassword
	}
	u := User{ID: "1", Name: name, Email: email}
	return s.establish(ctx, u)
}

func (s *Session) establish(ctx context.Context, u User) (User, string, error) {
	if err := store.SetJSON(ctx, s.store, store.KeyUser, u); err != nil {
		return User{}, "", fmt.Errorf("persist user: %w", err)
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()

	tok, err := s.signToken(u)
	if err != nil {
		return User{}, "", fmt.Errorf("sign session token: %w", err)
	}

	slog.InfoContext(ctx, "Session established", "user_id", u.ID, "email", u.Email)
	return u, tok, nil
}

func (s *Session) signToken(u User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"name":  u.Name,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyToken parses and validates a session token, returning the embedded
// user identity.
func (s *Session) VerifyToken(tokenStr string) (User, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return User{}, ErrEmptyToken
	}
	parsed, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return User{}, fmt.Errorf("parse session token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return User{}, errors.New("invalid session token")
	}
	u := User{}
	if v, ok := claims["sub"].(string); ok {
		u.ID = v
	}
	if v, ok := claims["email"].(string); ok {
		u.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		u.Name = v
	}
	return u, nil
}

// Logout clears the persisted user. The OAuth token survives so a re-login
// does not force a new consent flow.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Remove(ctx, store.KeyUser); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	slog.InfoContext(ctx, "Session destroyed")
	return nil
}

func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	_, ok := s.User()
	return ok
}

// ConnectOAuth persists the Google bearer token; from then on the sheet
// client prefers OAuth for both read and write.
func (s *Session) ConnectOAuth(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}
	if err := store.SetJSON(ctx, s.store, store.KeyOAuthToken, token); err != nil {
		return fmt.Errorf("persist oauth token: %w", err)
	}
	if err := store.SetJSON(ctx, s.store, store.KeySheetsConnected, true); err != nil {
		return fmt.Errorf("persist sheets-connected flag: %w", err)
	}

	s.mu.Lock()
	s.oauthToken = token
	s.sheetsConnected = true
	s.mu.Unlock()

	slog.InfoContext(ctx, "Google Sheets connected with OAuth")
	return nil
}

// OAuthToken implements the sheet client's token source.
func (s *Session) OAuthToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.oauthToken == "" {
		return "", false
	}
	return s.oauthToken, true
}

func (s *Session) SheetsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sheetsConnected
}
