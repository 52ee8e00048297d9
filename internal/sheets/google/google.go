// Package google implements the sheets.Client port against the Google Sheets
// v4 API with two credential modes: a read-only API key and an OAuth bearer
// token sourced dynamically from the session.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/oauth2"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	ports "budgetbook/internal/sheets"
)

// TokenSource exposes the current OAuth bearer token, if any. The session
// implements it; token presence is checked per call so connecting mid-run
// upgrades the client from read-only to read/write without a restart.
type TokenSource interface {
	OAuthToken() (string, bool)
}

type Config struct {
	SpreadsheetID string
	APIKey        string
	// Timeout bounds every remote call; a hung network call must not block an
	// operation indefinitely.
	Timeout time.Duration
}

type Client struct {
	spreadsheetID string
	timeout       time.Duration
	tokens        TokenSource
	keySvc        *gsheet.Service
	oauthSvc      *gsheet.Service
}

var _ ports.Client = (*Client)(nil)

// New builds the client. No network traffic happens here; services are
// constructed lazily by the underlying library on first call.
func New(ctx context.Context, cfg Config, tokens TokenSource) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	c := &Client{
		spreadsheetID: cfg.SpreadsheetID,
		timeout:       cfg.Timeout,
		tokens:        tokens,
	}

	if strings.TrimSpace(cfg.APIKey) != "" {
		svc, err := gsheet.NewService(ctx, goption.WithAPIKey(cfg.APIKey))
		if err != nil {
			return nil, fmt.Errorf("create key-mode sheets service: %w", err)
		}
		c.keySvc = svc
	}

	if tokens != nil {
		svc, err := gsheet.NewService(ctx,
			goption.WithTokenSource(oauth2.ReuseTokenSource(nil, bearerSource{tokens: tokens})),
			goption.WithScopes(gsheet.SpreadsheetsScope))
		if err != nil {
			return nil, fmt.Errorf("create oauth-mode sheets service: %w", err)
		}
		c.oauthSvc = svc
	}

	if c.keySvc == nil && c.oauthSvc == nil {
		return nil, errors.New("no sheets credential configured (api key or oauth token source)")
	}

	return c, nil
}

// bearerSource adapts the session token to oauth2.TokenSource. The token is
// opaque to us; expiry handling stays with whoever minted it.
type bearerSource struct {
	tokens TokenSource
}

func (s bearerSource) Token() (*oauth2.Token, error) {
	tok, ok := s.tokens.OAuthToken()
	if !ok {
		return nil, errors.New("no oauth token available")
	}
	return &oauth2.Token{AccessToken: tok, Expiry: time.Now().Add(time.Minute)}, nil
}

func (c *Client) hasToken() bool {
	if c.tokens == nil || c.oauthSvc == nil {
		return false
	}
	_, ok := c.tokens.OAuthToken()
	return ok
}

// readService prefers the OAuth service when a token is present and falls
// back to key-mode otherwise.
func (c *Client) readService() (*gsheet.Service, error) {
	if c.hasToken() {
		return c.oauthSvc, nil
	}
	if c.keySvc == nil {
		return nil, errors.New("no read credential configured")
	}
	return c.keySvc, nil
}

func (c *Client) ReadRange(ctx context.Context, rangeSpec string) ([][]string, error) {
	svc, err := c.readService()
	if err != nil {
		return nil, &ports.RemoteError{Op: "read", Range: rangeSpec, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := svc.Spreadsheets.Values.Get(c.spreadsheetID, rangeSpec).Context(ctx).Do()
	if err != nil {
		return nil, &ports.RemoteError{Op: "read", Range: rangeSpec, Err: err}
	}
	if len(resp.Values) == 0 {
		// Absent values payload means an empty range, not a failure.
		return nil, nil
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = toStrings(row)
	}
	slog.DebugContext(ctx, "Read sheet range", "range", rangeSpec, "rows", len(rows))
	return rows, nil
}

func (c *Client) AppendRows(ctx context.Context, rangeSpec string, rows [][]any) error {
	// Permission check happens before any network traffic.
	if !c.hasToken() {
		return ports.ErrReadOnly
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	vr := &gsheet.ValueRange{Values: rows}
	_, err := c.oauthSvc.Spreadsheets.Values.Append(c.spreadsheetID, rangeSpec, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return &ports.RemoteError{Op: "append", Range: rangeSpec, Err: err}
	}

	slog.InfoContext(ctx, "Appended rows to sheet", "range", rangeSpec, "rows", len(rows))
	return nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
