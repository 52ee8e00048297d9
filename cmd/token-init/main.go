// Command token-init runs the Google OAuth consent flow once and stores the
// resulting bearer token in the local store, upgrading the app from read-only
// API-key access to full read-write sheet access.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"

	"budgetbook/internal/config"
	"budgetbook/internal/session"
	"budgetbook/internal/store"
)

func main() {
	_ = godotenv.Load()

	clientJSON := os.Getenv("GOOGLE_OAUTH_CLIENT_JSON")
	clientFile := os.Getenv("GOOGLE_OAUTH_CLIENT_FILE")
	var b []byte
	var err error
	switch {
	case clientJSON != "":
		b = []byte(clientJSON)
	case clientFile != "":
		b, err = os.ReadFile(clientFile)
		if err != nil {
			log.Fatalf("read client file: %v", err)
		}
	default:
		log.Fatalf("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE")
	}

	oauthCfg, err := google.ConfigFromJSON(b, sheets.SpreadsheetsScope)
	if err != nil {
		log.Fatalf("oauth config: %v", err)
	}

	// The OAuth client must list this redirect URI as authorized.
	redirectPort := os.Getenv("OAUTH_REDIRECT_PORT")
	if redirectPort == "" {
		redirectPort = "8085"
	}
	oauthCfg.RedirectURL = "http://localhost:" + redirectPort + "/callback"

	codeCh := make(chan string, 1)
	srv := &http.Server{Addr: ":" + redirectPort}
	http.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if errStr := r.URL.Query().Get("error"); errStr != "" {
			http.Error(w, "OAuth error: "+errStr, http.StatusBadRequest)
			return
		}
		code := r.URL.Query().Get("code")
		fmt.Fprintln(w, "You may close this window and return to the terminal.")
		codeCh <- code
		go func() { time.Sleep(500 * time.Millisecond); _ = srv.Close() }()
	})
	go func() { _ = srv.ListenAndServe() }()

	url := oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open this URL to authorize:\n%s\n", url)

	var code string
	select {
	case code = <-codeCh:
	case <-time.After(5 * time.Minute):
		log.Fatal("timed out waiting for the OAuth callback")
	}

	ctx := context.Background()
	tok, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		log.Fatalf("token exchange: %v", err)
	}

	cfg := config.Load()
	st, err := store.NewSQLite(cfg.SQLiteDBPath)
	if err != nil {
		log.Fatalf("open local store: %v", err)
	}
	defer func() { _ = st.Close() }()

	sess := session.Restore(ctx, st, []byte(cfg.SessionSecret))
	if err := sess.ConnectOAuth(ctx, tok.AccessToken); err != nil {
		log.Fatalf("store oauth token: %v", err)
	}
	fmt.Printf("Token stored in %s; the app now has read-write sheet access.\n", cfg.SQLiteDBPath)
}
