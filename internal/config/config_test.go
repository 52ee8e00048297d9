package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:           "8081",
		SQLiteDBPath:   "./test.db",
		SheetTimeout:   15 * time.Second,
		SessionSecret:  "0123456789abcdef0123",
		WeekStart:      "monday",
		ReportCacheTTL: 5 * time.Minute,
		ReportCacheMax: 128,
		LogLevel:       "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "empty sqlite path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "invalid week start",
			mutate:      func(c *Config) { c.WeekStart = "tuesday" },
			wantErr:     true,
			errorString: "invalid week start 'tuesday'",
		},
		{
			name:        "sheet timeout too small",
			mutate:      func(c *Config) { c.SheetTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid sheet timeout",
		},
		{
			name:        "missing session secret",
			mutate:      func(c *Config) { c.SessionSecret = "" },
			wantErr:     true,
			errorString: "SESSION_SECRET must be set",
		},
		{
			name:        "short session secret",
			mutate:      func(c *Config) { c.SessionSecret = "short" },
			wantErr:     true,
			errorString: "SESSION_SECRET must be at least 16 characters",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name: "multiple errors collected",
			mutate: func(c *Config) {
				c.Port = "abc"
				c.SessionSecret = ""
			},
			wantErr:     true,
			errorString: "invalid port 'abc'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("Validate() error %q does not contain %q", err.Error(), tt.errorString)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestConfig_MultipleErrorsListed(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.SessionSecret = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, want := range []string{"invalid port 'abc'", "SESSION_SECRET must be set"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestConfig_WeekStartDay(t *testing.T) {
	tests := []struct {
		in   string
		want time.Weekday
	}{
		{"monday", time.Monday},
		{"Sunday", time.Sunday},
		{"SATURDAY", time.Saturday},
	}
	for _, tt := range tests {
		cfg := validConfig()
		cfg.WeekStart = tt.in
		got, err := cfg.WeekStartDay()
		if err != nil {
			t.Fatalf("WeekStartDay(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("WeekStartDay(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "debug"
	got, err := cfg.SlogLevel()
	if err != nil {
		t.Fatalf("SlogLevel() error: %v", err)
	}
	if got != slog.LevelDebug {
		t.Fatalf("SlogLevel() = %v, want debug", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8081" {
		t.Fatalf("default port = %q, want 8081", cfg.Port)
	}
	if cfg.SheetTimeout != 15*time.Second {
		t.Fatalf("default sheet timeout = %v, want 15s", cfg.SheetTimeout)
	}
	if cfg.WeekStart != "monday" {
		t.Fatalf("default week start = %q, want monday", cfg.WeekStart)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SHEET_TIMEOUT", "30s")
	cfg := Load()
	if cfg.Port != "9000" {
		t.Fatalf("port = %q, want 9000", cfg.Port)
	}
	if cfg.SheetTimeout != 30*time.Second {
		t.Fatalf("sheet timeout = %v, want 30s", cfg.SheetTimeout)
	}
}
