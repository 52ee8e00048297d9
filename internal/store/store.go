// Package store implements the on-device key-value cache, the only data
// source guaranteed available offline.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Keys carried over from the mobile client so an existing device database
// keeps working after an upgrade.
const (
	KeyTransactions    = "budget_tracker_transactions"
	KeyBudget          = "budget_tracker_budget"
	KeyOAuthToken      = "budget_tracker_oauth_token"
	KeyLastSync        = "budget_tracker_last_sync"
	KeyUser            = "budget_tracker_user"
	KeySheetsConnected = "budget_tracker_sheets_connected"
	KeyDarkMode        = "darkMode"
	KeyNotifications   = "notifications"
)

// Store is the persistence contract. Get reports a missing key as ok=false,
// never as an error; errors mean the underlying storage itself failed. The
// store does not synchronize concurrent writers; callers serialize
// read-modify-write cycles themselves.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// StorageError wraps an underlying storage I/O failure.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// schemaVersion tags every stored value so future format changes can migrate
// old blobs instead of guessing.
const schemaVersion = 1

type envelope struct {
	Version int             `json:"v"`
	Data    json.RawMessage `json:"data"`
}

// GetJSON reads and decodes a versioned JSON value. A missing key reports
// ok=false with out untouched. Blobs written before versioning (no envelope)
// are decoded directly.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return ok, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Version > 0 {
		if env.Version > schemaVersion {
			return false, &StorageError{Op: "get", Key: key, Err: fmt.Errorf("unsupported schema version %d", env.Version)}
		}
		return true, json.Unmarshal(env.Data, out)
	}
	// Legacy blob without envelope.
	return true, json.Unmarshal(raw, out)
}

// SetJSON encodes a value inside the schema-version envelope and writes it.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	raw, err := json.Marshal(envelope{Version: schemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("marshal envelope %q: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
