package reconcile

import (
	"errors"
	"time"

	"budgetbook/internal/core"
)

// Source tags where a fetch result came from, so callers can tell a clean
// merge from a degraded offline answer without re-implementing fallback
// logic.
type Source string

const (
	// SourceLocal means the cache was used because online data was not
	// requested.
	SourceLocal Source = "local"
	// SourceMerged means remote rows were fetched and merged into the cache.
	SourceMerged Source = "merged"
	// SourceFallback means online data was requested but the remote call
	// failed and the cache answered instead.
	SourceFallback Source = "fallback"
)

// ErrNotConfigured is the only remote condition surfaced to the user: online
// data was requested but no remote sheet is configured at all. Transient
// remote failures never produce an error, only SourceFallback.
var ErrNotConfigured = errors.New("remote sheet not configured, check configuration")

// FetchResult is a transaction list together with its provenance. SyncedAt is
// the last successful merge instant, zero if the cache has never synced.
type FetchResult struct {
	Transactions []core.Transaction
	Source       Source
	SyncedAt     time.Time
}

// Receipt reports the outcome of an add operation. Synced=false means the
// record is durable on device only; this is a success from the user's point
// of view, never an error.
type Receipt struct {
	Transaction core.Transaction
	Synced      bool
	Message     string
}

const (
	msgAddedRemote  = "Expense added to Google Sheets"
	msgSavedLocally = "Expense saved locally only. Google Sheets update failed."
)
