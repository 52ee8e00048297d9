// Package sheets defines the Remote Sheet Client contract and the row codec
// for the spreadsheet layout shared with the mobile client.
package sheets

import (
	"context"
	"errors"
	"fmt"
)

// Spreadsheet layout: sheet "Transactions" columns A-E hold date,
// description, amount, category, timestamp; sheet "Budget" holds the budget
// figure at A2:B2 as (label, amount).
const (
	RangeTransactions       = "Transactions!A2:E"
	RangeTransactionsAppend = "Transactions!A:E"
	RangeBudget             = "Budget!A2:B2"
)

// Ports for the remote tabular store.
type (
	RangeReader interface {
		// ReadRange returns the ordered row-tuples of the given range. An
		// absent values payload is an empty result, not an error.
		ReadRange(ctx context.Context, rangeSpec string) ([][]string, error)
	}

	RowAppender interface {
		// AppendRows appends rows after the last non-empty row of the range.
		// Requires a write credential; key-only clients fail with ErrReadOnly
		// before any network call.
		AppendRows(ctx context.Context, rangeSpec string, rows [][]any) error
	}

	Client interface {
		RangeReader
		RowAppender
	}
)

// ErrReadOnly is returned for write attempts without an OAuth credential.
var ErrReadOnly = errors.New("sheet is read-only without an oauth credential")

// RemoteError wraps a network or HTTP failure talking to the remote sheet.
// Callers decide the fallback; this layer only reports.
type RemoteError struct {
	Op    string
	Range string
	Err   error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote sheet %s %q: %v", e.Op, e.Range, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
