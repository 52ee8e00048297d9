// Package memory is an in-process sheet fake for tests and the offline demo
// backend.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	ports "budgetbook/internal/sheets"
)

type Sheet struct {
	mu       sync.Mutex
	tabs     map[string][][]string
	readOnly bool
	failErr  error
}

var _ ports.Client = (*Sheet)(nil)

func New() *Sheet {
	return &Sheet{tabs: make(map[string][][]string)}
}

// Seed replaces a tab's rows.
func (s *Sheet) Seed(tab string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([][]string, len(rows))
	for i, r := range rows {
		copied[i] = append([]string(nil), r...)
	}
	s.tabs[tab] = copied
}

// SetReadOnly mimics key-mode credentials: appends fail with ErrReadOnly.
func (s *Sheet) SetReadOnly(ro bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readOnly = ro
}

// FailWith makes every subsequent call fail with a RemoteError wrapping err;
// nil restores normal behavior.
func (s *Sheet) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *Sheet) ReadRange(_ context.Context, rangeSpec string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, &ports.RemoteError{Op: "read", Range: rangeSpec, Err: s.failErr}
	}
	rows := s.tabs[tabOf(rangeSpec)]
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (s *Sheet) AppendRows(_ context.Context, rangeSpec string, rows [][]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		return ports.ErrReadOnly
	}
	if s.failErr != nil {
		return &ports.RemoteError{Op: "append", Range: rangeSpec, Err: s.failErr}
	}
	tab := tabOf(rangeSpec)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(fmt.Sprint(c))
		}
		s.tabs[tab] = append(s.tabs[tab], cells)
	}
	return nil
}

// Rows returns a copy of a tab's rows for assertions.
func (s *Sheet) Rows(tab string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.tabs[tab]
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

func tabOf(rangeSpec string) string {
	if i := strings.IndexByte(rangeSpec, '!'); i >= 0 {
		return rangeSpec[:i]
	}
	return rangeSpec
}
