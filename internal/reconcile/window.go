package reconcile

import (
	"fmt"
	"time"

	"budgetbook/internal/core"
)

// Window restricts a transaction list to a recent period. Comparisons are on
// calendar dates only, so a record dated today is always inside every window
// regardless of time of day.
type Window string

const (
	WindowAll   Window = "all"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

// ParseWindow maps a query value to a Window. The empty string means all.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case WindowAll, "":
		return WindowAll, nil
	case WindowWeek:
		return WindowWeek, nil
	case WindowMonth:
		return WindowMonth, nil
	}
	return "", fmt.Errorf("unknown window %q", s)
}

// start returns the first calendar date inside the window, or ok=false when
// the window is unbounded. weekStart picks which weekday opens a week.
func (w Window) start(now time.Time, weekStart time.Weekday) (time.Time, bool) {
	today := dateOnly(now)
	switch w {
	case WindowWeek:
		back := (int(today.Weekday()) - int(weekStart) + 7) % 7
		return today.AddDate(0, 0, -back), true
	case WindowMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// filterWindow keeps records dated between the window start and today,
// inclusive on both ends. Future-dated records are excluded from bounded
// windows.
func filterWindow(txns []core.Transaction, w Window, now time.Time, weekStart time.Weekday) []core.Transaction {
	start, ok := w.start(now, weekStart)
	if !ok {
		return txns
	}
	today := dateOnly(now)
	out := make([]core.Transaction, 0, len(txns))
	for _, t := range txns {
		d := dateOnly(t.Date.Time)
		if d.Before(start) || d.After(today) {
			continue
		}
		out = append(out, t)
	}
	return out
}
