package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"budgetbook/internal/core"
)

func expense(date core.Date, desc string, cents int64, category string, ts time.Time) core.Transaction {
	return core.Transaction{
		Date:        date,
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Kind:        core.KindExpense,
		Category:    category,
		Timestamp:   ts,
	}
}

func TestMergeUnionWithoutDuplicates(t *testing.T) {
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	shared := expense(core.NewDate(2025, time.March, 10), "Groceries", 4000, "food", ts)
	localOnly := expense(core.NewDate(2025, time.March, 11), "Bus ticket", 250, "transport", ts)
	remoteOnly := expense(core.NewDate(2025, time.March, 12), "Cinema", 1500, "entertainment", ts)

	merged := Merge(
		[]core.Transaction{shared, localOnly},
		[]core.Transaction{shared, remoteOnly},
	)

	assert.Len(t, merged, 3)
	seen := map[string]bool{}
	for _, tx := range merged {
		assert.False(t, seen[tx.Fingerprint()], "duplicate fingerprint %q", tx.Fingerprint())
		seen[tx.Fingerprint()] = true
	}
}

func TestMergeKeepsLocalID(t *testing.T) {
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	local := expense(core.NewDate(2025, time.March, 10), "Groceries", 4000, "food", ts)
	local.ID = "id-1"
	// The mirrored sheet copy comes back without an ID.
	remote := local
	remote.ID = ""

	merged := Merge([]core.Transaction{local}, []core.Transaction{remote})
	assert.Len(t, merged, 1)
	assert.Equal(t, "id-1", merged[0].ID)
}

func TestMergeAdoptsRemoteIDWhenLocalHasNone(t *testing.T) {
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	local := expense(core.NewDate(2025, time.March, 10), "Groceries", 4000, "food", ts)
	remote := local
	remote.ID = "id-remote"

	merged := Merge([]core.Transaction{local}, []core.Transaction{remote})
	assert.Len(t, merged, 1)
	assert.Equal(t, "id-remote", merged[0].ID)
}

func TestMergeOrdersNewestFirst(t *testing.T) {
	ts := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	older := expense(core.NewDate(2025, time.February, 5), "Old", 100, "other", ts)
	newer := expense(core.NewDate(2025, time.March, 5), "New", 100, "other", ts)

	merged := Merge([]core.Transaction{older}, []core.Transaction{newer})
	assert.Equal(t, "New", merged[0].Description)
	assert.Equal(t, "Old", merged[1].Description)
}

func TestMergeIdempotent(t *testing.T) {
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	txns := []core.Transaction{
		expense(core.NewDate(2025, time.March, 10), "A", 100, "food", ts),
		expense(core.NewDate(2025, time.March, 11), "B", 200, "food", ts),
	}
	once := Merge(txns, txns)
	twice := Merge(once, txns)
	assert.Equal(t, once, twice)
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    Window
		wantErr bool
	}{
		{"", WindowAll, false},
		{"all", WindowAll, false},
		{"week", WindowWeek, false},
		{"month", WindowMonth, false},
		{"year", "", true},
	}
	for _, tt := range tests {
		got, err := ParseWindow(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		assert.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestFilterWindow(t *testing.T) {
	// Wednesday 2025-03-12; the week opened on Monday 2025-03-10.
	now := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)
	ts := now.Add(-time.Hour)
	txns := []core.Transaction{
		expense(core.NewDate(2025, time.March, 12), "today", 100, "food", ts),
		expense(core.NewDate(2025, time.March, 10), "monday", 100, "food", ts),
		expense(core.NewDate(2025, time.March, 9), "sunday", 100, "food", ts),
		expense(core.NewDate(2025, time.March, 1), "first", 100, "food", ts),
		expense(core.NewDate(2025, time.February, 20), "last month", 100, "food", ts),
		expense(core.NewDate(2025, time.March, 20), "future", 100, "food", ts),
	}

	names := func(in []core.Transaction) []string {
		out := make([]string, 0, len(in))
		for _, t := range in {
			out = append(out, t.Description)
		}
		return out
	}

	assert.Equal(t, []string{"today", "monday"},
		names(filterWindow(txns, WindowWeek, now, time.Monday)))
	assert.Equal(t, []string{"today", "monday", "sunday", "first"},
		names(filterWindow(txns, WindowMonth, now, time.Monday)))
	assert.Len(t, filterWindow(txns, WindowAll, now, time.Monday), len(txns))

	// A Sunday week start pulls the Sunday record back in.
	assert.Equal(t, []string{"today", "monday", "sunday"},
		names(filterWindow(txns, WindowWeek, now, time.Sunday)))
}
