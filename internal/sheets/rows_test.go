package sheets

import (
	"testing"
	"time"

	"budgetbook/internal/core"
)

func TestEncodeTransaction(t *testing.T) {
	ts := time.Date(2025, time.April, 2, 9, 15, 0, 0, time.UTC)
	tx := core.Transaction{
		ID:          "ignored-on-the-wire",
		Date:        core.NewDate(2025, time.April, 2),
		Description: "bus ticket",
		Amount:      core.Money{Cents: 275},
		Kind:        core.KindExpense,
		Category:    core.CategoryTransport,
		Timestamp:   ts,
	}
	row := EncodeTransaction(tx)
	if len(row) != 5 {
		t.Fatalf("expected 5 cells, got %d", len(row))
	}
	if row[0] != "2025-04-02" || row[1] != "bus ticket" || row[2] != "-2.75" {
		t.Fatalf("unexpected row %v", row)
	}
	if row[3] != core.CategoryTransport || row[4] != "2025-04-02T09:15:00Z" {
		t.Fatalf("unexpected row tail %v", row)
	}
}

func TestDecodeTransactions(t *testing.T) {
	rows := [][]string{
		{"date", "description", "amount", "category", "timestamp"}, // header
		{"2025-04-02", "bus ticket", "-2.75", "transport", "2025-04-02T09:15:00Z"},
		{"2025-04-03", "salary", "1500.00", "other"},
		{"2025-04-04", "broken", "n/a", "food"}, // malformed amount
		{"not-a-date", "junk", "-1.00"},
		{"2025-04-05", "short"}, // too few cells
	}
	got := DecodeTransactions(rows)
	if len(got) != 2 {
		t.Fatalf("expected 2 decoded transactions, got %d", len(got))
	}

	first := got[0]
	if first.Kind != core.KindExpense || first.Amount.Cents != 275 {
		t.Fatalf("first = %+v", first)
	}
	if first.Category != "transport" || first.Timestamp.IsZero() {
		t.Fatalf("first tail = %+v", first)
	}

	second := got[1]
	if second.Kind != core.KindIncome || second.Amount.Cents != 150000 {
		t.Fatalf("second = %+v", second)
	}
	if !second.Timestamp.IsZero() {
		t.Fatalf("second should have no timestamp: %+v", second)
	}
}

func TestEncodeDecodeFingerprintStable(t *testing.T) {
	tx := core.Transaction{
		ID:          "local-id",
		Date:        core.NewDate(2025, time.May, 1),
		Description: "groceries",
		Amount:      core.Money{Cents: 4350},
		Kind:        core.KindExpense,
		Category:    core.CategoryFood,
		Timestamp:   time.Date(2025, time.May, 1, 18, 0, 0, 0, time.UTC),
	}
	row := EncodeTransaction(tx)
	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = c.(string)
	}
	back := DecodeTransactions([][]string{cells})
	if len(back) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(back))
	}
	// The mirrored copy must dedup against the local original.
	if back[0].Fingerprint() != tx.Fingerprint() {
		t.Fatalf("fingerprint drifted across the wire: %q != %q", back[0].Fingerprint(), tx.Fingerprint())
	}
}
