package sheets

import (
	"strings"
	"time"

	"budgetbook/internal/core"
)

// EncodeTransaction renders a transaction as an A-E row tuple. The amount
// column keeps the historical sign convention (negative = expense) so sheets
// written by the mobile client stay compatible.
func EncodeTransaction(t core.Transaction) []any {
	ts := ""
	if !t.Timestamp.IsZero() {
		ts = t.Timestamp.UTC().Format(time.RFC3339)
	}
	return []any{
		t.Date.String(),
		t.Description,
		core.Money{Cents: t.SignedCents()}.FormatDecimal(),
		t.Category,
		ts,
	}
}

// DecodeTransactions converts raw row-tuples into transactions. Rows with an
// unparseable date or amount are skipped rather than failing the read; the
// sheet is hand-editable and partial garbage is expected.
func DecodeTransactions(rows [][]string) []core.Transaction {
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		date, err := core.ParseDate(row[0])
		if err != nil {
			// Header or freeform row.
			continue
		}
		cents, ok := core.ParseSignedCents(row[2])
		if !ok {
			continue
		}
		kind := core.KindIncome
		if cents < 0 {
			kind = core.KindExpense
			cents = -cents
		}
		t := core.Transaction{
			Date:        date,
			Description: strings.TrimSpace(row[1]),
			Amount:      core.Money{Cents: cents},
			Kind:        kind,
		}
		if len(row) > 3 {
			t.Category = strings.TrimSpace(row[3])
		}
		if len(row) > 4 {
			if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(row[4])); err == nil {
				t.Timestamp = ts
			}
		}
		out = append(out, t)
	}
	return out
}
