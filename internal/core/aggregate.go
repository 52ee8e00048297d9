package core

import (
	"math"
	"sort"
	"time"
)

// chartPalette is the fixed pie-chart palette. Colors are assigned by cyclic
// index in first-seen group order, not by category identity.
var chartPalette = [...]string{
	"#FF9F1C", "#4CAF50", "#9C27B0", "#F44336",
	"#FF5722", "#E91E63", "#2196F3", "#00BCD4",
}

type (
	// BudgetSummary is the headline budget view: total spent counts expense
	// magnitudes only, income never reduces it.
	BudgetSummary struct {
		TotalBudget Money `json:"total_budget_cents"`
		TotalSpent  Money `json:"total_spent_cents"`
		Remaining   Money `json:"remaining_cents"`
	}

	// CategorySlice is one group of the category breakdown. Percentage is the
	// group's share of the expense grand total, rounded to one decimal.
	CategorySlice struct {
		Name       string  `json:"name"`
		Amount     Money   `json:"amount_cents"`
		Percentage float64 `json:"percentage"`
		Color      string  `json:"color"`
	}

	// MonthPoint is one bucket of the monthly trend. Buckets are keyed by
	// (year, month) so same-named months from different years never collide;
	// Label stays a bare month abbreviation for display.
	MonthPoint struct {
		Year  int        `json:"year"`
		Month time.Month `json:"month"`
		Label string     `json:"label"`
		Total Money      `json:"total_cents"`
	}
)

// Summarize folds a transaction list into a budget summary. The fold is
// order-independent. Entries that fail basic shape checks are skipped, never
// fatal.
func Summarize(txns []Transaction, budget Budget) BudgetSummary {
	var spent int64
	for _, t := range txns {
		if t.Kind != KindExpense || t.Amount.Cents <= 0 {
			continue
		}
		spent += t.Amount.Cents
	}
	return BudgetSummary{
		TotalBudget: budget.Total,
		TotalSpent:  Money{Cents: spent},
		Remaining:   Money{Cents: budget.Total.Cents - spent},
	}
}

// BreakdownByCategory groups expense magnitudes by category key. Grouping is
// case-sensitive with no normalization; entries with an empty category or a
// non-positive amount are skipped. Groups appear in first-seen order. A zero
// grand total yields an empty slice so no NaN percentage ever escapes.
func BreakdownByCategory(txns []Transaction) []CategorySlice {
	byCat := map[string]int64{}
	order := make([]string, 0)
	var total int64
	for _, t := range txns {
		if t.Kind != KindExpense || t.Amount.Cents <= 0 {
			continue
		}
		if t.Category == "" {
			continue
		}
		if _, seen := byCat[t.Category]; !seen {
			order = append(order, t.Category)
		}
		byCat[t.Category] += t.Amount.Cents
		total += t.Amount.Cents
	}
	if total == 0 {
		return nil
	}
	out := make([]CategorySlice, 0, len(order))
	for i, name := range order {
		cents := byCat[name]
		pct := float64(cents) / float64(total) * 100.0
		out = append(out, CategorySlice{
			Name:       name,
			Amount:     Money{Cents: cents},
			Percentage: math.Round(pct*10) / 10,
			Color:      chartPalette[i%len(chartPalette)],
		})
	}
	return out
}

// MonthlySeries buckets expense magnitudes by (year, month) and returns the
// buckets in chronological order with month-abbreviation labels.
func MonthlySeries(txns []Transaction) []MonthPoint {
	type ym struct {
		year  int
		month time.Month
	}
	buckets := map[ym]int64{}
	for _, t := range txns {
		if t.Kind != KindExpense || t.Amount.Cents <= 0 {
			continue
		}
		if t.Date.IsZero() {
			continue
		}
		k := ym{year: t.Date.Year(), month: t.Date.Month()}
		buckets[k] += t.Amount.Cents
	}
	keys := make([]ym, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})
	out := make([]MonthPoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, MonthPoint{
			Year:  k.year,
			Month: k.month,
			Label: k.month.String()[:3],
			Total: Money{Cents: buckets[k]},
		})
	}
	return out
}
