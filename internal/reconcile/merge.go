package reconcile

import (
	"sort"

	"budgetbook/internal/core"
)

// Merge computes the set union of the cached and remote transaction lists.
// Records are equal when their fingerprints match; the ID is excluded from
// the fingerprint so a locally created record still matches its mirrored
// sheet row, which carries no ID. On a collision the record with an ID wins,
// keeping locally assigned identifiers stable across syncs.
//
// The result is ordered newest first by date, then by capture timestamp,
// which is the order every caller displays.
func Merge(local, remote []core.Transaction) []core.Transaction {
	seen := make(map[string]int, len(local)+len(remote))
	out := make([]core.Transaction, 0, len(local)+len(remote))
	for _, t := range local {
		key := t.Fingerprint()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = len(out)
		out = append(out, t)
	}
	for _, t := range remote {
		key := t.Fingerprint()
		if i, ok := seen[key]; ok {
			if out[i].ID == "" && t.ID != "" {
				out[i] = t
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}
