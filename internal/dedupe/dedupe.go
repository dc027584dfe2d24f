// Package dedupe collapses re-filed and amended report rows so each real-world
// transaction is counted exactly once.
package dedupe

import (
	"sort"

	"github.com/mweinberg/fecwatch/internal/types"
)

// Collapse returns one representative row per distinct submission id. Within a
// group the winner is the row with the latest transaction date, ties broken by
// the largest amount, so repeated computation always picks the same row.
//
// The submission id is the sole grouping key. Rows with equal amounts but
// different submission ids are distinct transactions and are never merged.
func Collapse(txs []types.Transaction) []types.Transaction {
	if len(txs) == 0 {
		return nil
	}

	winners := make(map[string]types.Transaction, len(txs))
	for _, tx := range txs {
		cur, seen := winners[tx.SubmissionID]
		if !seen || beats(tx, cur) {
			winners[tx.SubmissionID] = tx
		}
	}

	out := make([]types.Transaction, 0, len(winners))
	for _, tx := range winners {
		out = append(out, tx)
	}
	// Deterministic output order for reproducible downstream sums and diffs.
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmissionID < out[j].SubmissionID
	})
	return out
}

// beats reports whether a should replace b as the representative for their
// shared submission id.
func beats(a, b types.Transaction) bool {
	if !a.TransactionDate.Equal(b.TransactionDate) {
		return a.TransactionDate.After(b.TransactionDate)
	}
	av, bv := a.Amount, b.Amount
	switch {
	case av.Valid && !bv.Valid:
		return true
	case !av.Valid:
		return false
	default:
		return av.Decimal.GreaterThan(bv.Decimal)
	}
}
