// Package aggregate reduces raw transaction rows to one funding summary per
// person. It is the single implementation of the classify -> dedupe -> sum
// pipeline; every caller (detail view, bulk view, debug tooling) goes through
// it so the business rules cannot drift apart between call paths.
package aggregate

import (
	"github.com/mweinberg/fecwatch/internal/classify"
	"github.com/mweinberg/fecwatch/internal/dedupe"
	"github.com/mweinberg/fecwatch/internal/types"
)

// Summarize classifies, deduplicates and sums the given rows for every
// requested person. Rows for persons outside personIDs are ignored. Every
// requested person appears in the result, zero-valued when nothing survived.
//
// Malformed rows are skipped individually and counted on the owning person's
// SkippedRows (rows whose owner cannot be determined are dropped); they never
// fail the batch.
//
// The summary for a person depends only on that person's rows, so the result
// for p is identical whether p is aggregated alone or as part of any batch.
func Summarize(personIDs []string, rows []types.Transaction, rules types.ClassificationRuleSet, cycleSelector string) map[string]types.AggregateResult {
	requested := make(map[string]bool, len(personIDs))
	for _, id := range personIDs {
		requested[id] = true
	}

	matcher := classify.NewMatcher(rules)

	// Partition classified rows per person before dedup: the submission id is
	// globally unique, but the summation group is the recipient person.
	perPerson := make(map[string][]types.Transaction)
	skipped := make(map[string]int)
	for _, tx := range rows {
		if !requested[tx.PersonID] {
			continue
		}
		if tx.Malformed() {
			skipped[tx.PersonID]++
			continue
		}
		if !matcher.Matches(tx) {
			continue
		}
		perPerson[tx.PersonID] = append(perPerson[tx.PersonID], tx)
	}

	out := make(map[string]types.AggregateResult, len(personIDs))
	for _, id := range personIDs {
		res := types.ZeroAggregate(id, cycleSelector)
		res.SkippedRows = skipped[id]
		committees := make(map[string]bool)
		for _, tx := range dedupe.Collapse(perPerson[id]) {
			accumulate(&res, tx)
			if tx.CommitteeID != "" {
				committees[tx.CommitteeID] = true
			}
		}
		res.PACCount = len(committees)
		out[id] = res
	}
	return out
}

// accumulate folds one surviving row into the person's summary. Opposing
// independent expenditures are tracked on their own line and never netted
// into the lobby total.
func accumulate(res *types.AggregateResult, tx types.Transaction) {
	amt := tx.Amount.Decimal
	res.TransactionCount++

	if tx.Type == types.TypeIndependentExpenditure {
		if tx.SupportOppose == types.OpposeFlag {
			res.OpposeAmount = res.OpposeAmount.Add(amt)
			return
		}
		res.SupportAmount = res.SupportAmount.Add(amt)
	}
	res.TotalAmount = res.TotalAmount.Add(amt)
}
