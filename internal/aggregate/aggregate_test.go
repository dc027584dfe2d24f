package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mweinberg/fecwatch/internal/types"
)

var testRules = types.ClassificationRuleSet{
	CommitteeIDs: []string{"C100"},
	Keywords:     []string{"israel"},
}

func contribution(person, submission, committee string, amount int64, date time.Time) types.Transaction {
	return types.Transaction{
		SubmissionID:    submission,
		PersonID:        person,
		CommitteeID:     committee,
		CommitteeName:   "Friends of Israel",
		Amount:          decimal.NewNullDecimal(decimal.NewFromInt(amount)),
		Type:            types.TypeDirectContribution,
		CycleYear:       2024,
		TransactionDate: date,
	}
}

var (
	mar = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	apr = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
)

func TestSummarize_AmendedFilingCountedOnce(t *testing.T) {
	// Two raw rows share submission id S1 (an original and its amendment,
	// dated later); S2 is a distinct transaction. Expected total: 8000,
	// not 13000 (double count) and not 3000 (amount-keyed dedup).
	rows := []types.Transaction{
		contribution("P1", "S1", "C100", 5000, mar),
		contribution("P1", "S1", "C100", 5000, apr),
		contribution("P1", "S2", "C100", 3000, mar),
	}

	out := Summarize([]string{"P1"}, rows, testRules, "2024")
	res := out["P1"]

	assert.Equal(t, "8000", res.TotalAmount.String())
	assert.Equal(t, 2, res.TransactionCount)
}

func TestSummarize_ZeroFillForPersonsWithNoRows(t *testing.T) {
	rows := []types.Transaction{
		contribution("P1", "S1", "C100", 5000, mar),
	}

	out := Summarize([]string{"P1", "P2", "P3"}, rows, testRules, "all")

	require.Len(t, out, 3)
	for _, id := range []string{"P2", "P3"} {
		res, ok := out[id]
		require.True(t, ok, "person %s must appear in the output, not be dropped", id)
		assert.Equal(t, id, res.PersonID)
		assert.True(t, res.TotalAmount.IsZero())
		assert.Equal(t, 0, res.TransactionCount)
	}
}

func TestSummarize_SubsetConsistency(t *testing.T) {
	rows := []types.Transaction{
		contribution("P1", "S1", "C100", 5000, mar),
		contribution("P1", "S2", "C100", 3000, mar),
		contribution("P2", "S3", "C100", 7000, mar),
		contribution("P3", "S4", "C100", 100, mar),
	}

	alone := Summarize([]string{"P1"}, rows, testRules, "all")["P1"]
	inBatch := Summarize([]string{"P1", "P2", "P3"}, rows, testRules, "all")["P1"]

	assert.True(t, alone.TotalAmount.Equal(inBatch.TotalAmount))
	assert.Equal(t, alone.TransactionCount, inBatch.TransactionCount)
	assert.Equal(t, alone.PACCount, inBatch.PACCount)
}

func TestSummarize_PACCountIsDistinctCommittees(t *testing.T) {
	rows := []types.Transaction{
		contribution("P1", "S1", "C100", 1000, mar),
		contribution("P1", "S2", "C100", 2000, mar),
		contribution("P1", "S3", "C200", 3000, mar),
	}
	rules := types.ClassificationRuleSet{CommitteeIDs: []string{"C100", "C200"}}

	res := Summarize([]string{"P1"}, rows, rules, "all")["P1"]
	assert.Equal(t, 2, res.PACCount)
	assert.Equal(t, 3, res.TransactionCount)
}

func TestSummarize_SupportOpposeSplit(t *testing.T) {
	ie := func(submission string, amount int64, flag string) types.Transaction {
		tx := contribution("P1", submission, "C100", amount, mar)
		tx.Type = types.TypeIndependentExpenditure
		tx.SupportOppose = flag
		return tx
	}

	rows := []types.Transaction{
		ie("S1", 10_000, types.SupportFlag),
		ie("S2", 4_000, types.OpposeFlag),
		contribution("P1", "S3", "C100", 1_000, mar),
	}

	res := Summarize([]string{"P1"}, rows, testRules, "all")["P1"]

	// Opposing spend is tracked on its own line, never netted into the total.
	assert.Equal(t, "11000", res.TotalAmount.String())
	assert.Equal(t, "10000", res.SupportAmount.String())
	assert.Equal(t, "4000", res.OpposeAmount.String())
	assert.Equal(t, 3, res.TransactionCount)
}

func TestSummarize_MalformedRowsSkippedAndCounted(t *testing.T) {
	noDate := contribution("P1", "S2", "C100", 500, mar)
	noDate.TransactionDate = time.Time{}

	noAmount := contribution("P1", "S3", "C100", 0, mar)
	noAmount.Amount = decimal.NullDecimal{}

	noSubmission := contribution("P1", "", "C100", 500, mar)

	rows := []types.Transaction{
		contribution("P1", "S1", "C100", 5000, mar),
		noDate,
		noAmount,
		noSubmission,
	}

	res := Summarize([]string{"P1"}, rows, testRules, "all")["P1"]

	assert.Equal(t, "5000", res.TotalAmount.String())
	assert.Equal(t, 1, res.TransactionCount)
	assert.Equal(t, 3, res.SkippedRows)
}

func TestSummarize_NonMatchingRowsDiscarded(t *testing.T) {
	neutral := contribution("P1", "S2", "C999", 9000, mar)
	neutral.CommitteeName = "Neutral Committee"

	refund := contribution("P1", "S3", "C100", 700, mar)
	refund.Type = types.TypeRefund

	rows := []types.Transaction{
		contribution("P1", "S1", "C100", 5000, mar),
		neutral,
		refund,
	}

	res := Summarize([]string{"P1"}, rows, testRules, "all")["P1"]

	assert.Equal(t, "5000", res.TotalAmount.String())
	assert.Equal(t, 1, res.TransactionCount)
	assert.Equal(t, 0, res.SkippedRows)
}

func TestSummarize_EmptyRuleSetYieldsZeros(t *testing.T) {
	rows := []types.Transaction{
		contribution("P1", "S1", "C100", 5000, mar),
	}

	res := Summarize([]string{"P1"}, rows, types.ClassificationRuleSet{}, "all")["P1"]
	assert.True(t, res.TotalAmount.IsZero())
	assert.Equal(t, 0, res.TransactionCount)
}

func TestSummarize_RowsForUnrequestedPersonsIgnored(t *testing.T) {
	rows := []types.Transaction{
		contribution("P1", "S1", "C100", 5000, mar),
		contribution("P9", "S2", "C100", 9999, mar),
	}

	out := Summarize([]string{"P1"}, rows, testRules, "all")

	require.Len(t, out, 1)
	assert.Equal(t, "5000", out["P1"].TotalAmount.String())
}

func TestSummarize_CycleSelectorRecordedOnResult(t *testing.T) {
	out := Summarize([]string{"P1"}, nil, testRules, "last3")
	assert.Equal(t, "last3", out["P1"].CycleSelector)
	assert.Equal(t, "P1", out["P1"].PersonID)
}
