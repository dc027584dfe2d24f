package classify

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mweinberg/fecwatch/internal/types"
)

func tx(committeeID, committeeName string, amount int64, txType types.TransactionType) types.Transaction {
	return types.Transaction{
		SubmissionID:    "S1",
		PersonID:        "P1",
		CommitteeID:     committeeID,
		CommitteeName:   committeeName,
		Amount:          decimal.NewNullDecimal(decimal.NewFromInt(amount)),
		Type:            txType,
		CycleYear:       2024,
		TransactionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMatches_EmptyRuleSetFailsClosed(t *testing.T) {
	empty := types.ClassificationRuleSet{}

	// Every transaction must fail against an empty rule set, never pass.
	candidates := []types.Transaction{
		tx("C001", "Israel PAC", 5000, types.TypeDirectContribution),
		tx("", "", 1, types.TypeIndependentExpenditure),
		tx("C999", "Anything At All", 1_000_000, types.TypeEarmarked),
	}
	for _, c := range candidates {
		assert.False(t, Matches(c, empty))
	}
}

func TestMatches_CommitteeIDAllowList(t *testing.T) {
	rules := types.ClassificationRuleSet{CommitteeIDs: []string{"C00247403"}}

	assert.True(t, Matches(tx("C00247403", "Some Neutral Name", 1000, types.TypeDirectContribution), rules))
	assert.False(t, Matches(tx("C00000000", "Some Neutral Name", 1000, types.TypeDirectContribution), rules))
}

func TestMatches_KeywordIsCaseInsensitiveSubstring(t *testing.T) {
	rules := types.ClassificationRuleSet{Keywords: []string{"israel"}}

	assert.True(t, Matches(tx("C123", "FRIENDS OF ISRAEL COMMITTEE", 500, types.TypeDirectContribution), rules))
	assert.True(t, Matches(tx("C123", "pro-Israel Action", 500, types.TypeEarmarked), rules))
	assert.False(t, Matches(tx("C123", "Neutral Committee", 500, types.TypeDirectContribution), rules))
}

func TestMatches_RuleSourcesAreAUnion(t *testing.T) {
	rules := types.ClassificationRuleSet{
		CommitteeIDs: []string{"C111"},
		Keywords:     []string{"israel"},
	}

	// Keyword match counts even when the committee id is absent from the
	// allow-list. Intentional breadth: union, not intersection.
	assert.True(t, Matches(tx("C999", "Israel Victory Fund", 250, types.TypeDirectContribution), rules))
	// And vice versa: id match with a non-matching name.
	assert.True(t, Matches(tx("C111", "Totally Generic PAC", 250, types.TypeDirectContribution), rules))
}

func TestMatches_TypeAllowList(t *testing.T) {
	rules := types.ClassificationRuleSet{Keywords: []string{"israel"}}

	counted := []types.TransactionType{
		types.TypeDirectContribution,
		types.TypeIndependentExpenditure,
		types.TypeEarmarked,
		types.TypeCoordinated,
		types.TypeCommunicationCost,
	}
	for _, tt := range counted {
		assert.True(t, Matches(tx("C1", "Israel PAC", 100, tt), rules), "type %s should count", tt)
	}

	excluded := []types.TransactionType{types.TypeRefund, types.TypeTransfer, types.TypeLoan, "bogus"}
	for _, tt := range excluded {
		assert.False(t, Matches(tx("C1", "Israel PAC", 100, tt), rules), "type %s should not count", tt)
	}
}

func TestMatches_NonPositiveAmounts(t *testing.T) {
	rules := types.ClassificationRuleSet{Keywords: []string{"israel"}}

	assert.False(t, Matches(tx("C1", "Israel PAC", 0, types.TypeDirectContribution), rules))
	assert.False(t, Matches(tx("C1", "Israel PAC", -500, types.TypeDirectContribution), rules))

	missing := tx("C1", "Israel PAC", 100, types.TypeDirectContribution)
	missing.Amount = decimal.NullDecimal{}
	assert.False(t, Matches(missing, rules))
}

func TestNewMatcher_IgnoresBlankRules(t *testing.T) {
	m := NewMatcher(types.ClassificationRuleSet{
		CommitteeIDs: []string{"", ""},
		Keywords:     []string{""},
	})
	assert.True(t, m.Empty())
	assert.False(t, m.Matches(tx("", "", 100, types.TypeDirectContribution)))
}
