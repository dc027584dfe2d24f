// Package classify decides whether a raw transaction counts as pro-Israel
// lobby money under a loaded rule set.
package classify

import (
	"strings"

	"github.com/mweinberg/fecwatch/internal/types"
)

// countedTypes is the transaction-type allow-list. Only these kinds of funds
// movement contribute to a lobby total; refunds, transfers and loans never do.
var countedTypes = map[types.TransactionType]bool{
	types.TypeDirectContribution:     true,
	types.TypeIndependentExpenditure: true,
	types.TypeEarmarked:              true,
	types.TypeCoordinated:            true,
	types.TypeCommunicationCost:      true,
}

// CountedType reports whether the transaction type is in the allow-list.
func CountedType(t types.TransactionType) bool {
	return countedTypes[t]
}

// Matcher is a rule set compiled for repeated classification. It is immutable
// after construction and safe for concurrent use.
type Matcher struct {
	committeeIDs map[string]bool
	keywords     []string
}

// NewMatcher compiles a rule set. Keywords are lowercased once here so each
// transaction only pays for the name comparison.
func NewMatcher(rules types.ClassificationRuleSet) *Matcher {
	m := &Matcher{
		committeeIDs: make(map[string]bool, len(rules.CommitteeIDs)),
		keywords:     make([]string, 0, len(rules.Keywords)),
	}
	for _, id := range rules.CommitteeIDs {
		if id != "" {
			m.committeeIDs[id] = true
		}
	}
	for _, kw := range rules.Keywords {
		if kw != "" {
			m.keywords = append(m.keywords, strings.ToLower(kw))
		}
	}
	return m
}

// Empty reports whether the matcher holds no rules. An empty matcher fails
// closed: Matches returns false for every transaction.
func (m *Matcher) Empty() bool {
	return len(m.committeeIDs) == 0 && len(m.keywords) == 0
}

// Matches reports whether the transaction counts as lobby money: its type is
// allow-listed, its amount is positive, and its committee qualifies either by
// explicit id or by keyword. The id list and the keyword list are a union --
// a committee absent from the id list still qualifies on a name match.
func (m *Matcher) Matches(tx types.Transaction) bool {
	if !CountedType(tx.Type) {
		return false
	}
	if !tx.Amount.Valid || tx.Amount.Decimal.Sign() <= 0 {
		return false
	}
	if m.committeeIDs[tx.CommitteeID] {
		return true
	}
	name := strings.ToLower(tx.CommitteeName)
	for _, kw := range m.keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// Matches is the one-shot form of Matcher.Matches for callers that classify a
// single transaction.
func Matches(tx types.Transaction, rules types.ClassificationRuleSet) bool {
	return NewMatcher(rules).Matches(tx)
}
