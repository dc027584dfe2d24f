// Package types defines the domain types shared across the funding engine.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the kind of funds movement a raw FEC row records.
type TransactionType string

const (
	// TypeDirectContribution is a committee contribution made directly to a campaign.
	TypeDirectContribution TransactionType = "contribution"
	// TypeIndependentExpenditure is uncoordinated spending for or against a candidate.
	// Rows of this type carry a support/oppose flag.
	TypeIndependentExpenditure TransactionType = "independent_expenditure"
	// TypeEarmarked is a contribution routed to the campaign through a conduit committee.
	TypeEarmarked TransactionType = "earmarked"
	// TypeCoordinated is a party-coordinated expenditure.
	TypeCoordinated TransactionType = "coordinated"
	// TypeCommunicationCost is a membership/internal communication cost filing.
	TypeCommunicationCost TransactionType = "communication_cost"

	// Types that appear in the raw feed but never count toward a lobby total.
	TypeRefund   TransactionType = "refund"
	TypeTransfer TransactionType = "transfer"
	TypeLoan     TransactionType = "loan"
)

// Support/oppose flag values carried on independent-expenditure rows.
const (
	SupportFlag = "S"
	OpposeFlag  = "O"
)

// Transaction is a single raw funds-movement row as returned by the record
// source. Multiple rows may share a SubmissionID when a report was re-filed
// or amended; exactly one of them is ever counted.
type Transaction struct {
	SubmissionID    string              `json:"unique_submission_id"`
	PersonID        string              `json:"recipient_person_id"`
	CommitteeID     string              `json:"source_committee_id"`
	CommitteeName   string              `json:"source_committee_name"`
	Amount          decimal.NullDecimal `json:"amount"`
	Type            TransactionType     `json:"transaction_type_code"`
	CycleYear       int                 `json:"cycle_year"`
	TransactionDate time.Time           `json:"transaction_date"`
	SupportOppose   string              `json:"support_oppose,omitempty"`
}

// Malformed reports whether the row is missing a field the engine cannot work
// without. Malformed rows are skipped and counted, never summed.
func (t Transaction) Malformed() bool {
	return t.SubmissionID == "" || t.PersonID == "" || !t.Amount.Valid || t.TransactionDate.IsZero()
}

// ClassificationRuleSet is the externally maintained definition of what counts
// as pro-Israel lobby money: an explicit committee-id allow-list plus a list of
// keywords matched case-insensitively against committee names. The two rule
// sources are a union; a committee can qualify by either.
type ClassificationRuleSet struct {
	CommitteeIDs []string `json:"committee_ids" yaml:"committee_ids" validate:"dive,required"`
	Keywords     []string `json:"keywords" yaml:"keywords" validate:"dive,required"`
}

// Empty reports whether the rule set contains no rules at all. An empty set
// fails closed: nothing classifies, every score reads "No Support". Callers
// should flag it as a likely misconfiguration.
func (r ClassificationRuleSet) Empty() bool {
	return len(r.CommitteeIDs) == 0 && len(r.Keywords) == 0
}

// YearFilter restricts a record fetch to a set of cycle years. An empty Years
// slice means no restriction (all available years).
type YearFilter struct {
	Years []int `json:"years,omitempty"`
}

// Unfiltered reports whether the filter matches every year.
func (f YearFilter) Unfiltered() bool {
	return len(f.Years) == 0
}

// Includes reports whether the given cycle year passes the filter.
func (f YearFilter) Includes(year int) bool {
	if f.Unfiltered() {
		return true
	}
	for _, y := range f.Years {
		if y == year {
			return true
		}
	}
	return false
}

// AggregateResult is the deduplicated, classified funding summary for one
// person over one resolved cycle window. It is ephemeral: recomputed from the
// record source whenever the cache has no live entry.
type AggregateResult struct {
	PersonID         string          `json:"person_id"`
	CycleSelector    string          `json:"cycle_selector"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TransactionCount int             `json:"transaction_count"`
	PACCount         int             `json:"pac_count"`
	SupportAmount    decimal.Decimal `json:"support_amount"`
	OpposeAmount     decimal.Decimal `json:"oppose_amount"`
	SkippedRows      int             `json:"skipped_rows"`
}

// ZeroAggregate returns the aggregate for a person with no surviving rows.
// Bulk views must render these as "$0", never drop the person.
func ZeroAggregate(personID, cycleSelector string) AggregateResult {
	return AggregateResult{
		PersonID:      personID,
		CycleSelector: cycleSelector,
		TotalAmount:   decimal.Zero,
		SupportAmount: decimal.Zero,
		OpposeAmount:  decimal.Zero,
	}
}

// Grade is the letter presentation of a lobby score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Category is the coarse label presentation of a lobby score.
type Category string

const (
	CategoryNoSupport       Category = "No Support"
	CategoryLowSupport      Category = "Low Support"
	CategoryModerateSupport Category = "Moderate Support"
	CategoryHighSupport     Category = "High Support"
)

// Score is the derived presentation tuple for one aggregate. All four fields
// are computed from the same banding of LobbyScore, so they can never
// disagree with each other.
type Score struct {
	HumanityScore int      `json:"humanity_score" validate:"min=0,max=5"`
	LobbyScore    int      `json:"lobby_score" validate:"min=0,max=100"`
	LobbyGrade    Grade    `json:"lobby_grade"`
	LobbyCategory Category `json:"lobby_category"`
}
