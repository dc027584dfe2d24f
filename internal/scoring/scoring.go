// Package scoring converts an aggregated funding total into its bounded
// presentations: the 0-100 lobby score, the letter grade, the coarse category
// label and the 0-5 humanity score.
//
// All four presentations are read off a single integer banding of the lobby
// score (one band per 20 points), so they can never disagree with each other.
// The score itself comes from a sorted threshold table, not hardcoded logic.
package scoring

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mweinberg/fecwatch/internal/types"
)

// Threshold maps a funding amount to the lobby score awarded once the total
// reaches it. Tables are evaluated as "largest threshold <= total".
type Threshold struct {
	Amount decimal.Decimal `json:"amount"`
	Score  int             `json:"score" validate:"min=0,max=100"`
}

// DefaultThresholds is the shipped score table. Deployments override it
// through engine configuration.
var DefaultThresholds = []Threshold{
	{Amount: decimal.Zero, Score: 0},
	{Amount: decimal.NewFromInt(500), Score: 10},
	{Amount: decimal.NewFromInt(5_000), Score: 20},
	{Amount: decimal.NewFromInt(25_000), Score: 35},
	{Amount: decimal.NewFromInt(50_000), Score: 45},
	{Amount: decimal.NewFromInt(100_000), Score: 60},
	{Amount: decimal.NewFromInt(250_000), Score: 70},
	{Amount: decimal.NewFromInt(500_000), Score: 80},
	{Amount: decimal.NewFromInt(1_000_000), Score: 90},
	{Amount: decimal.NewFromInt(5_000_000), Score: 100},
}

// ValidateTable checks that a threshold table is usable: non-empty, strictly
// increasing amounts, non-decreasing scores within 0-100, and a zero-amount
// floor so every total has a defined score.
func ValidateTable(table []Threshold) error {
	if len(table) == 0 {
		return fmt.Errorf("threshold table is empty")
	}
	if !table[0].Amount.IsZero() {
		return fmt.Errorf("threshold table must start at amount 0, got %s", table[0].Amount)
	}
	for i, th := range table {
		if th.Score < 0 || th.Score > 100 {
			return fmt.Errorf("threshold %d: score %d out of range 0-100", i, th.Score)
		}
		if i == 0 {
			continue
		}
		if !table[i-1].Amount.LessThan(th.Amount) {
			return fmt.Errorf("threshold %d: amount %s not greater than previous %s", i, th.Amount, table[i-1].Amount)
		}
		if th.Score < table[i-1].Score {
			return fmt.Errorf("threshold %d: score %d decreases from previous %d", i, th.Score, table[i-1].Score)
		}
	}
	return nil
}

// Scorer evaluates aggregates against a fixed threshold table.
type Scorer struct {
	table []Threshold // ascending by amount
}

// NewScorer builds a scorer from the given table, or from DefaultThresholds
// when the table is nil.
func NewScorer(table []Threshold) (*Scorer, error) {
	if table == nil {
		table = DefaultThresholds
	}
	sorted := make([]Threshold, len(table))
	copy(sorted, table)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Amount.LessThan(sorted[j].Amount)
	})
	if err := ValidateTable(sorted); err != nil {
		return nil, err
	}
	return &Scorer{table: sorted}, nil
}

// Score derives the presentation tuple for one aggregate. Pure and
// deterministic: the same aggregate always produces the same score,
// byte for byte.
func (s *Scorer) Score(agg types.AggregateResult) types.Score {
	lobby := s.lobbyScore(agg.TotalAmount)
	band := lobby / 20 // 0..5; only a perfect 100 reaches band 5
	return types.Score{
		LobbyScore:    lobby,
		HumanityScore: 5 - band,
		LobbyGrade:    gradeFor(band),
		LobbyCategory: categoryFor(band),
	}
}

// lobbyScore finds the largest threshold not exceeding the total. Negative
// totals clamp to the zero-amount floor.
func (s *Scorer) lobbyScore(total decimal.Decimal) int {
	score := s.table[0].Score
	for _, th := range s.table {
		if th.Amount.GreaterThan(total) {
			break
		}
		score = th.Score
	}
	return score
}

// gradeFor maps a band index to a letter grade. Bands are closed on the left
// and open on the right, except A which covers [80,100] inclusive.
func gradeFor(band int) types.Grade {
	switch band {
	case 0:
		return types.GradeF
	case 1:
		return types.GradeD
	case 2:
		return types.GradeC
	case 3:
		return types.GradeB
	default:
		return types.GradeA
	}
}

// categoryFor maps the same bands to the coarse label; it is deliberately not
// an independent thresholding.
func categoryFor(band int) types.Category {
	switch band {
	case 0:
		return types.CategoryNoSupport
	case 1:
		return types.CategoryLowSupport
	case 2:
		return types.CategoryModerateSupport
	default:
		return types.CategoryHighSupport
	}
}
