// Package cycles maps cycle selectors to the year filter applied at the
// record source.
package cycles

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/mweinberg/fecwatch/internal/types"
)

// ErrInvalidSelector indicates a cycle selector outside the recognized set.
// It is always surfaced to the caller; the engine never substitutes a default
// window, since a silent default double-counts across cycles.
type ErrInvalidSelector struct {
	Selector string
}

func (e *ErrInvalidSelector) Error() string {
	return fmt.Sprintf("invalid cycle selector: %q", e.Selector)
}

// Recognized non-year selectors.
const (
	SelectorAll   = "all"
	SelectorLast3 = "last3"
)

// DefaultYears is the discrete set of federal two-year cycles the site covers.
// Cycles are enumerated, not computed from the clock: "last3" means the three
// most recent entries of this set, not "now minus six years".
var DefaultYears = []int{2016, 2018, 2020, 2022, 2024}

// Resolver resolves selectors against a configured cycle-year set.
type Resolver struct {
	years []int // ascending
}

// NewResolver builds a resolver over the given cycle years. A nil or empty
// slice falls back to DefaultYears.
func NewResolver(years []int) *Resolver {
	if len(years) == 0 {
		years = DefaultYears
	}
	sorted := make([]int, len(years))
	copy(sorted, years)
	sort.Ints(sorted)
	return &Resolver{years: sorted}
}

// Years returns the configured cycle years in ascending order.
func (r *Resolver) Years() []int {
	out := make([]int, len(r.years))
	copy(out, r.years)
	return out
}

// Resolve maps a selector to a year filter:
//
//	"all"    -> no year restriction
//	"last3"  -> the three most recent configured cycle years
//	"<year>" -> exactly that cycle year, which must be a configured cycle
//
// Anything else fails with *ErrInvalidSelector. There is no
// default: a silently substituted window double-counts across cycles.
func (r *Resolver) Resolve(selector string) (types.YearFilter, error) {
	switch selector {
	case SelectorAll:
		return types.YearFilter{}, nil
	case SelectorLast3:
		n := len(r.years)
		if n > 3 {
			n = 3
		}
		recent := make([]int, n)
		copy(recent, r.years[len(r.years)-n:])
		return types.YearFilter{Years: recent}, nil
	}

	year, err := strconv.Atoi(selector)
	if err != nil {
		return types.YearFilter{}, &ErrInvalidSelector{Selector: selector}
	}
	for _, y := range r.years {
		if y == year {
			return types.YearFilter{Years: []int{year}}, nil
		}
	}
	// A numeric year outside the configured cycle set is a typo or an
	// unsupported cycle, not an empty result.
	return types.YearFilter{}, &ErrInvalidSelector{Selector: selector}
}
