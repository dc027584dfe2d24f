// Package engine exposes the public API of the funding classification and
// aggregation engine: per-person aggregates, bulk aggregates for map and list
// views, and derived scores.
//
// There is exactly one implementation of the classification, deduplication
// and summation rules, and all three operations route through it. The
// per-candidate detail page, the bulk map view and the debug tooling can no
// longer disagree about a person's total.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mweinberg/fecwatch/internal/aggregate"
	"github.com/mweinberg/fecwatch/internal/cache"
	"github.com/mweinberg/fecwatch/internal/cycles"
	"github.com/mweinberg/fecwatch/internal/scoring"
	"github.com/mweinberg/fecwatch/internal/types"
)

// RecordSource fetches raw transaction rows from the underlying store. It is
// the only interface to the transactional data; any backend works as long as
// it returns Transaction rows.
type RecordSource interface {
	FetchTransactions(ctx context.Context, personIDs []string, filter types.YearFilter) ([]types.Transaction, error)
}

// RuleSource loads the externally maintained classification rule set. Rules
// are read fresh for every computation, so edits take effect on the next
// cache miss.
type RuleSource interface {
	LoadRules(ctx context.Context) (types.ClassificationRuleSet, error)
}

// Options configures a new Engine.
type Options struct {
	Source RecordSource // required
	Rules  RuleSource   // required

	CycleYears   []int               // discrete cycle set; empty uses cycles.DefaultYears
	CacheTTL     time.Duration       // zero uses cache.DefaultTTL
	FetchTimeout time.Duration       // zero disables the engine-side bound
	Thresholds   []scoring.Threshold // nil uses scoring.DefaultThresholds
	Logger       zerolog.Logger
}

// Engine computes and caches funding aggregates and scores.
type Engine struct {
	source       RecordSource
	rules        RuleSource
	resolver     *cycles.Resolver
	cache        *cache.Store
	scorer       *scoring.Scorer
	log          zerolog.Logger
	fetchTimeout time.Duration
}

// New validates the options and builds an engine.
func New(opts Options) (*Engine, error) {
	if opts.Source == nil {
		return nil, errors.New("engine: record source is required")
	}
	if opts.Rules == nil {
		return nil, errors.New("engine: rule source is required")
	}
	scorer, err := scoring.NewScorer(opts.Thresholds)
	if err != nil {
		return nil, err
	}
	return &Engine{
		source:       opts.Source,
		rules:        opts.Rules,
		resolver:     cycles.NewResolver(opts.CycleYears),
		cache:        cache.New(opts.CacheTTL),
		scorer:       scorer,
		log:          opts.Logger,
		fetchTimeout: opts.FetchTimeout,
	}, nil
}

// Cache exposes the result cache for invalidation and tests.
func (e *Engine) Cache() *cache.Store {
	return e.cache
}

// GetAggregate returns the funding summary for one person over the selected
// cycle window, serving a live cached entry when one exists. Concurrent
// requests for the same (person, selector) key during a miss share one
// computation.
func (e *Engine) GetAggregate(ctx context.Context, personID, cycleSelector string) (types.AggregateResult, error) {
	filter, err := e.resolver.Resolve(cycleSelector)
	if err != nil {
		return types.AggregateResult{}, err
	}

	key := cache.Key(personID, cycleSelector)
	return e.cache.GetOrCompute(ctx, key, func(ctx context.Context) (types.AggregateResult, error) {
		results, err := e.compute(ctx, []string{personID}, filter, cycleSelector)
		if err != nil {
			return types.AggregateResult{}, err
		}
		return results[personID], nil
	})
}

// GetBulkAggregates returns one funding summary per requested person over the
// selected cycle window. Uncached persons are served by a single batched
// fetch; cached persons are reused, which also keeps bulk results identical
// to what GetAggregate returns for each person individually.
func (e *Engine) GetBulkAggregates(ctx context.Context, personIDs []string, cycleSelector string) (map[string]types.AggregateResult, error) {
	filter, err := e.resolver.Resolve(cycleSelector)
	if err != nil {
		return nil, err
	}

	out := make(map[string]types.AggregateResult, len(personIDs))
	seen := make(map[string]bool, len(personIDs))
	var missing []string
	for _, id := range personIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if res, ok := e.cache.Get(cache.Key(id, cycleSelector)); ok {
			out[id] = res
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		computed, err := e.compute(ctx, missing, filter, cycleSelector)
		if err != nil {
			return nil, err
		}
		for id, res := range computed {
			// Last writer wins on concurrent bulk requests; the duplicate
			// computation produces the same value.
			e.cache.Set(cache.Key(id, cycleSelector), res)
			out[id] = res
		}
	}
	return out, nil
}

// GetScore returns the derived score tuple for one person. It is computed
// from the same aggregate GetAggregate serves, never from a separate query
// path.
func (e *Engine) GetScore(ctx context.Context, personID, cycleSelector string) (types.Score, error) {
	agg, err := e.GetAggregate(ctx, personID, cycleSelector)
	if err != nil {
		return types.Score{}, err
	}
	return e.scorer.Score(agg), nil
}

// ScoreAggregate derives the score tuple for an already-computed aggregate.
func (e *Engine) ScoreAggregate(agg types.AggregateResult) types.Score {
	return e.scorer.Score(agg)
}

// Invalidate drops the cached aggregate for one (person, selector) key.
func (e *Engine) Invalidate(personID, cycleSelector string) {
	e.cache.Invalidate(cache.Key(personID, cycleSelector))
}

// CheckRules loads the rule set once and reports it, flagging an empty set.
// The debug CLI uses this to distinguish "no funding" from "no rules".
func (e *Engine) CheckRules(ctx context.Context) (types.ClassificationRuleSet, error) {
	rules, err := e.rules.LoadRules(ctx)
	if err != nil {
		return rules, err
	}
	if rules.Empty() {
		e.log.Warn().Msg("rule set is empty; every score will read as No Support")
	}
	return rules, nil
}

// compute runs one fetch-classify-dedupe-sum pass for a batch of persons.
//
// The fetch runs on a context detached from the caller: if the caller goes
// away mid-computation the result is still valid for the next request, so
// the work is allowed to finish and populate the cache. The engine's own
// fetch timeout still bounds it.
func (e *Engine) compute(ctx context.Context, personIDs []string, filter types.YearFilter, cycleSelector string) (map[string]types.AggregateResult, error) {
	reqID := uuid.New().String()
	log := e.log.With().Str("request_id", reqID).Str("cycle", cycleSelector).Int("persons", len(personIDs)).Logger()

	fctx := context.WithoutCancel(ctx)
	if e.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(fctx, e.fetchTimeout)
		defer cancel()
	}

	var (
		rules types.ClassificationRuleSet
		rows  []types.Transaction
	)
	g, gctx := errgroup.WithContext(fctx)
	g.Go(func() error {
		var err error
		rules, err = e.rules.LoadRules(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = e.source.FetchTransactions(gctx, personIDs, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, e.sourceFailure(log, err)
	}

	if rules.Empty() {
		log.Warn().Msg("rule set is empty; all rows will fail classification closed")
	}

	results := aggregate.Summarize(personIDs, rows, rules, cycleSelector)

	skipped := 0
	for _, res := range results {
		skipped += res.SkippedRows
	}
	log.Debug().Int("rows", len(rows)).Int("skipped", skipped).Msg("computed aggregates")

	return results, nil
}

// sourceFailure normalizes fetch failures to the typed boundary error. A
// timeout from a source that does not wrap its own errors still surfaces as
// ErrSourceUnavailable, never as a silent zero.
func (e *Engine) sourceFailure(log zerolog.Logger, err error) error {
	var unavailable *ErrSourceUnavailable
	if errors.As(err, &unavailable) {
		log.Error().Err(err).Msg("record source unavailable")
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		log.Error().Err(err).Msg("record source timed out")
		return &ErrSourceUnavailable{Op: "fetch", Err: err}
	}
	log.Error().Err(err).Msg("aggregate computation failed")
	return err
}
