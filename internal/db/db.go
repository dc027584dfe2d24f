// Package db provides PostgreSQL access to the raw transaction store and the
// classification rule tables.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mweinberg/fecwatch/internal/engine"
	"github.com/mweinberg/fecwatch/internal/types"
)

// DefaultFetchTimeout bounds every query; a hung database surfaces as
// *engine.ErrSourceUnavailable instead of hanging the caller.
const DefaultFetchTimeout = 10 * time.Second

// Store wraps a PostgreSQL connection pool. It implements both the
// engine.RecordSource and engine.RuleSource boundaries.
type Store struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// Connect establishes a connection pool to the database and verifies it.
func Connect(ctx context.Context, databaseURL string, timeout time.Duration) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Store{pool: pool, timeout: timeout}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// FetchTransactions returns every raw transaction row for the given persons,
// restricted by the year filter. One batched query serves any number of
// persons; the bulk map view depends on that staying a single round trip.
func (s *Store) FetchTransactions(ctx context.Context, personIDs []string, filter types.YearFilter) ([]types.Transaction, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `SELECT unique_submission_id, recipient_person_id, source_committee_id,
		       source_committee_name, amount, transaction_type_code, cycle_year,
		       transaction_date, COALESCE(support_oppose, '')
		FROM lobby_transactions
		WHERE recipient_person_id = ANY($1)`
	args := []any{personIDs}
	if !filter.Unfiltered() {
		query += ` AND cycle_year = ANY($2)`
		args = append(args, filter.Years)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, sourceErr("fetch transactions", err)
	}
	defer rows.Close()

	var txs []types.Transaction
	for rows.Next() {
		var (
			tx     types.Transaction
			amount *decimal.Decimal
			date   *time.Time
		)
		if err := rows.Scan(&tx.SubmissionID, &tx.PersonID, &tx.CommitteeID,
			&tx.CommitteeName, &amount, &tx.Type, &tx.CycleYear, &date, &tx.SupportOppose); err != nil {
			return nil, sourceErr("scan transaction", err)
		}
		// NULL amounts and dates are left at their zero values; the
		// aggregator counts those rows as skipped instead of failing.
		if amount != nil {
			tx.Amount = decimal.NewNullDecimal(*amount)
		}
		if date != nil {
			tx.TransactionDate = *date
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, sourceErr("fetch transactions", err)
	}
	return txs, nil
}

// LoadRules reads the committee allow-list and the keyword list. The rule set
// is external configuration: this loader reports what the tables say and
// leaves empty-set flagging to the engine.
func (s *Store) LoadRules(ctx context.Context) (types.ClassificationRuleSet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rules types.ClassificationRuleSet

	rows, err := s.pool.Query(ctx, `SELECT committee_id FROM config_committees ORDER BY committee_id`)
	if err != nil {
		return rules, sourceErr("load committee rules", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return rules, sourceErr("scan committee rule", err)
		}
		rules.CommitteeIDs = append(rules.CommitteeIDs, id)
	}
	if err := rows.Err(); err != nil {
		return rules, sourceErr("load committee rules", err)
	}

	kwRows, err := s.pool.Query(ctx, `SELECT keyword FROM config_keywords ORDER BY keyword`)
	if err != nil {
		return rules, sourceErr("load keyword rules", err)
	}
	defer kwRows.Close()
	for kwRows.Next() {
		var kw string
		if err := kwRows.Scan(&kw); err != nil {
			return rules, sourceErr("scan keyword rule", err)
		}
		rules.Keywords = append(rules.Keywords, kw)
	}
	if err := kwRows.Err(); err != nil {
		return rules, sourceErr("load keyword rules", err)
	}

	return rules, nil
}

// sourceErr wraps a store failure as the typed boundary error. Timeouts and
// transport errors look the same to the engine: the source did not answer.
func sourceErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("query timed out: %w", err)
	}
	return &engine.ErrSourceUnavailable{Op: op, Err: err}
}
