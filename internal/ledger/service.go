// Package ledger wires the store, analytics engine, recurring-charge
// detector, and bounded cache into the operations the CLI exposes. It
// owns the ordering contract for mutations: the cache is invalidated
// strictly after the store acknowledges a commit, never before.
package ledger

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tallied-dev/tallied/internal/analytics"
	"github.com/tallied-dev/tallied/internal/model"
	"github.com/tallied-dev/tallied/internal/recurring"
	"github.com/tallied-dev/tallied/internal/store"
)

// subscriptionLookback is how many months of history feed recurring
// detection. Three occurrences need three months; six gives slack for
// skipped cycles.
const subscriptionLookback = 6

// Service provides derived views over the durable store.
type Service struct {
	store    store.Store
	cache    *analytics.Cache
	detector *recurring.Detector
	log      zerolog.Logger
}

// NewService creates a ledger Service.
func NewService(st store.Store, cache *analytics.Cache, detector *recurring.Detector, log zerolog.Logger) *Service {
	return &Service{store: st, cache: cache, detector: detector, log: log}
}

// Report returns the monthly aggregate, served from cache when the
// month's signature is unchanged and recomputed otherwise.
func (s *Service) Report(ctx context.Context, month model.Month) (analytics.Summary, error) {
	txns, err := s.store.GetTransactions(ctx, month)
	if err != nil {
		return analytics.Summary{}, err
	}

	sig := analytics.ComputeSignature(txns)
	if summary, ok := s.cache.Get(month, sig); ok {
		s.log.Debug().Str("month", string(month)).Msg("report served from cache")
		return summary, nil
	}

	candidates, err := s.Subscriptions(ctx, month)
	if err != nil {
		return analytics.Summary{}, err
	}

	summary := analytics.Summarize(month, txns, candidates)
	s.cache.Put(month, sig, summary)
	s.log.Debug().Str("month", string(month)).Int("transactions", sig.Count).Msg("report recomputed")
	return summary, nil
}

// Trend returns aggregates for the n months ending at end, in
// chronological order.
func (s *Service) Trend(ctx context.Context, end model.Month, n int) ([]analytics.Summary, error) {
	months := end.Window(n)
	out := make([]analytics.Summary, 0, len(months))
	for _, m := range months {
		summary, err := s.Report(ctx, m)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

// Subscriptions detects recurring charges over the lookback window ending
// at end.
func (s *Service) Subscriptions(ctx context.Context, end model.Month) ([]recurring.Candidate, error) {
	var window []model.Transaction
	for _, m := range end.Window(subscriptionLookback) {
		txns, err := s.store.GetTransactions(ctx, m)
		if err != nil {
			return nil, err
		}
		window = append(window, txns...)
	}
	return s.detector.Detect(window), nil
}

// AddTransactions commits transactions and then invalidates the affected
// months. A failed commit leaves the cache untouched so it can never run
// ahead of the store.
func (s *Service) AddTransactions(ctx context.Context, txns []model.Transaction) (store.CommitAck, error) {
	ack, err := s.store.PutTransactions(ctx, txns)
	if err != nil {
		return store.CommitAck{}, err
	}

	// Invalidation happens only after the ack above.
	for _, m := range affectedMonths(txns) {
		s.cache.Invalidate(m)
	}
	s.log.Info().Int("committed", ack.Committed).Msg("transactions committed")
	return ack, nil
}

// DeleteTransaction removes one transaction, invalidating its month only
// after the store acknowledges the delete.
func (s *Service) DeleteTransaction(ctx context.Context, month model.Month, id string) (store.CommitAck, error) {
	ack, err := s.store.DeleteTransaction(ctx, month, id)
	if err != nil {
		return store.CommitAck{}, err
	}
	s.cache.Invalidate(month)
	return ack, nil
}

// Transactions exposes the raw month read for export and listing.
func (s *Service) Transactions(ctx context.Context, month model.Month) ([]model.Transaction, error) {
	return s.store.GetTransactions(ctx, month)
}

func affectedMonths(txns []model.Transaction) []model.Month {
	seen := make(map[model.Month]bool)
	var out []model.Month
	for _, t := range txns {
		m := t.MonthKey()
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
