// Package stub provides a configurable QuoteSource for testing.
package stub

import (
	"context"
	"errors"
	"sync/atomic"

	"solana-market-engine/internal/domain"
)

// Source implements source.QuoteSource for testing. Populate the maps and
// error fields, then inspect the call counters. Counters are atomic because
// trending resolution calls sources concurrently.
type Source struct {
	SourceName string

	Quotes    map[string]*domain.TokenRecord
	Histories map[string]*domain.History
	Pairs     []domain.PairSummary

	QuoteErr   error
	HistoryErr error
	PairsErr   error

	QuoteCalls   atomic.Int64
	HistoryCalls atomic.Int64
	PairsCalls   atomic.Int64
}

// New creates a stub source with the given name.
func New(name string) *Source {
	return &Source{
		SourceName: name,
		Quotes:     make(map[string]*domain.TokenRecord),
		Histories:  make(map[string]*domain.History),
	}
}

// Name implements source.QuoteSource.
func (s *Source) Name() string { return s.SourceName }

// FetchQuote returns the configured record, or QuoteErr when set. An
// unconfigured address fails with a generic error.
func (s *Source) FetchQuote(_ context.Context, address string) (*domain.TokenRecord, error) {
	s.QuoteCalls.Add(1)
	if s.QuoteErr != nil {
		return nil, s.QuoteErr
	}
	rec, ok := s.Quotes[address]
	if !ok {
		return nil, errNotConfigured
	}
	// Return a copy to preserve the fresh-record-per-call contract.
	recCopy := *rec
	return &recCopy, nil
}

// FetchPairs implements source.QuoteSource.
func (s *Source) FetchPairs(_ context.Context) ([]domain.PairSummary, error) {
	s.PairsCalls.Add(1)
	if s.PairsErr != nil {
		return nil, s.PairsErr
	}
	return s.Pairs, nil
}

// FetchHistory implements source.QuoteSource.
func (s *Source) FetchHistory(_ context.Context, address, _ string, _ int) (*domain.History, error) {
	s.HistoryCalls.Add(1)
	if s.HistoryErr != nil {
		return nil, s.HistoryErr
	}
	h, ok := s.Histories[address]
	if !ok {
		return nil, errNotConfigured
	}
	return h, nil
}

// errNotConfigured marks a lookup the test did not configure.
var errNotConfigured = errors.New("stub: not configured")
