package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"solana-market-engine/internal/domain"
	"solana-market-engine/internal/observability"
)

// Registry holds the configured quote sources in priority order and applies
// the fallback policy. Quote and history resolution try every source in
// order, each exactly once per pass; pair listing always goes to the single
// primary pairs source. The registry performs no retries and keeps no state
// between calls.
type Registry struct {
	sources    []QuoteSource
	pairSource QuoteSource
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// RegistryOptions contains configuration for creating a Registry.
type RegistryOptions struct {
	// Sources in priority order (configuration order = priority order).
	Sources []QuoteSource

	// PairSource is the primary pair-listing provider. Defaults to the
	// first entry of Sources. Pair listings are never merged across
	// sources.
	PairSource QuoteSource

	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// NewRegistry creates a Registry.
func NewRegistry(opts RegistryOptions) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pairSource := opts.PairSource
	if pairSource == nil && len(opts.Sources) > 0 {
		pairSource = opts.Sources[0]
	}

	return &Registry{
		sources:    opts.Sources,
		pairSource: pairSource,
		logger:     logger,
		metrics:    opts.Metrics,
	}
}

// ResolveQuote tries each source in order and returns the first normalized
// record. Individual source failures are absorbed; only exhaustion is
// surfaced, as ErrNoDataAvailable.
func (r *Registry) ResolveQuote(ctx context.Context, address string) (*domain.TokenRecord, error) {
	for i, src := range r.sources {
		start := time.Now()
		rec, err := src.FetchQuote(ctx, address)
		r.metrics.ObserveSourceCall(src.Name(), OpQuote, time.Since(start), err)
		if err == nil {
			return rec, nil
		}

		r.logger.Warn("quote source failed",
			"source", src.Name(),
			"address", address,
			"error", err,
		)
		if i < len(r.sources)-1 {
			r.metrics.RecordFallback()
		}
	}

	return nil, fmt.Errorf("resolve quote for %s: %w", address, ErrNoDataAvailable)
}

// ResolveHistory tries each source in the same priority order as quotes.
func (r *Registry) ResolveHistory(ctx context.Context, address, interval string, limit int) (*domain.History, error) {
	for i, src := range r.sources {
		start := time.Now()
		history, err := src.FetchHistory(ctx, address, interval, limit)
		r.metrics.ObserveSourceCall(src.Name(), OpHistory, time.Since(start), err)
		if err == nil {
			return history, nil
		}

		r.logger.Warn("history source failed",
			"source", src.Name(),
			"address", address,
			"error", err,
		)
		if i < len(r.sources)-1 {
			r.metrics.RecordFallback()
		}
	}

	return nil, fmt.Errorf("resolve history for %s: %w", address, ErrNoDataAvailable)
}

// ResolvePairs fetches the pair universe from the primary pairs source
// only. A failure here is terminal for trending discovery and surfaces as
// ErrNoPairsAvailable.
func (r *Registry) ResolvePairs(ctx context.Context) ([]domain.PairSummary, error) {
	if r.pairSource == nil {
		return nil, fmt.Errorf("no pairs source configured: %w", ErrNoPairsAvailable)
	}

	start := time.Now()
	pairs, err := r.pairSource.FetchPairs(ctx)
	r.metrics.ObserveSourceCall(r.pairSource.Name(), OpPairs, time.Since(start), err)
	if err != nil {
		r.logger.Warn("pairs source failed",
			"source", r.pairSource.Name(),
			"error", err,
		)
		return nil, fmt.Errorf("resolve pairs: %w", ErrNoPairsAvailable)
	}

	return pairs, nil
}
