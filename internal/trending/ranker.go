// Package trending ranks the trading-pair universe by 24h volume and
// resolves the top entries into normalized token records.
package trending

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"

	"solana-market-engine/internal/domain"
	"solana-market-engine/internal/observability"
	"solana-market-engine/internal/source"
)

// Defaults for ranker construction.
const (
	DefaultLimit   = 5
	DefaultWorkers = 6
)

// Ranker retrieves, filters and ranks trading pairs, then resolves the
// winners through the source registry with bounded concurrency.
type Ranker struct {
	registry *source.Registry
	limit    int
	workers  int
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// Options contains configuration for creating a Ranker.
type Options struct {
	Registry *source.Registry

	// DefaultLimit is used when GetTrending is called with limit <= 0.
	DefaultLimit int

	// Workers bounds concurrent quote resolutions, keeping the engine
	// under upstream rate limits.
	Workers int

	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// NewRanker creates a Ranker.
func NewRanker(opts Options) *Ranker {
	limit := opts.DefaultLimit
	if limit <= 0 {
		limit = DefaultLimit
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Ranker{
		registry: opts.Registry,
		limit:    limit,
		workers:  workers,
		logger:   logger,
		metrics:  opts.Metrics,
	}
}

// GetTrending returns up to limit token records, ordered by 24h pair volume
// descending. Pairs with zero or non-numeric volume are discarded before
// ranking; ties keep source order. Pairs whose resolution fails are skipped
// without retry, so the result may hold fewer than limit records. The call
// fails only when the pairs fetch itself fails.
func (r *Ranker) GetTrending(ctx context.Context, limit int) ([]domain.TokenRecord, error) {
	if limit <= 0 {
		limit = r.limit
	}

	pairs, err := r.registry.ResolvePairs(ctx)
	if err != nil {
		return nil, err
	}

	ranked := rankPairs(pairs)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	records := r.resolveAll(ctx, ranked)

	out := make([]domain.TokenRecord, 0, len(records))
	for _, rec := range records {
		if rec != nil {
			out = append(out, *rec)
		}
	}
	return out, nil
}

// rankPairs drops unusable entries and stable-sorts by volume descending.
func rankPairs(pairs []domain.PairSummary) []domain.PairSummary {
	ranked := make([]domain.PairSummary, 0, len(pairs))
	for _, p := range pairs {
		if p.Volume24h <= 0 || math.IsNaN(p.Volume24h) || math.IsInf(p.Volume24h, 0) {
			continue
		}
		ranked = append(ranked, p)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Volume24h > ranked[j].Volume24h
	})
	return ranked
}

// resolveAll resolves each pair into a token record using a bounded worker
// pool. Results land at the pair's rank index so ordering survives the
// concurrency; failed resolutions leave a nil slot.
func (r *Ranker) resolveAll(ctx context.Context, ranked []domain.PairSummary) []*domain.TokenRecord {
	records := make([]*domain.TokenRecord, len(ranked))
	if len(ranked) == 0 {
		return records
	}

	workers := r.workers
	if workers > len(ranked) {
		workers = len(ranked)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				records[idx] = r.resolveOne(ctx, ranked[idx])
			}
		}()
	}

	for idx := range ranked {
		select {
		case <-ctx.Done():
			// Stop handing out work; in-flight resolutions finish on
			// their own timeouts.
			close(jobs)
			wg.Wait()
			return records
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	return records
}

// resolveOne resolves a single pair and backfills fields the quote source
// did not report from the pair listing. Market cap falls back to
// price x supply, the way the pair provider's own UI derives it.
func (r *Ranker) resolveOne(ctx context.Context, pair domain.PairSummary) *domain.TokenRecord {
	rec, err := r.registry.ResolveQuote(ctx, pair.Mint)
	if err != nil {
		r.logger.Warn("skipping trending pair, resolution failed",
			"mint", pair.Mint,
			"symbol", pair.Symbol,
			"error", err,
		)
		r.metrics.RecordSkippedToken()
		return nil
	}

	if rec.Name == "" {
		rec.Name = pair.Name
	}
	if rec.Symbol == "" {
		rec.Symbol = pair.Symbol
	}
	if rec.PriceChange24hPct == 0 {
		rec.PriceChange24hPct = pair.PriceChange24hPct
	}
	if rec.Volume24h == 0 {
		rec.Volume24h = pair.Volume24h
	}
	if rec.Liquidity == 0 {
		rec.Liquidity = pair.Liquidity
	}
	if rec.MarketCap == 0 && pair.Supply > 0 {
		rec.MarketCap = rec.Price * pair.Supply
	}

	return rec
}
