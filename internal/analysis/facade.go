// Package analysis exposes the engine's two entry points: single-token
// analysis and trending discovery. Callers format the returned structures
// however they like; this package never renders anything.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mr-tron/base58"

	"solana-market-engine/internal/domain"
	"solana-market-engine/internal/indicator"
	"solana-market-engine/internal/observability"
	"solana-market-engine/internal/risk"
	"solana-market-engine/internal/source"
	"solana-market-engine/internal/trending"
)

// ErrTokenNotFound is returned when an address is not a valid token mint or
// no source could resolve it.
var ErrTokenNotFound = errors.New("token not found")

// Default history fetch parameters for single-token analysis.
const (
	DefaultHistoryInterval = "1H"
	DefaultHistoryLimit    = 24
)

// mintLength is the byte length of a Solana public key.
const mintLength = 32

// Facade composes the registry, ranker, indicator engine and risk
// classifier into the two operations the caller sees.
type Facade struct {
	registry        *source.Registry
	ranker          *trending.Ranker
	indicators      *indicator.Engine
	classifier      *risk.Classifier
	historyInterval string
	historyLimit    int
	logger          *slog.Logger
	metrics         *observability.Metrics
}

// Options contains configuration for creating a Facade.
type Options struct {
	Registry   *source.Registry
	Ranker     *trending.Ranker
	Indicators *indicator.Engine
	Classifier *risk.Classifier

	// HistoryInterval/HistoryLimit shape the history fetch behind Analyze.
	HistoryInterval string
	HistoryLimit    int

	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// New creates a Facade.
func New(opts Options) *Facade {
	interval := opts.HistoryInterval
	if interval == "" {
		interval = DefaultHistoryInterval
	}

	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	indicators := opts.Indicators
	if indicators == nil {
		indicators = indicator.NewEngine()
	}

	classifier := opts.Classifier
	if classifier == nil {
		classifier = risk.NewClassifier()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Facade{
		registry:        opts.Registry,
		ranker:          opts.Ranker,
		indicators:      indicators,
		classifier:      classifier,
		historyInterval: interval,
		historyLimit:    limit,
		logger:          logger,
		metrics:         opts.Metrics,
	}
}

// Analyze resolves one token, fetches its history, and returns the full
// analysis: normalized record, technical indicators and risk assessment.
// The quote and history fetches are independent and run concurrently; both
// complete before indicators are computed. History failure is not fatal;
// indicators fall back to their neutral values.
func (f *Facade) Analyze(ctx context.Context, address string) (result *domain.AnalysisResult, err error) {
	defer func() { f.metrics.RecordAnalysis("analyze", err) }()

	if !validMint(address) {
		return nil, fmt.Errorf("invalid token address %q: %w", address, ErrTokenNotFound)
	}

	var (
		wg         sync.WaitGroup
		rec        *domain.TokenRecord
		quoteErr   error
		history    *domain.History
		historyErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rec, quoteErr = f.registry.ResolveQuote(ctx, address)
	}()
	go func() {
		defer wg.Done()
		history, historyErr = f.registry.ResolveHistory(ctx, address, f.historyInterval, f.historyLimit)
	}()
	wg.Wait()

	if quoteErr != nil {
		return nil, fmt.Errorf("resolve %s: %w: %w", address, ErrTokenNotFound, quoteErr)
	}

	if historyErr != nil {
		f.logger.Warn("history unavailable, indicators degrade to neutral",
			"address", address,
			"error", historyErr,
		)
		history = nil
	}

	// Quote-only providers report no 24h change; derive it from the
	// oldest historical price when possible.
	if rec.PriceChange24hPct == 0 && history != nil && len(history.Prices) > 0 {
		if first := history.Prices[0].Value; first > 0 {
			rec.PriceChange24hPct = (rec.Price - first) / first * 100
		}
	}

	return &domain.AnalysisResult{
		Token:      *rec,
		Indicators: f.indicators.Compute(history),
		Risk:       f.classifier.Classify(*rec),
	}, nil
}

// GetTrending returns analysis results for the top trending tokens. Bulk
// views run the risk classifier only; indicators keep their neutral values
// because each full indicator set would cost one more history fetch per
// token.
func (f *Facade) GetTrending(ctx context.Context, limit int) (results []domain.AnalysisResult, err error) {
	defer func() { f.metrics.RecordAnalysis("trending", err) }()

	records, err := f.ranker.GetTrending(ctx, limit)
	if err != nil {
		return nil, err
	}

	results = make([]domain.AnalysisResult, 0, len(records))
	for _, rec := range records {
		results = append(results, domain.AnalysisResult{
			Token:      rec,
			Indicators: domain.NeutralIndicators(),
			Risk:       f.classifier.Classify(rec),
		})
	}
	return results, nil
}

// validMint reports whether address decodes to a 32-byte base58 public key.
func validMint(address string) bool {
	decoded, err := base58.Decode(address)
	return err == nil && len(decoded) == mintLength
}
