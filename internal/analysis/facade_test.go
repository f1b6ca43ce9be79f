package analysis_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"solana-market-engine/internal/analysis"
	"solana-market-engine/internal/domain"
	"solana-market-engine/internal/indicator"
	"solana-market-engine/internal/risk"
	"solana-market-engine/internal/source"
	"solana-market-engine/internal/source/stub"
	"solana-market-engine/internal/trending"
)

// Wrapped SOL mint, a well-formed 32-byte base58 address.
const testMint = "So11111111111111111111111111111111111111112"

var testNow = time.Unix(1_700_000_000, 0).UTC()

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFacade(sources ...source.QuoteSource) *analysis.Facade {
	registry := source.NewRegistry(source.RegistryOptions{
		Sources: sources,
		Logger:  quietLogger(),
	})
	return analysis.New(analysis.Options{
		Registry: registry,
		Ranker: trending.NewRanker(trending.Options{
			Registry: registry,
			Logger:   quietLogger(),
		}),
		Indicators: indicator.NewEngine(),
		Classifier: risk.NewClassifier(risk.WithClock(func() time.Time { return testNow })),
		Logger:     quietLogger(),
	})
}

func quietRecord(address string) *domain.TokenRecord {
	return &domain.TokenRecord{
		Address:           address,
		Name:              "Wrapped SOL",
		Symbol:            "SOL",
		Price:             100,
		PriceChange24hPct: 2,
		Volume24h:         500_000,
		MarketCap:         40_000_000,
		HolderCount:       500,
		CreatedAtMs:       testNow.Add(-15 * 24 * time.Hour).UnixMilli(),
	}
}

// choppyHistory alternates prices one unit around base, so gains and losses
// balance and RSI sits at its midpoint.
func choppyHistory(n int, base float64) *domain.History {
	h := &domain.History{}
	start := testNow.Add(-time.Duration(n) * time.Hour)
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * time.Hour).UnixMilli()
		price := base + float64(i%2)
		h.Prices = append(h.Prices, domain.PricePoint{TimestampMs: ts, Value: price})
		h.Volumes = append(h.Volumes, domain.VolumePoint{TimestampMs: ts, Value: 1000})
	}
	return h
}

func TestAnalyze_FullResult(t *testing.T) {
	src := stub.New("primary")
	src.Quotes[testMint] = quietRecord(testMint)
	src.Histories[testMint] = choppyHistory(24, 100)

	facade := newFacade(src)
	result, err := facade.Analyze(context.Background(), testMint)
	require.NoError(t, err)

	require.Equal(t, testMint, result.Token.Address)
	require.Equal(t, "SOL", result.Token.Symbol)
	require.Equal(t, domain.TierLow, result.Risk.Tier)
	require.Empty(t, result.Risk.Flags)
	// Balanced gains and losses keep RSI at its midpoint.
	require.Equal(t, 50.0, result.Indicators.RSI)
	require.Equal(t, domain.SignalHold, result.Indicators.Signal)
}

func TestAnalyze_QuoteOnlyRecordStillClassified(t *testing.T) {
	// A record shaped like an aggregator quote: price and volume only, no
	// holder count and no creation time.
	src := stub.New("primary")
	src.Quotes[testMint] = &domain.TokenRecord{
		Address:   testMint,
		Symbol:    "SOL",
		Price:     100,
		Volume24h: 50_000,
	}
	src.Histories[testMint] = choppyHistory(24, 100)

	facade := newFacade(src)
	result, err := facade.Analyze(context.Background(), testMint)
	require.NoError(t, err)

	require.NotEqual(t, domain.TierUnknown, result.Risk.Tier)
	for _, f := range result.Risk.Flags {
		require.NotEqual(t, domain.FlagCategoryError, f.Category)
	}
	// Zero holders still trips the distribution rule; missing creation
	// time must not.
	require.Equal(t, domain.TierHigh, result.Risk.Tier)
	require.Len(t, result.Risk.Flags, 1)
	require.Equal(t, "few holders", result.Risk.Flags[0].Message)
}

func TestAnalyze_InvalidAddress(t *testing.T) {
	src := stub.New("primary")
	facade := newFacade(src)

	for _, addr := range []string{"", "not-base58-0OIl", "abc", testMint + testMint} {
		_, err := facade.Analyze(context.Background(), addr)
		require.ErrorIs(t, err, analysis.ErrTokenNotFound, "address %q", addr)
	}
	// Sources are never consulted for a malformed address.
	require.Equal(t, int64(0), src.QuoteCalls.Load())
}

func TestAnalyze_SecondarySourceServesQuote(t *testing.T) {
	primary := stub.New("primary")
	primary.QuoteErr = errors.New("rate limited")
	primary.HistoryErr = errors.New("rate limited")

	secondary := stub.New("secondary")
	secondary.Quotes[testMint] = quietRecord(testMint)
	secondary.Histories[testMint] = choppyHistory(24, 100)

	facade := newFacade(primary, secondary)
	result, err := facade.Analyze(context.Background(), testMint)
	require.NoError(t, err)
	require.Equal(t, testMint, result.Token.Address)

	require.Equal(t, int64(1), primary.QuoteCalls.Load())
	require.Equal(t, int64(1), secondary.QuoteCalls.Load())
}

func TestAnalyze_AllSourcesFail(t *testing.T) {
	primary := stub.New("primary")
	primary.QuoteErr = errors.New("down")
	secondary := stub.New("secondary")
	secondary.QuoteErr = errors.New("down")

	facade := newFacade(primary, secondary)
	_, err := facade.Analyze(context.Background(), testMint)
	require.ErrorIs(t, err, analysis.ErrTokenNotFound)
	// The registry's exhaustion cause stays visible behind the wrap.
	require.ErrorIs(t, err, source.ErrNoDataAvailable)
}

func TestAnalyze_HistoryFailureDegradesToNeutral(t *testing.T) {
	src := stub.New("primary")
	src.Quotes[testMint] = quietRecord(testMint)
	src.HistoryErr = errors.New("no candles")

	facade := newFacade(src)
	result, err := facade.Analyze(context.Background(), testMint)
	require.NoError(t, err)

	require.Equal(t, domain.NeutralIndicators(), result.Indicators)
	require.Equal(t, domain.TierLow, result.Risk.Tier)
}

func TestAnalyze_DerivesPriceChangeFromHistory(t *testing.T) {
	rec := quietRecord(testMint)
	rec.Price = 110
	rec.PriceChange24hPct = 0

	src := stub.New("primary")
	src.Quotes[testMint] = rec
	src.Histories[testMint] = choppyHistory(24, 100)

	facade := newFacade(src)
	result, err := facade.Analyze(context.Background(), testMint)
	require.NoError(t, err)

	require.InDelta(t, 10.0, result.Token.PriceChange24hPct, 1e-9)
}

func TestAnalyze_ReportedPriceChangeWins(t *testing.T) {
	rec := quietRecord(testMint)
	rec.PriceChange24hPct = -3

	src := stub.New("primary")
	src.Quotes[testMint] = rec
	src.Histories[testMint] = choppyHistory(24, 200)

	facade := newFacade(src)
	result, err := facade.Analyze(context.Background(), testMint)
	require.NoError(t, err)

	require.Equal(t, -3.0, result.Token.PriceChange24hPct)
}

func TestGetTrending_ClassifiesWithNeutralIndicators(t *testing.T) {
	src := stub.New("primary")
	src.Pairs = []domain.PairSummary{
		{Mint: "RiskyMint", Symbol: "RSK", Volume24h: 5_000},
		{Mint: "SafeMint", Symbol: "SAFE", Volume24h: 200_000},
	}
	src.Quotes["RiskyMint"] = &domain.TokenRecord{
		Address:     "RiskyMint",
		Price:       0.01,
		Volume24h:   5_000,
		HolderCount: 500,
		CreatedAtMs: testNow.Add(-15 * 24 * time.Hour).UnixMilli(),
	}
	safe := quietRecord("SafeMint")
	src.Quotes["SafeMint"] = safe

	facade := newFacade(src)
	results, err := facade.GetTrending(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Ranked by pair volume descending.
	require.Equal(t, "SafeMint", results[0].Token.Address)
	require.Equal(t, "RiskyMint", results[1].Token.Address)

	for _, r := range results {
		require.Equal(t, domain.NeutralIndicators(), r.Indicators)
	}
	require.Equal(t, domain.TierLow, results[0].Risk.Tier)
	require.Equal(t, domain.TierHigh, results[1].Risk.Tier)
}

func TestGetTrending_PairsFailurePropagates(t *testing.T) {
	src := stub.New("primary")
	src.PairsErr = errors.New("listing down")

	facade := newFacade(src)
	_, err := facade.GetTrending(context.Background(), 5)
	require.ErrorIs(t, err, source.ErrNoPairsAvailable)
}
