// Package main runs a one-shot analysis from the command line and prints
// the result as JSON: either a single token analysis or the trending list.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"solana-market-engine/internal/analysis"
	"solana-market-engine/internal/config"
	"solana-market-engine/internal/indicator"
	"solana-market-engine/internal/risk"
	"solana-market-engine/internal/source"
	"solana-market-engine/internal/trending"
)

func main() {
	token := flag.String("token", "", "Token mint address to analyze")
	trendingFlag := flag.Bool("trending", false, "Fetch the trending token list instead")
	limit := flag.Int("limit", 0, "Trending list size (0 uses the configured default)")
	verbose := flag.Bool("verbose", false, "Verbose logging")
	flag.Parse()

	if *token == "" && !*trendingFlag {
		fmt.Fprintln(os.Stderr, "usage: analyze -token <mint> | analyze -trending [-limit N]")
		os.Exit(2)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	facade := buildFacade(cfg, logger)

	var result interface{}
	if *trendingFlag {
		result, err = facade.GetTrending(ctx, *limit)
	} else {
		result, err = facade.Analyze(ctx, *token)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		os.Exit(1)
	}
}

// buildFacade wires the sources, registry, ranker and facade from config.
func buildFacade(cfg *config.Config, logger *slog.Logger) *analysis.Facade {
	timeout := source.WithTimeout(cfg.HTTPTimeout)

	jupiter := source.NewJupiterSource(cfg.JupiterBaseURL, timeout)
	birdeye := source.NewBirdeyeSource(cfg.BirdeyeBaseURL, cfg.BirdeyeAPIKey, timeout)
	raydium := source.NewRaydiumSource(cfg.RaydiumBaseURL, timeout)

	// Birdeye leads: it is the only quote source carrying holder count and
	// creation time, which the risk rules consume. Jupiter backs it up with
	// price and volume.
	registry := source.NewRegistry(source.RegistryOptions{
		Sources:    []source.QuoteSource{birdeye, jupiter},
		PairSource: raydium,
		Logger:     logger,
	})

	ranker := trending.NewRanker(trending.Options{
		Registry:     registry,
		DefaultLimit: cfg.TrendingLimit,
		Workers:      cfg.ResolveWorkers,
		Logger:       logger,
	})

	return analysis.New(analysis.Options{
		Registry:        registry,
		Ranker:          ranker,
		Indicators:      indicator.NewEngine(indicator.WithSpikeThreshold(cfg.SpikeThresholdPct)),
		Classifier:      risk.NewClassifier(),
		HistoryInterval: cfg.HistoryInterval,
		HistoryLimit:    cfg.HistoryLimit,
		Logger:          logger,
	})
}
