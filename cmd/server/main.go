// Package main serves the analysis facade over HTTP for the chat layer:
// GET /trending, GET /analyze?address=..., plus /healthz and /metrics.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"solana-market-engine/internal/analysis"
	"solana-market-engine/internal/config"
	"solana-market-engine/internal/indicator"
	"solana-market-engine/internal/observability"
	"solana-market-engine/internal/risk"
	"solana-market-engine/internal/source"
	"solana-market-engine/internal/trending"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	metrics := observability.NewMetrics("market_engine", prometheus.DefaultRegisterer)
	facade := buildFacade(cfg, logger, metrics)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/trending", func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, _ = strconv.Atoi(raw)
		}

		results, err := facade.GetTrending(r.Context(), limit)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, results)
	})
	mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
		address := r.URL.Query().Get("address")
		if address == "" {
			http.Error(w, "missing address parameter", http.StatusBadRequest)
			return
		}

		result, err := facade.Analyze(r.Context(), address)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, result)
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig.String())
		cancel()
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("engine server listening", "addr", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// buildFacade wires the sources, registry, ranker and facade from config.
func buildFacade(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *analysis.Facade {
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
		Metrics:    metrics,
	})

	ranker := trending.NewRanker(trending.Options{
		Registry:     registry,
		DefaultLimit: cfg.TrendingLimit,
		Workers:      cfg.ResolveWorkers,
		Logger:       logger,
		Metrics:      metrics,
	})

	return analysis.New(analysis.Options{
		Registry:        registry,
		Ranker:          ranker,
		Indicators:      indicator.NewEngine(indicator.WithSpikeThreshold(cfg.SpikeThresholdPct)),
		Classifier:      risk.NewClassifier(),
		HistoryInterval: cfg.HistoryInterval,
		HistoryLimit:    cfg.HistoryLimit,
		Logger:          logger,
		Metrics:         metrics,
	})
}

func newLogger(level string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, analysis.ErrTokenNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, source.ErrNoPairsAvailable), errors.Is(err, source.ErrNoDataAvailable):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		logger.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
