// Package source contains the quote source adapters and the registry that
// reconciles them. Each adapter maps one provider's REST schema onto the
// normalized domain types; provider quirks never leak past the adapter.
package source

import (
	"context"

	"solana-market-engine/internal/domain"
)

// Operation names used for logging and metrics labels.
const (
	OpQuote   = "quote"
	OpPairs   = "pairs"
	OpHistory = "history"
)

// QuoteSource is the capability one external data provider implements.
// Every method issues at most one network call per invocation; retrying
// is the registry's concern (it moves to the next source, it never
// re-attempts the same one within a resolution pass).
//
// A provider without an endpoint for an operation returns ErrUnsupported.
type QuoteSource interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// FetchQuote returns the normalized market snapshot for a token.
	FetchQuote(ctx context.Context, address string) (*domain.TokenRecord, error)

	// FetchPairs returns the provider's trading-pair universe.
	FetchPairs(ctx context.Context) ([]domain.PairSummary, error)

	// FetchHistory returns up to limit historical price/volume points for a
	// token at the given interval (provider-specific notation, e.g. "1h").
	FetchHistory(ctx context.Context, address, interval string, limit int) (*domain.History, error)
}
