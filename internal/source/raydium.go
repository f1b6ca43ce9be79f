package source

import (
	"context"
	"fmt"

	"solana-market-engine/internal/domain"
)

// DefaultRaydiumBaseURL is the Raydium API root.
const DefaultRaydiumBaseURL = "https://api.raydium.io/v2"

// RaydiumSource serves the trading-pair universe from Raydium. It is the
// pair-listing provider only; quotes and history come from the other
// sources.
type RaydiumSource struct {
	client *Client
}

// NewRaydiumSource creates a Raydium adapter. An empty baseURL selects the
// public endpoint.
func NewRaydiumSource(baseURL string, opts ...ClientOption) *RaydiumSource {
	if baseURL == "" {
		baseURL = DefaultRaydiumBaseURL
	}
	return &RaydiumSource{client: NewClient(baseURL, opts...)}
}

// Name implements QuoteSource.
func (s *RaydiumSource) Name() string { return "raydium" }

// FetchQuote implements QuoteSource. Raydium exposes no single-token quote.
func (s *RaydiumSource) FetchQuote(ctx context.Context, address string) (*domain.TokenRecord, error) {
	return nil, fmt.Errorf("raydium quote: %w", ErrUnsupported)
}

// raydiumPair is one raw /main/pairs entry.
type raydiumPair struct {
	TokenInfo      raydiumTokenInfo `json:"tokenInfo"`
	Volume24h      looseFloat       `json:"volume24h"`
	Liquidity      looseFloat       `json:"liquidity"`
	PriceChange24h looseFloat       `json:"priceChange24h"`
}

type raydiumTokenInfo struct {
	Mint   string     `json:"mint"`
	Name   string     `json:"name"`
	Symbol string     `json:"symbol"`
	Supply looseFloat `json:"supply"`
}

// FetchPairs implements QuoteSource. Entries without a mint address are
// dropped; they cannot be resolved into token records.
func (s *RaydiumSource) FetchPairs(ctx context.Context) ([]domain.PairSummary, error) {
	var raw []raydiumPair
	if err := s.client.GetJSON(ctx, "/main/pairs", nil, &raw); err != nil {
		return nil, fmt.Errorf("raydium pairs: %w", err)
	}

	pairs := make([]domain.PairSummary, 0, len(raw))
	for _, p := range raw {
		if p.TokenInfo.Mint == "" {
			continue
		}
		pairs = append(pairs, domain.PairSummary{
			Mint:              p.TokenInfo.Mint,
			Name:              p.TokenInfo.Name,
			Symbol:            p.TokenInfo.Symbol,
			Supply:            float64(p.TokenInfo.Supply),
			Volume24h:         float64(p.Volume24h),
			Liquidity:         float64(p.Liquidity),
			PriceChange24hPct: float64(p.PriceChange24h),
		})
	}

	return pairs, nil
}

// FetchHistory implements QuoteSource. Raydium exposes no history endpoint.
func (s *RaydiumSource) FetchHistory(ctx context.Context, address, interval string, limit int) (*domain.History, error) {
	return nil, fmt.Errorf("raydium history: %w", ErrUnsupported)
}
