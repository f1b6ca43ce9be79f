package source

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"solana-market-engine/internal/domain"
)

// DefaultBirdeyeBaseURL is the Birdeye public API root.
const DefaultBirdeyeBaseURL = "https://public-api.birdeye.so"

// BirdeyeSource serves full token detail (including holder count and
// creation time) and price history from Birdeye. Birdeye has no pair
// listing.
type BirdeyeSource struct {
	client *Client
}

// NewBirdeyeSource creates a Birdeye adapter. The API key is sent as the
// X-API-KEY header on every request.
func NewBirdeyeSource(baseURL, apiKey string, opts ...ClientOption) *BirdeyeSource {
	if baseURL == "" {
		baseURL = DefaultBirdeyeBaseURL
	}
	if apiKey != "" {
		opts = append(opts, WithHeader("X-API-KEY", apiKey))
	}
	return &BirdeyeSource{client: NewClient(baseURL, opts...)}
}

// Name implements QuoteSource.
func (s *BirdeyeSource) Name() string { return "birdeye" }

// birdeyeTokenResponse is the raw /public/token payload.
type birdeyeTokenResponse struct {
	Success bool              `json:"success"`
	Data    *birdeyeTokenData `json:"data"`
}

type birdeyeTokenData struct {
	Name           string     `json:"name"`
	Symbol         string     `json:"symbol"`
	Price          looseFloat `json:"price"`
	PriceChange24h looseFloat `json:"priceChange24h"`
	MarketCap      looseFloat `json:"marketCap"`
	Volume24h      looseFloat `json:"volume24h"`
	Liquidity      looseFloat `json:"liquidity"`
	HolderCount    looseInt   `json:"holderCount"`
	CreatedAt      looseInt   `json:"createdAt"` // Unix seconds
}

// FetchQuote implements QuoteSource.
func (s *BirdeyeSource) FetchQuote(ctx context.Context, address string) (*domain.TokenRecord, error) {
	var resp birdeyeTokenResponse
	if err := s.client.GetJSON(ctx, "/public/token/"+address, nil, &resp); err != nil {
		return nil, fmt.Errorf("birdeye quote: %w", err)
	}

	if !resp.Success || resp.Data == nil {
		return nil, fmt.Errorf("birdeye quote: no token data for %s: %w", address, ErrMalformedResponse)
	}

	d := resp.Data
	return &domain.TokenRecord{
		Address:           address,
		Name:              d.Name,
		Symbol:            d.Symbol,
		Price:             float64(d.Price),
		PriceChange24hPct: float64(d.PriceChange24h),
		MarketCap:         float64(d.MarketCap),
		Volume24h:         float64(d.Volume24h),
		Liquidity:         float64(d.Liquidity),
		HolderCount:       int(d.HolderCount),
		CreatedAtMs:       int64(d.CreatedAt) * 1000,
	}, nil
}

// FetchPairs implements QuoteSource. Birdeye exposes no pair listing.
func (s *BirdeyeSource) FetchPairs(ctx context.Context) ([]domain.PairSummary, error) {
	return nil, fmt.Errorf("birdeye pairs: %w", ErrUnsupported)
}

// birdeyeHistoryResponse is the raw /public/price_history payload.
type birdeyeHistoryResponse struct {
	Success bool                `json:"success"`
	Data    []birdeyeHistoryRow `json:"data"`
}

type birdeyeHistoryRow struct {
	UnixTime looseInt   `json:"unixTime"` // Unix seconds
	Value    looseFloat `json:"value"`    // price
	Volume   looseFloat `json:"volume"`
}

// FetchHistory implements QuoteSource. Birdeye intervals use the provider's
// notation ("1H", "1D"); the configured interval is passed through as-is.
func (s *BirdeyeSource) FetchHistory(ctx context.Context, address, interval string, limit int) (*domain.History, error) {
	query := url.Values{
		"address": {address},
		"type":    {interval},
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp birdeyeHistoryResponse
	if err := s.client.GetJSON(ctx, "/public/price_history", query, &resp); err != nil {
		return nil, fmt.Errorf("birdeye history: %w", err)
	}

	if !resp.Success {
		return nil, fmt.Errorf("birdeye history: no data for %s: %w", address, ErrMalformedResponse)
	}

	history := &domain.History{
		Prices:  make([]domain.PricePoint, 0, len(resp.Data)),
		Volumes: make([]domain.VolumePoint, 0, len(resp.Data)),
	}
	for _, row := range resp.Data {
		ts := int64(row.UnixTime) * 1000
		history.Prices = append(history.Prices, domain.PricePoint{TimestampMs: ts, Value: float64(row.Value)})
		history.Volumes = append(history.Volumes, domain.VolumePoint{TimestampMs: ts, Value: float64(row.Volume)})
	}

	return history, nil
}
