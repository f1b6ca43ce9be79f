package source

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"solana-market-engine/internal/domain"
)

// DefaultJupiterBaseURL is the Jupiter price API root.
const DefaultJupiterBaseURL = "https://price.jup.ag/v4"

// JupiterSource serves quotes and price/volume history from the Jupiter
// aggregator. Jupiter has no pair listing.
type JupiterSource struct {
	client *Client
}

// NewJupiterSource creates a Jupiter adapter. An empty baseURL selects the
// public endpoint.
func NewJupiterSource(baseURL string, opts ...ClientOption) *JupiterSource {
	if baseURL == "" {
		baseURL = DefaultJupiterBaseURL
	}
	return &JupiterSource{client: NewClient(baseURL, opts...)}
}

// Name implements QuoteSource.
func (s *JupiterSource) Name() string { return "jupiter" }

// jupiterPriceResponse is the raw /price payload, keyed by mint address.
type jupiterPriceResponse struct {
	Data map[string]jupiterPriceEntry `json:"data"`
}

type jupiterPriceEntry struct {
	ID         string     `json:"id"`
	MintSymbol string     `json:"mintSymbol"`
	Price      looseFloat `json:"price"`
	Volume24h  looseFloat `json:"volume24h"`
}

// FetchQuote implements QuoteSource. Jupiter reports price and volume only;
// all other fields keep their neutral zero values.
func (s *JupiterSource) FetchQuote(ctx context.Context, address string) (*domain.TokenRecord, error) {
	query := url.Values{"ids": {address}}

	var resp jupiterPriceResponse
	if err := s.client.GetJSON(ctx, "/price", query, &resp); err != nil {
		return nil, fmt.Errorf("jupiter quote: %w", err)
	}

	entry, ok := resp.Data[address]
	if !ok {
		return nil, fmt.Errorf("jupiter quote: token %s missing from payload: %w", address, ErrMalformedResponse)
	}

	return &domain.TokenRecord{
		Address:   address,
		Symbol:    entry.MintSymbol,
		Price:     float64(entry.Price),
		Volume24h: float64(entry.Volume24h),
	}, nil
}

// FetchPairs implements QuoteSource. Jupiter exposes no pair listing.
func (s *JupiterSource) FetchPairs(ctx context.Context) ([]domain.PairSummary, error) {
	return nil, fmt.Errorf("jupiter pairs: %w", ErrUnsupported)
}

// jupiterHistoryResponse is the raw /price/history payload.
type jupiterHistoryResponse struct {
	Data map[string][]jupiterHistoryRow `json:"data"`
}

type jupiterHistoryRow struct {
	Timestamp looseInt   `json:"timestamp"` // Unix seconds
	Price     looseFloat `json:"price"`
	Volume    looseFloat `json:"volume"`
}

// FetchHistory implements QuoteSource.
func (s *JupiterSource) FetchHistory(ctx context.Context, address, interval string, limit int) (*domain.History, error) {
	query := url.Values{
		"ids":      {address},
		"interval": {interval},
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp jupiterHistoryResponse
	if err := s.client.GetJSON(ctx, "/price/history", query, &resp); err != nil {
		return nil, fmt.Errorf("jupiter history: %w", err)
	}

	rows, ok := resp.Data[address]
	if !ok {
		return nil, fmt.Errorf("jupiter history: token %s missing from payload: %w", address, ErrMalformedResponse)
	}

	history := &domain.History{
		Prices:  make([]domain.PricePoint, 0, len(rows)),
		Volumes: make([]domain.VolumePoint, 0, len(rows)),
	}
	for _, row := range rows {
		ts := int64(row.Timestamp) * 1000
		history.Prices = append(history.Prices, domain.PricePoint{TimestampMs: ts, Value: float64(row.Price)})
		history.Volumes = append(history.Volumes, domain.VolumePoint{TimestampMs: ts, Value: float64(row.Volume)})
	}

	return history, nil
}
