package domain

// TokenRecord is the normalized snapshot of a token's market data, assembled
// by a quote source from its own provider schema. A record is produced fresh
// per query and never mutated after construction; a new fetch produces a new
// record.
type TokenRecord struct {
	Address           string  `json:"address"` // token mint address
	Name              string  `json:"name"`
	Symbol            string  `json:"symbol"`
	Price             float64 `json:"price"`             // USD, >= 0
	PriceChange24hPct float64 `json:"priceChange24hPct"` // signed percent
	Volume24h         float64 `json:"volume24h"`         // USD, >= 0
	MarketCap         float64 `json:"marketCap"`         // USD, >= 0
	Liquidity         float64 `json:"liquidity"`         // USD, >= 0
	HolderCount       int     `json:"holderCount"`
	CreatedAtMs       int64   `json:"createdAtMs"` // Unix timestamp in milliseconds, 0 when unknown
}

// PairSummary is a raw trading-pair entry from a pair-listing source. It is
// used only transiently to rank the pair universe before resolving full
// TokenRecords.
type PairSummary struct {
	Mint              string  // token mint address
	Name              string
	Symbol            string
	Supply            float64 // token supply reported by the listing
	Volume24h         float64 // USD
	Liquidity         float64 // USD
	PriceChange24hPct float64
}
