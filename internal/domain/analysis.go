package domain

// RiskTier is the discrete risk classification of a token.
type RiskTier string

const (
	TierLow     RiskTier = "LOW"
	TierHigh    RiskTier = "HIGH"
	TierUnknown RiskTier = "UNKNOWN"
)

// Flag categories. Categories group related flags for the presentation
// layer; the order of flags within an assessment is presentation order, not
// severity order.
const (
	FlagCategoryPrice   = "price"
	FlagCategoryVolume  = "volume"
	FlagCategoryHolders = "holders"
	FlagCategoryAge     = "age"
	FlagCategoryError   = "error"
)

// RiskFlag is one human-readable finding produced by the risk rule set.
type RiskFlag struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// RiskAssessment is the outcome of evaluating the risk rule set over a
// TokenRecord. Flags keep insertion order.
type RiskAssessment struct {
	Tier  RiskTier   `json:"tier"`
	Flags []RiskFlag `json:"flags"`
}

// Signal is a coarse trading signal derived from the technical indicators.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// MACDResult holds the most recent values of the MACD computation.
type MACDResult struct {
	Value     float64 `json:"value"`     // fast EMA - slow EMA
	Signal    float64 `json:"signal"`    // EMA of the MACD line
	Histogram float64 `json:"histogram"` // Value - Signal
}

// VolumeTrendResult compares the most recent volume against the series
// average.
type VolumeTrendResult struct {
	ChangePct float64 `json:"changePct"`
	IsSpike   bool    `json:"isSpike"`
}

// IndicatorResult is a pure function of the input series, immutable once
// computed. Every field defaults to its documented neutral value so
// downstream formatting never handles missing data.
type IndicatorResult struct {
	RSI         float64           `json:"rsi"` // 0-100, neutral 50
	MACD        MACDResult        `json:"macd"`
	VolumeTrend VolumeTrendResult `json:"volumeTrend"`
	Signal      Signal            `json:"signal"`
}

// NeutralIndicators returns the defined neutral IndicatorResult, used when
// no history is fetched (bulk trending views) or no history is available.
func NeutralIndicators() IndicatorResult {
	return IndicatorResult{
		RSI:    50,
		Signal: SignalHold,
	}
}

// AnalysisResult is the unit returned to the caller: one normalized token
// record, its technical indicators and its risk assessment.
type AnalysisResult struct {
	Token      TokenRecord     `json:"token"`
	Indicators IndicatorResult `json:"indicators"`
	Risk       RiskAssessment  `json:"risk"`
}
