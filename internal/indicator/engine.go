// Package indicator computes technical indicators over historical
// price/volume series. Every function is pure and deterministic, and
// degrades to a documented neutral value instead of returning an error: a
// bad data point costs precision, never availability.
package indicator

import (
	"math"

	"solana-market-engine/internal/domain"
)

// Default indicator parameters.
const (
	DefaultRSIPeriod  = 14
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9

	// DefaultSpikeThresholdPct is the volume change, in percent over the
	// series average, above which the latest point counts as a spike.
	DefaultSpikeThresholdPct = 50

	// RSI thresholds for signal derivation.
	rsiOverbought = 70
	rsiOversold   = 30

	// NeutralRSI is returned when the series is too short to compute RSI.
	NeutralRSI = 50
)

// Engine computes RSI, MACD and volume-trend statistics with fixed
// parameters. The zero value is not usable; construct with NewEngine.
type Engine struct {
	rsiPeriod         int
	macdFast          int
	macdSlow          int
	macdSignal        int
	spikeThresholdPct float64
}

// Option configures Engine.
type Option func(*Engine)

// WithRSIPeriod overrides the RSI averaging period.
func WithRSIPeriod(period int) Option {
	return func(e *Engine) {
		if period > 0 {
			e.rsiPeriod = period
		}
	}
}

// WithMACDSpans overrides the MACD EMA spans.
func WithMACDSpans(fast, slow, signal int) Option {
	return func(e *Engine) {
		if fast > 0 && slow > 0 && signal > 0 {
			e.macdFast = fast
			e.macdSlow = slow
			e.macdSignal = signal
		}
	}
}

// WithSpikeThreshold overrides the volume spike threshold, in percent.
func WithSpikeThreshold(pct float64) Option {
	return func(e *Engine) {
		if pct > 0 {
			e.spikeThresholdPct = pct
		}
	}
}

// NewEngine creates an Engine with the default parameters.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rsiPeriod:         DefaultRSIPeriod,
		macdFast:          DefaultMACDFast,
		macdSlow:          DefaultMACDSlow,
		macdSignal:        DefaultMACDSignal,
		spikeThresholdPct: DefaultSpikeThresholdPct,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute runs all indicators over a token's history and derives the
// summary signal. A nil or empty history yields the neutral result.
func (e *Engine) Compute(history *domain.History) domain.IndicatorResult {
	result := domain.NeutralIndicators()
	if history == nil {
		return result
	}

	result.RSI = e.RSI(history.PriceValues())
	result.MACD = e.MACD(history.PriceValues())
	result.VolumeTrend = e.VolumeTrend(history.VolumeValues())
	result.Signal = deriveSignal(result.RSI, result.MACD.Histogram)
	return result
}

// RSI computes the relative strength index over the simple average of gains
// and losses in the first rsiPeriod deltas of the series.
//
// This is deliberately NOT a rolling RSI: the averaging window is anchored
// at the start of the series rather than trailing its latest point. The
// behavior is kept for compatibility with the data consumers tuned against
// it; do not silently "fix" it to the textbook formula.
//
// Fewer than rsiPeriod points return NeutralRSI. A zero average loss
// returns 100. The result is rounded to two decimals.
func (e *Engine) RSI(prices []float64) float64 {
	if len(prices) < e.rsiPeriod {
		return NeutralRSI
	}

	var gainSum, lossSum float64
	n := 0
	for i := 1; i < len(prices) && n < e.rsiPeriod; i++ {
		delta := prices[i] - prices[i-1]
		if math.IsNaN(delta) || math.IsInf(delta, 0) {
			return NeutralRSI
		}
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum += -delta
		}
		n++
	}
	if n == 0 {
		return NeutralRSI
	}

	avgGain := gainSum / float64(n)
	avgLoss := lossSum / float64(n)
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	rsi := 100 - 100/(1+rs)
	return math.Round(rsi*100) / 100
}

// MACD computes the MACD line (fast EMA - slow EMA), its signal line and
// the histogram, reporting the most recent value of each. An empty series
// yields all zeros.
func (e *Engine) MACD(prices []float64) domain.MACDResult {
	if len(prices) == 0 {
		return domain.MACDResult{}
	}

	fast := ema(prices, e.macdFast)
	slow := ema(prices, e.macdSlow)

	macdLine := make([]float64, len(prices))
	for i := range prices {
		macdLine[i] = fast[i] - slow[i]
	}
	signalLine := ema(macdLine, e.macdSignal)

	last := len(prices) - 1
	value := macdLine[last]
	signal := signalLine[last]
	if math.IsNaN(value) || math.IsInf(value, 0) || math.IsNaN(signal) || math.IsInf(signal, 0) {
		return domain.MACDResult{}
	}

	return domain.MACDResult{
		Value:     value,
		Signal:    signal,
		Histogram: value - signal,
	}
}

// VolumeTrend compares the most recent volume against the whole-series
// average. An empty series or a zero average yields the neutral result.
func (e *Engine) VolumeTrend(volumes []float64) domain.VolumeTrendResult {
	if len(volumes) == 0 {
		return domain.VolumeTrendResult{}
	}

	var sum float64
	for _, v := range volumes {
		sum += v
	}
	avg := sum / float64(len(volumes))
	if avg == 0 || math.IsNaN(avg) || math.IsInf(avg, 0) {
		return domain.VolumeTrendResult{}
	}

	recent := volumes[len(volumes)-1]
	changePct := (recent - avg) / avg * 100
	if math.IsNaN(changePct) || math.IsInf(changePct, 0) {
		return domain.VolumeTrendResult{}
	}

	return domain.VolumeTrendResult{
		ChangePct: changePct,
		IsSpike:   changePct > e.spikeThresholdPct,
	}
}

// ema computes an exponentially weighted moving average with the given
// span, matching the adjusted weighting of the original data pipeline:
// each output is a weighted mean of all points so far with weights
// (1-alpha)^k, alpha = 2/(span+1).
func ema(series []float64, span int) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 || span <= 0 {
		return out
	}

	alpha := 2.0 / float64(span+1)
	decay := 1 - alpha

	var num, den float64
	for i, v := range series {
		num = v + decay*num
		den = 1 + decay*den
		out[i] = num / den
	}
	return out
}

// deriveSignal maps the indicator combination to a coarse trading signal:
// overbought with a falling histogram suggests taking profit, oversold with
// a rising histogram suggests an entry, anything else holds.
func deriveSignal(rsi, histogram float64) domain.Signal {
	switch {
	case rsi > rsiOverbought && histogram < 0:
		return domain.SignalSell
	case rsi < rsiOversold && histogram > 0:
		return domain.SignalBuy
	default:
		return domain.SignalHold
	}
}
