package indicator

import (
	"math"
	"testing"

	"solana-market-engine/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRSI_ShortSeriesReturnsNeutral(t *testing.T) {
	e := NewEngine()

	// Any series shorter than the period yields exactly 50.
	for n := 0; n < DefaultRSIPeriod; n++ {
		prices := make([]float64, n)
		for i := range prices {
			prices[i] = float64(i + 1)
		}
		if got := e.RSI(prices); got != 50 {
			t.Errorf("RSI of %d points: expected 50, got %f", n, got)
		}
	}
}

func TestRSI_ZeroLossesReturns100(t *testing.T) {
	e := NewEngine()

	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 + float64(i) // strictly rising, no losses
	}

	if got := e.RSI(prices); got != 100 {
		t.Errorf("expected 100, got %f", got)
	}
}

func TestRSI_BalancedGainsAndLosses(t *testing.T) {
	e := NewEngine()

	// Alternating +1/-1 deltas: average gain equals average loss, RS = 1,
	// RSI = 50.
	prices := []float64{10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10}
	if got := e.RSI(prices); got != 50 {
		t.Errorf("expected 50, got %f", got)
	}
}

func TestRSI_KnownValue(t *testing.T) {
	e := NewEngine()

	// First 14 deltas: ten gains of +2, four losses of -1.
	// avgGain = 20/14, avgLoss = 4/14, RS = 5, RSI = 100 - 100/6 = 83.33.
	prices := []float64{100}
	for i := 0; i < 10; i++ {
		prices = append(prices, prices[len(prices)-1]+2)
	}
	for i := 0; i < 4; i++ {
		prices = append(prices, prices[len(prices)-1]-1)
	}

	if got := e.RSI(prices); got != 83.33 {
		t.Errorf("expected 83.33, got %f", got)
	}
}

func TestRSI_WindowAnchoredAtSeriesStart(t *testing.T) {
	e := NewEngine()

	prices := make([]float64, 15)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	before := e.RSI(prices)

	// A crash after the first period+1 points must not change the result:
	// the averaging window is anchored at the start, not trailing.
	crashed := append(append([]float64{}, prices...), 50, 20, 5)
	after := e.RSI(crashed)

	if before != after {
		t.Errorf("RSI changed after appending post-window points: %f vs %f", before, after)
	}
}

func TestMACD_EmptySeriesReturnsZeros(t *testing.T) {
	e := NewEngine()

	got := e.MACD(nil)
	if got.Value != 0 || got.Signal != 0 || got.Histogram != 0 {
		t.Errorf("expected zero MACD, got %+v", got)
	}
}

func TestMACD_ConstantSeriesIsFlat(t *testing.T) {
	e := NewEngine()

	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 25
	}

	got := e.MACD(prices)
	if !almostEqual(got.Value, 0) || !almostEqual(got.Signal, 0) || !almostEqual(got.Histogram, 0) {
		t.Errorf("expected flat MACD for constant series, got %+v", got)
	}
}

func TestMACD_RisingSeriesIsPositive(t *testing.T) {
	e := NewEngine()

	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + float64(i)*2
	}

	got := e.MACD(prices)
	if got.Value <= 0 {
		t.Errorf("expected positive MACD value for rising series, got %f", got.Value)
	}
	if got.Histogram <= 0 {
		t.Errorf("expected positive histogram for rising series, got %f", got.Histogram)
	}
}

func TestVolumeTrend_AllEqualVolumes(t *testing.T) {
	e := NewEngine()

	got := e.VolumeTrend([]float64{500, 500, 500, 500})
	if got.ChangePct != 0 {
		t.Errorf("expected changePct 0, got %f", got.ChangePct)
	}
	if got.IsSpike {
		t.Error("expected no spike for flat volumes")
	}
}

func TestVolumeTrend_Spike(t *testing.T) {
	e := NewEngine()

	// avg = 200, recent = 400 → +100% change, above the 50% threshold.
	got := e.VolumeTrend([]float64{100, 100, 400})
	if !almostEqual(got.ChangePct, 100) {
		t.Errorf("expected changePct 100, got %f", got.ChangePct)
	}
	if !got.IsSpike {
		t.Error("expected spike")
	}
}

func TestVolumeTrend_ConfigurableThreshold(t *testing.T) {
	e := NewEngine(WithSpikeThreshold(150))

	got := e.VolumeTrend([]float64{100, 100, 400})
	if got.IsSpike {
		t.Error("expected no spike with 150% threshold")
	}
}

func TestVolumeTrend_ZeroAverage(t *testing.T) {
	e := NewEngine()

	got := e.VolumeTrend([]float64{0, 0, 0})
	if got.ChangePct != 0 || got.IsSpike {
		t.Errorf("expected neutral result for zero average, got %+v", got)
	}
}

func TestVolumeTrend_EmptySeries(t *testing.T) {
	e := NewEngine()

	got := e.VolumeTrend(nil)
	if got.ChangePct != 0 || got.IsSpike {
		t.Errorf("expected neutral result for empty series, got %+v", got)
	}
}

func TestDeriveSignal(t *testing.T) {
	tests := []struct {
		name      string
		rsi       float64
		histogram float64
		want      domain.Signal
	}{
		{"overbought falling", 75, -0.5, domain.SignalSell},
		{"overbought rising", 75, 0.5, domain.SignalHold},
		{"oversold rising", 25, 0.5, domain.SignalBuy},
		{"oversold falling", 25, -0.5, domain.SignalHold},
		{"neutral", 50, 0, domain.SignalHold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveSignal(tt.rsi, tt.histogram); got != tt.want {
				t.Errorf("deriveSignal(%f, %f) = %s, want %s", tt.rsi, tt.histogram, got, tt.want)
			}
		})
	}
}

func TestCompute_NilHistoryIsNeutral(t *testing.T) {
	e := NewEngine()

	got := e.Compute(nil)
	if got.RSI != 50 {
		t.Errorf("expected neutral RSI 50, got %f", got.RSI)
	}
	if got.Signal != domain.SignalHold {
		t.Errorf("expected HOLD, got %s", got.Signal)
	}
	if got.MACD.Value != 0 || got.VolumeTrend.ChangePct != 0 {
		t.Errorf("expected zeroed MACD and volume trend, got %+v", got)
	}
}

func TestCompute_FullHistory(t *testing.T) {
	e := NewEngine()

	history := &domain.History{}
	for i := 0; i < 24; i++ {
		ts := int64(1_700_000_000_000) + int64(i)*3_600_000
		history.Prices = append(history.Prices, domain.PricePoint{TimestampMs: ts, Value: 100 + float64(i)})
		history.Volumes = append(history.Volumes, domain.VolumePoint{TimestampMs: ts, Value: 1000})
	}

	got := e.Compute(history)
	if got.RSI != 100 {
		t.Errorf("expected RSI 100 for strictly rising prices, got %f", got.RSI)
	}
	if got.VolumeTrend.IsSpike {
		t.Error("expected no spike for flat volumes")
	}
}

func TestEMA_AdjustedWeighting(t *testing.T) {
	series := []float64{10, 20}
	out := ema(series, 9)

	if !almostEqual(out[0], 10) {
		t.Errorf("expected first EMA value to equal first input, got %f", out[0])
	}

	// Second value is the weighted mean (x1 + decay*x0) / (1 + decay)
	// with decay = 1 - 2/(span+1) = 0.8.
	want := (20 + 0.8*10) / 1.8
	if !almostEqual(out[1], want) {
		t.Errorf("expected %f, got %f", want, out[1])
	}
}
