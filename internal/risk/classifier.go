// Package risk derives a discrete risk tier and human-readable flags from a
// normalized token record.
package risk

import (
	"math"
	"time"

	"solana-market-engine/internal/domain"
)

// Rule thresholds.
const (
	SharpMovePct    = 20        // |24h price change| above this escalates
	LowVolumeUSD    = 10_000    // 24h volume below this escalates
	HighVolumeUSD   = 1_000_000 // informational only
	FewHoldersCount = 100       // holder count below this escalates
	ManyHolders     = 1_000     // informational only
	VeryNewDays     = 7         // token age below this escalates
	EstablishedDays = 30        // informational only
)

// Classifier evaluates the risk rule set. The clock is injectable so age
// rules are deterministic under test.
type Classifier struct {
	now func() time.Time
}

// Option configures Classifier.
type Option func(*Classifier)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClassifier creates a Classifier using the wall clock.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify evaluates the rules in fixed order: price change, volume,
// holders, age. Each rule independently appends a flag; escalating rules
// raise the tier from LOW to HIGH, and the tier never moves in any other
// direction. A zero CreatedAtMs means the source did not report a creation
// time; the age rules are skipped rather than failing the record, since
// quote-only providers never carry that field. A record that cannot be
// evaluated at all (non-finite numbers, negative or future creation time)
// is reported whole as UNKNOWN with a single "analysis error" flag rather
// than partially analyzed.
func (c *Classifier) Classify(rec domain.TokenRecord) domain.RiskAssessment {
	if !evaluable(rec, c.now()) {
		return domain.RiskAssessment{
			Tier: domain.TierUnknown,
			Flags: []domain.RiskFlag{
				{Category: domain.FlagCategoryError, Message: "analysis error"},
			},
		}
	}

	tier := domain.TierLow
	var flags []domain.RiskFlag

	escalate := func(category, message string) {
		flags = append(flags, domain.RiskFlag{Category: category, Message: message})
		tier = domain.TierHigh
	}
	inform := func(category, message string) {
		flags = append(flags, domain.RiskFlag{Category: category, Message: message})
	}

	// 1. Price movement
	switch {
	case rec.PriceChange24hPct > SharpMovePct:
		escalate(domain.FlagCategoryPrice, "sharp rise")
	case rec.PriceChange24hPct < -SharpMovePct:
		escalate(domain.FlagCategoryPrice, "sharp fall")
	}

	// 2. Volume
	switch {
	case rec.Volume24h < LowVolumeUSD:
		escalate(domain.FlagCategoryVolume, "low volume")
	case rec.Volume24h > HighVolumeUSD:
		inform(domain.FlagCategoryVolume, "high volume")
	}

	// 3. Holder distribution
	switch {
	case rec.HolderCount < FewHoldersCount:
		escalate(domain.FlagCategoryHolders, "few holders")
	case rec.HolderCount > ManyHolders:
		inform(domain.FlagCategoryHolders, "well distributed")
	}

	// 4. Token age, only when the source reported a creation time
	if rec.CreatedAtMs > 0 {
		ageDays := float64(c.now().UnixMilli()-rec.CreatedAtMs) / float64(24*time.Hour/time.Millisecond)
		switch {
		case ageDays < VeryNewDays:
			escalate(domain.FlagCategoryAge, "very new token")
		case ageDays > EstablishedDays:
			inform(domain.FlagCategoryAge, "established token")
		}
	}

	return domain.RiskAssessment{Tier: tier, Flags: flags}
}

// evaluable reports whether the record's rule inputs are usable: finite
// numerics and a creation time that, when reported, is not negative or in
// the future. Zero means unreported and is fine.
func evaluable(rec domain.TokenRecord, now time.Time) bool {
	for _, v := range []float64{rec.PriceChange24hPct, rec.Volume24h, rec.Price, rec.MarketCap} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if rec.CreatedAtMs < 0 || rec.CreatedAtMs > now.UnixMilli() {
		return false
	}
	return true
}
