// Package scoring combines the indicator catalog's per-indicator
// results into one bounded, classified Signal (spec §4.2). The
// aggregator is pure: the same indicator snapshot always yields the
// same Signal.
package scoring

import (
	"time"

	"github.com/sawpanic/perpscreener/internal/domain/clock"
	"github.com/sawpanic/perpscreener/internal/domain/indicators"
)

// Caps bounds the aggregator's clamping steps (spec §4.2 steps 2-4).
type Caps struct {
	IndicatorCap int // default 200
	MicroCap     int // default 20
	TotalCap     int // default 220
}

// DefaultCaps matches the spec defaults.
func DefaultCaps() Caps {
	return Caps{IndicatorCap: 200, MicroCap: 20, TotalCap: 220}
}

// ConfidencePenalties holds the config-driven penalty magnitudes
// applied in step 7. Spec §9 flags these as config-overridable; if a
// deployment's config supplies different values they are applied
// verbatim in place of these defaults.
type ConfidencePenalties struct {
	LowScoreThreshold   int     // |totalScore| below this: penalty applies
	LowScorePenalty     float64 // default 0.10
	HighATRThreshold    float64 // percent, default 6
	HighATRPenalty      float64 // default 0.06
	ModerateATRThreshold float64 // percent, default 4
	ModerateATRPenalty  float64 // default 0.03
	ConflictPenaltyPer  float64 // default 0.02, scaled by min(bullish,bearish)
	LowConfluenceThreshold float64 // default 0.6
	LowConfluencePenalty   float64 // default 0.05
}

// DefaultConfidencePenalties matches the spec defaults.
func DefaultConfidencePenalties() ConfidencePenalties {
	return ConfidencePenalties{
		LowScoreThreshold:      60,
		LowScorePenalty:        0.10,
		HighATRThreshold:       6,
		HighATRPenalty:         0.06,
		ModerateATRThreshold:   4,
		ModerateATRPenalty:     0.03,
		ConflictPenaltyPer:     0.02,
		LowConfluenceThreshold: 0.6,
		LowConfluencePenalty:   0.05,
	}
}

// Signal is the aggregated, classified read of one symbol at one
// point in time (spec §3).
type Signal struct {
	Symbol              string
	TotalScore          int
	IndicatorScore       int
	MicrostructureScore  int
	Classification       Classification
	Action               string
	Confidence           float64
	BullishCount         int
	BearishCount         int
	Confluence           float64
	Indicators           map[string]indicators.Result
	ATR                  indicators.ATRResult
	Timestamp            time.Time
}

// Aggregate runs the deterministic seven-step pipeline from spec §4.2
// over an indicator Snapshot.
func Aggregate(symbol string, snap indicators.Snapshot, caps Caps, penalties ConfidencePenalties, clk clock.Clock) Signal {
	// Step 1: sum directional scores (DOM and ATR excluded).
	var indicatorSum int
	for _, r := range snap.Directional {
		indicatorSum += r.Score
	}
	// Step 2: clamp indicator sum.
	indicatorSum = clampInt(indicatorSum, caps.IndicatorCap)

	// Step 3: clamp DOM independently.
	microSum := clampInt(snap.DOM.Score, caps.MicroCap)

	// Step 4: total score.
	total := clampInt(indicatorSum+microSum, caps.TotalCap)

	// Step 5: classify.
	band := Classify(total)

	// Step 6: bullish/bearish counts and confluence over every
	// indicator carrying a directional signal (the twelve directional
	// indicators plus DOM; ATR is a regime classifier, not counted).
	all := make(map[string]indicators.Result, len(snap.Directional)+1)
	for name, r := range snap.Directional {
		all[name] = r
	}
	all["DOM"] = snap.DOM

	var bullish, bearish int
	for _, r := range all {
		switch r.Signal {
		case indicators.Buy:
			bullish++
		case indicators.Sell:
			bearish++
		}
	}
	indicatorCount := len(all)
	confluence := 0.0
	if indicatorCount > 0 {
		confluence = float64(maxInt(bullish, bearish)) / float64(indicatorCount)
	}

	// Step 7: confidence penalties.
	confidence := 1.0
	if abs(total) < penalties.LowScoreThreshold {
		confidence -= penalties.LowScorePenalty
	}
	switch {
	case snap.ATR.Valid && snap.ATR.Percent > penalties.HighATRThreshold:
		confidence -= penalties.HighATRPenalty
	case snap.ATR.Valid && snap.ATR.Percent > penalties.ModerateATRThreshold:
		confidence -= penalties.ModerateATRPenalty
	}
	confidence -= penalties.ConflictPenaltyPer * float64(minInt(bullish, bearish))
	if confluence < penalties.LowConfluenceThreshold {
		confidence -= penalties.LowConfluencePenalty
	}
	confidence = clampFloat(confidence, 0, 1)

	action := "HOLD"
	switch {
	case total > 0:
		action = "BUY"
	case total < 0:
		action = "SELL"
	}

	return Signal{
		Symbol:              symbol,
		TotalScore:          total,
		IndicatorScore:       indicatorSum,
		MicrostructureScore:  microSum,
		Classification:       band.Name,
		Action:               action,
		Confidence:           confidence,
		BullishCount:         bullish,
		BearishCount:         bearish,
		Confluence:           confluence,
		Indicators:           all,
		ATR:                  snap.ATR,
		Timestamp:            clk.Now(),
	}
}

func clampInt(x, cap int) int {
	if x > cap {
		return cap
	}
	if x < -cap {
		return -cap
	}
	return x
}

func clampFloat(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
