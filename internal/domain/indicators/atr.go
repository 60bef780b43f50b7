package indicators

import (
	"math"

	"github.com/sawpanic/perpscreener/internal/domain"
)

// ATRRegime buckets volatility as a percentage of price (spec §4.1
// table row 12, GLOSSARY "ATR regime").
type ATRRegime string

const (
	RegimeLow    ATRRegime = "LOW"
	RegimeMedium ATRRegime = "MEDIUM"
	RegimeHigh   ATRRegime = "HIGH"
)

// ATRConfig holds the period and the LOW/MEDIUM/HIGH percentage
// thresholds.
type ATRConfig struct {
	Period        int
	LowThreshold  float64 // percent, default 2
	HighThreshold float64 // percent, default 4
	MaxScore      int
}

// DefaultATRConfig matches the spec defaults: period 14, thresholds
// 2%/4%.
func DefaultATRConfig() ATRConfig {
	return ATRConfig{Period: 14, LowThreshold: 2, HighThreshold: 4, MaxScore: 30}
}

// ATRResult is not a directional score: it classifies the current
// volatility regime. By spec §4.1 it is excluded from the directional
// indicator sum.
type ATRResult struct {
	Value   float64
	Percent float64
	Regime  ATRRegime
	Valid   bool
}

// ATR computes Wilder-smoothed Average True Range and classifies the
// volatility regime as a percentage of the latest close.
func ATR(candles []domain.Candle, cfg ATRConfig) ATRResult {
	if len(candles) < cfg.Period+1 {
		return ATRResult{Regime: RegimeMedium}
	}
	trueRanges := make([]float64, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		cur, prev := candles[i], candles[i-1]
		hl := cur.High - cur.Low
		hc := math.Abs(cur.High - prev.Close)
		lc := math.Abs(cur.Low - prev.Close)
		trueRanges[i-1] = maxOf(hl, maxOf(hc, lc))
	}
	atr := sma(trueRanges[:cfg.Period], cfg.Period)
	alpha := 1.0 / float64(cfg.Period)
	for i := cfg.Period; i < len(trueRanges); i++ {
		atr = atr*(1-alpha) + trueRanges[i]*alpha
	}

	close := candles[len(candles)-1].Close
	var pct float64
	if close > 0 {
		pct = atr / close * 100
	}

	regime := RegimeMedium
	switch {
	case pct < cfg.LowThreshold:
		regime = RegimeLow
	case pct >= cfg.HighThreshold:
		regime = RegimeHigh
	}

	return ATRResult{Value: atr, Percent: pct, Regime: regime, Valid: true}
}
