package indicators

import "github.com/sawpanic/perpscreener/internal/domain"

// WilliamsRConfig holds the period and zone thresholds for Williams
// %R (spec §4.1 table row 5).
type WilliamsRConfig struct {
	Period     int
	Oversold   float64 // e.g. -80
	Overbought float64 // e.g. -20
	Weight     float64
	MaxScore   int
}

// DefaultWilliamsRConfig matches the spec defaults.
func DefaultWilliamsRConfig() WilliamsRConfig {
	return WilliamsRConfig{Period: 14, Oversold: -80, Overbought: -20, Weight: 50, MaxScore: 50}
}

func williamsRAt(candles []domain.Candle, period, upTo int) float64 {
	window := candles[upTo-period : upTo]
	hh := highestLow(window, period, highField, maxOf)
	ll := highestLow(window, period, lowField, minOf)
	close := window[len(window)-1].Close
	if hh == ll {
		return -50
	}
	return (hh - close) / (hh - ll) * -100
}

// WilliamsR scores a turn back from an extreme zone above plain
// extreme-zone presence.
func WilliamsR(candles []domain.Candle, cfg WilliamsRConfig) Result {
	name := "WilliamsR"
	if len(candles) < cfg.Period+2 {
		return neutral(name)
	}
	n := len(candles)
	cur := williamsRAt(candles, cfg.Period, n)
	prev := williamsRAt(candles, cfg.Period, n-1)

	res := Result{Name: name, Value: cur, Aux: map[string]float64{"prev": prev}}

	switch {
	case cur <= cfg.Oversold && cur > prev:
		res.Score = clampScore(cfg.Weight*1.25, cfg.MaxScore)
	case cur <= cfg.Oversold:
		res.Score = clampScore(cfg.Weight, cfg.MaxScore)
	case cur >= cfg.Overbought && cur < prev:
		res.Score = clampScore(-cfg.Weight*1.25, cfg.MaxScore)
	case cur >= cfg.Overbought:
		res.Score = clampScore(-cfg.Weight, cfg.MaxScore)
	default:
		res.Score = 0
	}
	res.Signal = signalOf(res.Score)
	return res
}
