package indicators

import "github.com/sawpanic/perpscreener/internal/domain"

// StochasticConfig holds the %K/%D periods and zone thresholds for
// the classic stochastic oscillator (spec §4.1 table row 6).
type StochasticConfig struct {
	K          int
	D          int
	Oversold   float64
	Overbought float64
	Weight     float64
	MaxScore   int
}

// DefaultStochasticConfig matches the spec defaults: k 14, d 3, base
// weight 18 (distinct from the 36-point maxScore).
func DefaultStochasticConfig() StochasticConfig {
	return StochasticConfig{K: 14, D: 3, Oversold: 20, Overbought: 80, Weight: 18, MaxScore: 36}
}

func percentKAt(candles []domain.Candle, period, upTo int) float64 {
	window := candles[upTo-period : upTo]
	hh := highestLow(window, period, highField, maxOf)
	ll := highestLow(window, period, lowField, minOf)
	close := window[len(window)-1].Close
	if hh == ll {
		return 50
	}
	return (close - ll) / (hh - ll) * 100
}

// Stochastic follows the same cross/extreme-zone pattern as StochRSI
// but with the moderate-zone fraction at 0.56 rather than 0.5.
func Stochastic(candles []domain.Candle, cfg StochasticConfig) Result {
	name := "Stochastic"
	minLen := cfg.K + cfg.D + 2
	if len(candles) < minLen {
		return neutral(name)
	}
	n := len(candles)
	kSeries := make([]float64, 0, n-cfg.K+1)
	for i := cfg.K; i <= n; i++ {
		kSeries = append(kSeries, percentKAt(candles, cfg.K, i))
	}
	dSeries := smaSeries(kSeries, cfg.D)
	if len(kSeries) < 2 || len(dSeries) < 2 {
		return neutral(name)
	}

	kCur, kPrev := kSeries[len(kSeries)-1], kSeries[len(kSeries)-2]
	dCur, dPrev := dSeries[len(dSeries)-1], dSeries[len(dSeries)-2]

	res := Result{Name: name, Value: kCur, Aux: map[string]float64{"d": dCur}}

	inOversold := kCur <= cfg.Oversold && dCur <= cfg.Oversold
	inOverbought := kCur >= cfg.Overbought && dCur >= cfg.Overbought
	crossUp := kPrev <= dPrev && kCur > dCur
	crossDown := kPrev >= dPrev && kCur < dCur

	switch {
	case inOversold && crossUp:
		res.Score = clampScore(cfg.Weight, cfg.MaxScore)
	case inOverbought && crossDown:
		res.Score = clampScore(-cfg.Weight, cfg.MaxScore)
	case inOversold:
		res.Score = clampScore(cfg.Weight*0.56, cfg.MaxScore)
	case inOverbought:
		res.Score = clampScore(-cfg.Weight*0.56, cfg.MaxScore)
	default:
		res.Score = 0
	}
	res.Signal = signalOf(res.Score)
	return res
}
