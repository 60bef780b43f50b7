package indicators

import "github.com/sawpanic/perpscreener/internal/domain"

// CMFConfig holds the lookback period for Chaikin Money Flow (spec
// §4.1 table row 11).
type CMFConfig struct {
	Period   int
	Weight   float64
	MaxScore int
}

// DefaultCMFConfig matches the spec default: period 20.
func DefaultCMFConfig() CMFConfig {
	return CMFConfig{Period: 20, Weight: 38, MaxScore: 38}
}

func cmfAt(candles []domain.Candle, period, upTo int) float64 {
	window := candles[upTo-period : upTo]
	var mfvSum, volSum float64
	for _, c := range window {
		if c.High != c.Low {
			mfv := ((c.Close - c.Low) - (c.High - c.Close)) / (c.High - c.Low) * c.Volume
			mfvSum += mfv
		}
		volSum += c.Volume
	}
	if volSum == 0 {
		return 0
	}
	return mfvSum / volSum
}

// CMF scores a strong reading above threshold, a weak but consistent
// same-sign reading, with an additive zero-line cross bonus.
func CMF(candles []domain.Candle, cfg CMFConfig) Result {
	name := "CMF"
	if len(candles) < cfg.Period+1 {
		return neutral(name)
	}
	n := len(candles)
	cur := cmfAt(candles, cfg.Period, n)
	prev := cmfAt(candles, cfg.Period, n-1)

	res := Result{Name: name, Value: cur, Aux: map[string]float64{"prev": prev}}

	var score float64
	switch {
	case cur > 0.1:
		score = cfg.Weight
	case cur < -0.1:
		score = -cfg.Weight
	case signOf(cur) != 0 && signOf(cur) == signOf(prev):
		score = cfg.Weight * 0.53 * float64(signOf(cur))
	}

	if signOf(cur) != 0 && signOf(cur) != signOf(prev) {
		score += 5 * float64(signOf(cur))
	}

	res.Score = clampScore(score, cfg.MaxScore)
	res.Signal = signalOf(res.Score)
	return res
}
