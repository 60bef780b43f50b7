package indicators

import "github.com/sawpanic/perpscreener/internal/domain"

// KDJConfig holds the RSV period and K/D smoothing factors (spec
// §4.1 table row 9).
type KDJConfig struct {
	Period    int
	SmoothK   int
	SmoothD   int
	Weight    float64
	MaxScore  int
}

// DefaultKDJConfig matches the spec defaults: period 9, smooth 3/3.
func DefaultKDJConfig() KDJConfig {
	return KDJConfig{Period: 9, SmoothK: 3, SmoothD: 3, Weight: 34, MaxScore: 34}
}

// KDJ scores a J-line extreme breach above a K/D crossover inside an
// extreme zone above a plain extreme-zone reading.
func KDJ(candles []domain.Candle, cfg KDJConfig) Result {
	name := "KDJ"
	if len(candles) < cfg.Period+20 {
		return neutral(name)
	}
	n := len(candles)
	rsv := make([]float64, n-cfg.Period+1)
	for i := range rsv {
		upTo := cfg.Period + i
		window := candles[upTo-cfg.Period : upTo]
		hh := highestLow(window, cfg.Period, highField, maxOf)
		ll := highestLow(window, cfg.Period, lowField, minOf)
		close := window[len(window)-1].Close
		if hh == ll {
			rsv[i] = 50
		} else {
			rsv[i] = (close - ll) / (hh - ll) * 100
		}
	}

	k, d := 50.0, 50.0
	var kPrev, dPrev float64
	for i, r := range rsv {
		kPrev, dPrev = k, d
		k = (float64(cfg.SmoothK-1)*k + r) / float64(cfg.SmoothK)
		d = (float64(cfg.SmoothD-1)*d + k) / float64(cfg.SmoothD)
		_ = i
	}
	j := 3*k - 2*d

	res := Result{Name: name, Value: j, Aux: map[string]float64{"k": k, "d": d}}

	crossUp := kPrev <= dPrev && k > d
	crossDown := kPrev >= dPrev && k < d
	extremeLow := k < 20
	extremeHigh := k > 80

	switch {
	case j < 0:
		res.Score = clampScore(cfg.Weight, cfg.MaxScore)
	case j > 100:
		res.Score = clampScore(-cfg.Weight, cfg.MaxScore)
	case extremeLow && crossUp:
		res.Score = clampScore(cfg.Weight*0.88, cfg.MaxScore)
	case extremeHigh && crossDown:
		res.Score = clampScore(-cfg.Weight*0.88, cfg.MaxScore)
	case extremeLow:
		res.Score = clampScore(cfg.Weight*0.59, cfg.MaxScore)
	case extremeHigh:
		res.Score = clampScore(-cfg.Weight*0.59, cfg.MaxScore)
	default:
		res.Score = 0
	}
	res.Signal = signalOf(res.Score)
	return res
}
