package indicators

// RSIConfig holds the period and threshold constants for the RSI
// indicator (spec §4.1 table row 1).
type RSIConfig struct {
	Period     int
	Oversold   float64
	Overbought float64
	Weight     float64
	MaxScore   int
}

// DefaultRSIConfig matches the spec defaults: period 14, OS 30, OB 70,
// maxScore 34, weight defaulting to maxScore.
func DefaultRSIConfig() RSIConfig {
	return RSIConfig{Period: 14, Oversold: 30, Overbought: 70, Weight: 34, MaxScore: 34}
}

// wilderRSI computes Wilder-smoothed RSI over the full closes series,
// returning one value per index. Only entries from index `period`
// onward hold an RSI; earlier entries are left at zero, so callers
// must check length before indexing.
func wilderRSI(closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	if n < period+1 {
		return out
	}
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	alpha := 1.0 / float64(period)
	rsiAt := func(ag, al float64) float64 {
		if al == 0 {
			return 100
		}
		rs := ag / al
		return 100 - 100/(1+rs)
	}
	out[period] = rsiAt(avgGain, avgLoss)
	for i := period + 1; i < n; i++ {
		avgGain = avgGain*(1-alpha) + gains[i]*alpha
		avgLoss = avgLoss*(1-alpha) + losses[i]*alpha
		out[i] = rsiAt(avgGain, avgLoss)
	}
	return out
}

// RSI scores the Relative Strength Index, awarding full weight
// (scaled by distance past the threshold) on entering an extreme
// zone, with a +/-5 edge bonus for turning back toward neutral.
func RSI(closes []float64, cfg RSIConfig) Result {
	name := "RSI"
	if len(closes) < cfg.Period+2 {
		return neutral(name)
	}
	series := wilderRSI(closes, cfg.Period)
	cur := series[len(series)-1]
	prev := series[len(series)-2]

	res := Result{Name: name, Value: cur, Aux: map[string]float64{"prev": prev}}

	switch {
	case cur <= cfg.Oversold:
		score := cfg.Weight * (1 + (cfg.Oversold-cur)/cfg.Oversold)
		if cur > prev {
			score += 5
		}
		res.Score = clampScore(score, cfg.MaxScore)
		res.Signal = Buy
	case cur >= cfg.Overbought:
		score := cfg.Weight * (1 + (cur-cfg.Overbought)/(100-cfg.Overbought))
		if cur < prev {
			score += 5
		}
		res.Score = clampScore(-score, cfg.MaxScore)
		res.Signal = Sell
	default:
		res.Score = 0
		res.Signal = Neutral
	}
	return res
}
