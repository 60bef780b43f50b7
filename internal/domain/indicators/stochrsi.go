package indicators

// StochRSIConfig holds periods and zone thresholds for the Stochastic
// RSI indicator (spec §4.1 table row 2).
type StochRSIConfig struct {
	RSIPeriod   int
	StochPeriod int
	K           int
	D           int
	Oversold    float64
	Overbought  float64
	Weight      float64
	MaxScore    int
}

// DefaultStochRSIConfig matches the spec defaults.
func DefaultStochRSIConfig() StochRSIConfig {
	return StochRSIConfig{RSIPeriod: 14, StochPeriod: 14, K: 3, D: 3, Oversold: 20, Overbought: 80, Weight: 40, MaxScore: 40}
}

// StochRSI scores the stochastic oscillator applied to RSI: a K/D
// cross inside an extreme zone earns full weight, a plain extreme-zone
// reading without a fresh cross earns half weight.
func StochRSI(closes []float64, cfg StochRSIConfig) Result {
	name := "StochRSI"
	minLen := cfg.RSIPeriod + cfg.StochPeriod + cfg.K + cfg.D + 2
	if len(closes) < minLen {
		return neutral(name)
	}

	rsiSeries := wilderRSI(closes, cfg.RSIPeriod)
	valid := rsiSeries[cfg.RSIPeriod:]
	if len(valid) < cfg.StochPeriod+cfg.K+cfg.D+1 {
		return neutral(name)
	}

	stoch := make([]float64, len(valid))
	for i := range stoch {
		if i < cfg.StochPeriod-1 {
			stoch[i] = 50
			continue
		}
		window := valid[i-cfg.StochPeriod+1 : i+1]
		lo, hi := window[0], window[0]
		for _, v := range window {
			lo = minOf(lo, v)
			hi = maxOf(hi, v)
		}
		if hi == lo {
			stoch[i] = 50
		} else {
			stoch[i] = (valid[i] - lo) / (hi - lo) * 100
		}
	}

	kSeries := smaSeries(stoch, cfg.K)
	dSeries := smaSeries(kSeries, cfg.D)

	n := len(dSeries)
	if n < 2 {
		return neutral(name)
	}
	kCur, kPrev := kSeries[len(kSeries)-1], kSeries[len(kSeries)-2]
	dCur, dPrev := dSeries[n-1], dSeries[n-2]

	res := Result{Name: name, Value: kCur, Aux: map[string]float64{"d": dCur}}

	inOversold := kCur <= cfg.Oversold && dCur <= cfg.Oversold
	inOverbought := kCur >= cfg.Overbought && dCur >= cfg.Overbought
	crossUp := kPrev <= dPrev && kCur > dCur
	crossDown := kPrev >= dPrev && kCur < dCur

	switch {
	case inOversold && crossUp:
		res.Score = clampScore(cfg.Weight, cfg.MaxScore)
		res.Signal = Buy
	case inOverbought && crossDown:
		res.Score = clampScore(-cfg.Weight, cfg.MaxScore)
		res.Signal = Sell
	case inOversold:
		res.Score = clampScore(cfg.Weight/2, cfg.MaxScore)
		res.Signal = Buy
	case inOverbought:
		res.Score = clampScore(-cfg.Weight/2, cfg.MaxScore)
		res.Signal = Sell
	default:
		res.Score = 0
		res.Signal = Neutral
	}
	return res
}

// smaSeries returns a simple moving average series of xs over
// `period`, padding the leading period-1 entries with the first valid
// average so callers can always index the tail.
func smaSeries(xs []float64, period int) []float64 {
	if len(xs) < period {
		return xs
	}
	out := make([]float64, len(xs))
	for i := period - 1; i < len(xs); i++ {
		out[i] = sma(xs[:i+1], period)
	}
	for i := 0; i < period-1; i++ {
		out[i] = out[period-1]
	}
	return out
}
