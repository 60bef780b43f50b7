package indicators

// BollingerConfig holds the period and band width for Bollinger Bands
// (spec §4.1 table row 4).
type BollingerConfig struct {
	Period   int
	StdDev   float64
	Weight   float64
	MaxScore int
}

// DefaultBollingerConfig matches the spec defaults: period 20, 2
// standard deviations.
func DefaultBollingerConfig() BollingerConfig {
	return BollingerConfig{Period: 20, StdDev: 2, Weight: 40, MaxScore: 40}
}

type bbBands struct{ lower, mid, upper float64 }

func bollingerAt(closes []float64, period int, k float64, upTo int) bbBands {
	window := closes[upTo-period : upTo]
	mid := sma(window, period)
	sd := stddev(window, period)
	return bbBands{lower: mid - k*sd, mid: mid, upper: mid + k*sd}
}

// Bollinger scores a bounce off a band with full weight, a breach
// without a bounce at half weight, and a price "walking" along the
// inside of a band at a quarter weight.
func Bollinger(closes []float64, cfg BollingerConfig) Result {
	name := "Bollinger"
	if len(closes) < cfg.Period+1 {
		return neutral(name)
	}
	n := len(closes)
	cur := bollingerAt(closes, cfg.Period, cfg.StdDev, n)
	prev := bollingerAt(closes, cfg.Period, cfg.StdDev, n-1)
	curClose, prevClose := closes[n-1], closes[n-2]

	res := Result{Name: name, Value: curClose, Aux: map[string]float64{
		"upper": cur.upper, "lower": cur.lower, "mid": cur.mid,
	}}

	bouncedLower := prevClose <= prev.lower && curClose > cur.lower && curClose > prevClose
	belowLower := curClose <= cur.lower
	bouncedUpper := prevClose >= prev.upper && curClose < cur.upper && curClose < prevClose
	aboveUpper := curClose >= cur.upper

	bandWidth := cur.upper - cur.lower
	walkingUpper := bandWidth > 0 && curClose > cur.upper-0.2*bandWidth && curClose > prevClose
	walkingLower := bandWidth > 0 && curClose < cur.lower+0.2*bandWidth && curClose < prevClose

	switch {
	case bouncedLower:
		res.Score = clampScore(cfg.Weight, cfg.MaxScore)
	case belowLower:
		res.Score = clampScore(cfg.Weight/2, cfg.MaxScore)
	case bouncedUpper:
		res.Score = clampScore(-cfg.Weight, cfg.MaxScore)
	case aboveUpper:
		res.Score = clampScore(-cfg.Weight/2, cfg.MaxScore)
	case walkingUpper:
		res.Score = clampScore(cfg.Weight*0.25, cfg.MaxScore)
	case walkingLower:
		res.Score = clampScore(-cfg.Weight*0.25, cfg.MaxScore)
	default:
		res.Score = 0
	}
	res.Signal = signalOf(res.Score)
	return res
}
