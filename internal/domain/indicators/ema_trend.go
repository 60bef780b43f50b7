package indicators

// EMATrendConfig holds the three EMA periods for trend scoring (spec
// §4.1 table row 7).
type EMATrendConfig struct {
	Short    int
	Mid      int
	Long     int
	Weight   float64
	MaxScore int
}

// DefaultEMATrendConfig matches the spec defaults: 10/25/50.
func DefaultEMATrendConfig() EMATrendConfig {
	return EMATrendConfig{Short: 10, Mid: 25, Long: 50, Weight: 38, MaxScore: 38}
}

// EMATrend scores a golden/death cross of the short/mid EMAs above a
// three-line alignment, above simple price-vs-long-EMA positioning.
func EMATrend(closes []float64, cfg EMATrendConfig) Result {
	name := "EMATrend"
	if len(closes) < cfg.Long+2 {
		return neutral(name)
	}
	shortEMA := ema(closes, cfg.Short)
	midEMA := ema(closes, cfg.Mid)
	longEMA := ema(closes, cfg.Long)
	if shortEMA == nil || midEMA == nil || longEMA == nil {
		return neutral(name)
	}
	n := len(closes)
	sCur, sPrev := shortEMA[n-1], shortEMA[n-2]
	mCur, mPrev := midEMA[n-1], midEMA[n-2]
	lCur := longEMA[n-1]
	price := closes[n-1]

	res := Result{Name: name, Value: sCur, Aux: map[string]float64{"mid": mCur, "long": lCur}}

	crossUp := sPrev <= mPrev && sCur > mCur
	crossDown := sPrev >= mPrev && sCur < mCur
	bullAligned := sCur > mCur && mCur > lCur
	bearAligned := sCur < mCur && mCur < lCur

	switch {
	case crossUp:
		res.Score = clampScore(cfg.Weight*1.05, cfg.MaxScore)
	case crossDown:
		res.Score = clampScore(-cfg.Weight*1.05, cfg.MaxScore)
	case bullAligned:
		res.Score = clampScore(cfg.Weight*0.79, cfg.MaxScore)
	case bearAligned:
		res.Score = clampScore(-cfg.Weight*0.79, cfg.MaxScore)
	case price > lCur:
		res.Score = clampScore(cfg.Weight*0.26, cfg.MaxScore)
	case price < lCur:
		res.Score = clampScore(-cfg.Weight*0.26, cfg.MaxScore)
	default:
		res.Score = 0
	}
	res.Signal = signalOf(res.Score)
	return res
}
