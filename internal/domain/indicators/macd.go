package indicators

import "math"

// MACDConfig holds the fast/slow/signal EMA periods (spec §4.1 table
// row 3).
type MACDConfig struct {
	Fast     int
	Slow     int
	Signal   int
	Weight   float64
	MaxScore int
}

// DefaultMACDConfig matches the spec defaults: 12/26/9.
func DefaultMACDConfig() MACDConfig {
	return MACDConfig{Fast: 12, Slow: 26, Signal: 9, Weight: 36, MaxScore: 36}
}

// MACD scores histogram acceleration/deceleration and fresh
// signal-line crosses, in that precedence order.
func MACD(closes []float64, cfg MACDConfig) Result {
	name := "MACD"
	minLen := cfg.Slow + cfg.Signal + 2
	if len(closes) < minLen {
		return neutral(name)
	}

	fastEMA := ema(closes, cfg.Fast)
	slowEMA := ema(closes, cfg.Slow)
	if fastEMA == nil || slowEMA == nil {
		return neutral(name)
	}

	macdLine := make([]float64, len(closes))
	for i := range macdLine {
		if i < cfg.Slow-1 {
			macdLine[i] = math.NaN()
			continue
		}
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}
	macdValid := macdLine[cfg.Slow-1:]
	signalValid := ema(macdValid, cfg.Signal)
	if signalValid == nil {
		return neutral(name)
	}

	histValid := make([]float64, len(macdValid))
	for i := range histValid {
		if i < cfg.Signal-1 {
			histValid[i] = math.NaN()
			continue
		}
		histValid[i] = macdValid[i] - signalValid[i]
	}

	n := len(histValid)
	if n < 2 || math.IsNaN(histValid[n-1]) || math.IsNaN(histValid[n-2]) {
		return neutral(name)
	}
	cur, prev := histValid[n-1], histValid[n-2]

	res := Result{Name: name, Value: macdValid[len(macdValid)-1], Aux: map[string]float64{
		"histogram": cur, "signal": signalValid[len(signalValid)-1],
	}}

	curSign := signOf(cur)
	prevSign := signOf(prev)
	freshCross := curSign != 0 && prevSign != 0 && curSign != prevSign

	switch {
	case !freshCross && curSign != 0 && curSign == prevSign && math.Abs(cur) > math.Abs(prev):
		res.Score = clampScore(cfg.Weight*float64(curSign), cfg.MaxScore)
	case !freshCross && curSign != 0 && curSign == prevSign && math.Abs(cur) <= math.Abs(prev):
		res.Score = clampScore(cfg.Weight*0.67*float64(curSign), cfg.MaxScore)
	case freshCross:
		res.Score = clampScore(cfg.Weight*0.83*float64(curSign), cfg.MaxScore)
	default:
		res.Score = 0
	}
	res.Signal = signalOf(res.Score)
	return res
}

func signOf(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
