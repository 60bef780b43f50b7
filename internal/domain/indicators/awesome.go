package indicators

import "github.com/sawpanic/perpscreener/internal/domain"

// AwesomeConfig holds the fast/slow SMA periods for the Awesome
// Oscillator (spec §4.1 table row 8).
type AwesomeConfig struct {
	Fast     int
	Slow     int
	Weight   float64
	MaxScore int
}

// DefaultAwesomeConfig matches the spec defaults: fast 5, slow 34.
func DefaultAwesomeConfig() AwesomeConfig {
	return AwesomeConfig{Fast: 5, Slow: 34, Weight: 34, MaxScore: 34}
}

// AwesomeOscillator scores a zero-line cross above a saucer pattern
// above plain same-sign momentum.
func AwesomeOscillator(candles []domain.Candle, cfg AwesomeConfig) Result {
	name := "AwesomeOscillator"
	if len(candles) < cfg.Slow+3 {
		return neutral(name)
	}
	median := make([]float64, len(candles))
	for i, c := range candles {
		median[i] = (c.High + c.Low) / 2
	}
	n := len(median)
	ao := make([]float64, 3)
	for j := 0; j < 3; j++ {
		upTo := n - 2 + j // n-2, n-1, n
		ao[j] = sma(median[:upTo], cfg.Fast) - sma(median[:upTo], cfg.Slow)
	}
	prevPrev, prev, cur := ao[0], ao[1], ao[2]

	res := Result{Name: name, Value: cur, Aux: map[string]float64{"prev": prev}}

	curSign := signOf(cur)
	prevSign := signOf(prev)
	zeroCross := curSign != 0 && prevSign != 0 && curSign != prevSign
	bullSaucer := curSign > 0 && prevSign > 0 && signOf(prevPrev) > 0 && prev < prevPrev && cur > prev
	bearSaucer := curSign < 0 && prevSign < 0 && signOf(prevPrev) < 0 && prev > prevPrev && cur < prev
	sameSign := curSign != 0 && curSign == prevSign

	switch {
	case zeroCross:
		res.Score = clampScore(cfg.Weight*float64(curSign), cfg.MaxScore)
	case bullSaucer:
		res.Score = clampScore(cfg.Weight*0.71, cfg.MaxScore)
	case bearSaucer:
		res.Score = clampScore(-cfg.Weight*0.71, cfg.MaxScore)
	case sameSign:
		res.Score = clampScore(cfg.Weight*0.29*float64(curSign), cfg.MaxScore)
	default:
		res.Score = 0
	}
	res.Signal = signalOf(res.Score)
	return res
}
