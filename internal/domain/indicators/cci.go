package indicators

import (
	"math"

	"github.com/sawpanic/perpscreener/internal/domain"
)

// CCIConfig holds the lookback period for the Commodity Channel Index
// (spec §4.1 table row 13).
type CCIConfig struct {
	Period   int
	Weight   float64
	MaxScore int
}

// DefaultCCIConfig matches the spec default: period 20.
func DefaultCCIConfig() CCIConfig {
	return CCIConfig{Period: 20, Weight: 32, MaxScore: 32}
}

func cciAt(candles []domain.Candle, period, upTo int) float64 {
	window := candles[upTo-period : upTo]
	tp := make([]float64, period)
	for i, c := range window {
		tp[i] = (c.High + c.Low + c.Close) / 3
	}
	mean := sma(tp, period)
	var meanDev float64
	for _, v := range tp {
		meanDev += math.Abs(v - mean)
	}
	meanDev /= float64(period)
	if meanDev == 0 {
		return 0
	}
	return (tp[period-1] - mean) / (0.015 * meanDev)
}

// CCI scores an extreme breach above threshold, a moderate breach
// above the inner threshold, with an additive zero-line cross bonus.
func CCI(candles []domain.Candle, cfg CCIConfig) Result {
	name := "CCI"
	if len(candles) < cfg.Period+2 {
		return neutral(name)
	}
	n := len(candles)
	cur := cciAt(candles, cfg.Period, n)
	prev := cciAt(candles, cfg.Period, n-1)

	res := Result{Name: name, Value: cur, Aux: map[string]float64{"prev": prev}}

	var score float64
	switch {
	case math.Abs(cur) > 200:
		score = cfg.Weight * float64(signOf(cur))
	case math.Abs(cur) > 100:
		score = cfg.Weight * 0.625 * float64(signOf(cur))
	}
	if signOf(cur) != 0 && signOf(cur) != signOf(prev) {
		score += 5 * float64(signOf(cur))
	}

	res.Score = clampScore(score, cfg.MaxScore)
	res.Signal = signalOf(res.Score)
	return res
}
