// Package indicators implements the fixed catalog of fourteen pure,
// stateless scoring functions over a candle sequence (and, for DOM,
// an order book). Every function is deterministic: the same input
// candles always produce the same Result. Below each indicator's
// minimum data-length precondition, the function returns a neutral
// Result rather than erroring — insufficient data is not an error
// condition in this domain (spec §7).
package indicators

import (
	"math"

	"github.com/sawpanic/perpscreener/internal/domain"
)

// Signal is the directional read of a single indicator.
type Signal string

const (
	Buy     Signal = "BUY"
	Sell    Signal = "SELL"
	Neutral Signal = "NEUTRAL"
)

// Result is the output of one indicator: its raw value, an integer
// score bounded to [-MaxScore, +MaxScore], the directional signal, and
// any auxiliary fields specific to that indicator (regime label,
// raw sub-values used for explanation).
type Result struct {
	Name   string
	Value  float64
	Score  int
	Signal Signal
	Aux    map[string]float64
}

func neutral(name string) Result {
	return Result{Name: name, Signal: Neutral, Aux: map[string]float64{}}
}

// clampScore rounds x to the nearest integer and bounds it to
// [-maxScore, +maxScore], the per-indicator score invariant (spec §8
// invariant 1).
func clampScore(x float64, maxScore int) int {
	r := int(math.Round(x))
	if r > maxScore {
		return maxScore
	}
	if r < -maxScore {
		return -maxScore
	}
	return r
}

func signalOf(score int) Signal {
	switch {
	case score > 0:
		return Buy
	case score < 0:
		return Sell
	default:
		return Neutral
	}
}

// sma computes the simple moving average of the last `period` values
// of xs, assuming len(xs) >= period.
func sma(xs []float64, period int) float64 {
	start := len(xs) - period
	var sum float64
	for i := start; i < len(xs); i++ {
		sum += xs[i]
	}
	return sum / float64(period)
}

// ema computes an exponential moving average series over xs using the
// standard 2/(period+1) smoothing factor, seeded with the SMA of the
// first `period` values.
func ema(xs []float64, period int) []float64 {
	if len(xs) < period {
		return nil
	}
	out := make([]float64, len(xs))
	seed := sma(xs[:period], period)
	for i := 0; i < period-1; i++ {
		out[i] = math.NaN()
	}
	out[period-1] = seed
	k := 2.0 / float64(period+1)
	for i := period; i < len(xs); i++ {
		out[i] = xs[i]*k + out[i-1]*(1-k)
	}
	return out
}

func stddev(xs []float64, period int) float64 {
	mean := sma(xs, period)
	start := len(xs) - period
	var sumSq float64
	for i := start; i < len(xs); i++ {
		d := xs[i] - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(period))
}

func highestLow(candles []domain.Candle, lookback int, field func(domain.Candle) float64, pick func(a, b float64) float64) float64 {
	start := len(candles) - lookback
	v := field(candles[start])
	for i := start + 1; i < len(candles); i++ {
		v = pick(v, field(candles[i]))
	}
	return v
}

func highField(c domain.Candle) float64 { return c.High }
func lowField(c domain.Candle) float64  { return c.Low }

func maxOf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minOf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
