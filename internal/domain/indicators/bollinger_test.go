package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func flatThenSpikeCloses(n int, flat, spike float64) []float64 {
	out := make([]float64, n)
	for i := 0; i < n-1; i++ {
		out[i] = flat
	}
	out[n-1] = spike
	return out
}

// rampThenSpikeCloses builds a gently rising series with real band
// width, then one sharp final jump well clear of the upper band -
// without the previous close ever touching the lower band, so only
// the aboveUpper path can fire.
func rampThenSpikeCloses(rampLen int, rampStart, spike float64) []float64 {
	out := make([]float64, rampLen+1)
	for i := 0; i < rampLen; i++ {
		out[i] = rampStart + float64(i)
	}
	out[rampLen] = spike
	return out
}

func TestBollinger_InsufficientData(t *testing.T) {
	res := Bollinger(monotonicCloses(5, 100, 1), DefaultBollingerConfig())
	assert.Equal(t, Neutral, res.Signal)
	assert.Equal(t, 0, res.Score)
}

func TestBollinger_BreachAboveUpperBandIsHalfWeightSell(t *testing.T) {
	closes := rampThenSpikeCloses(20, 100, 300)
	res := Bollinger(closes, DefaultBollingerConfig())
	assert.Equal(t, Sell, res.Signal)
	cfg := DefaultBollingerConfig()
	assert.Equal(t, -int(cfg.Weight/2), res.Score)
}

func TestBollinger_ZeroWidthBandTouchesBothEdgesAtOnce(t *testing.T) {
	// A perfectly flat series collapses upper, mid and lower onto the
	// same price, so the close sits exactly on the lower edge too;
	// belowLower is checked ahead of aboveUpper and wins the tie.
	res := Bollinger(monotonicCloses(25, 100, 0), DefaultBollingerConfig())
	cfg := DefaultBollingerConfig()
	assert.Equal(t, Buy, res.Signal)
	assert.Equal(t, int(cfg.Weight/2), res.Score)
}

func TestBollinger_ScoreNeverExceedsMaxScore(t *testing.T) {
	cfg := DefaultBollingerConfig()
	closes := flatThenSpikeCloses(21, 100, 10000)
	res := Bollinger(closes, cfg)
	assert.LessOrEqual(t, res.Score, cfg.MaxScore)
	assert.GreaterOrEqual(t, res.Score, -cfg.MaxScore)
}
