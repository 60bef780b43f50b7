package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func constantVolumes(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestOBV_InsufficientData(t *testing.T) {
	closes := monotonicCloses(5, 100, 1)
	res := OBV(closes, constantVolumes(5, 100), DefaultOBVConfig())
	assert.Equal(t, Neutral, res.Signal)
	assert.Equal(t, 0, res.Score)
}

func TestOBV_MismatchedLengthsAreNeutral(t *testing.T) {
	res := OBV(monotonicCloses(30, 100, 1), constantVolumes(29, 100), DefaultOBVConfig())
	assert.Equal(t, Neutral, res.Signal)
}

func TestOBV_SustainedUptrendConfirmsBullish(t *testing.T) {
	closes := monotonicCloses(30, 100, 1)
	res := OBV(closes, constantVolumes(30, 100), DefaultOBVConfig())
	assert.Equal(t, Buy, res.Signal)
	assert.Greater(t, res.Score, 0)
}

func TestOBV_SustainedDowntrendConfirmsBearish(t *testing.T) {
	closes := monotonicCloses(30, 1000, -1)
	res := OBV(closes, constantVolumes(30, 100), DefaultOBVConfig())
	assert.Equal(t, Sell, res.Signal)
	assert.Less(t, res.Score, 0)
}

func TestOBV_ScoreNeverExceedsMaxScore(t *testing.T) {
	cfg := DefaultOBVConfig()
	res := OBV(monotonicCloses(30, 100, 1), constantVolumes(30, 100), cfg)
	assert.LessOrEqual(t, res.Score, cfg.MaxScore)
	assert.GreaterOrEqual(t, res.Score, -cfg.MaxScore)
}
