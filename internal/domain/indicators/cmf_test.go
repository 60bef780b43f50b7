package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCMF_InsufficientData(t *testing.T) {
	res := CMF(trendingCandles(5, 100, 1, 1), DefaultCMFConfig())
	assert.Equal(t, Neutral, res.Signal)
	assert.Equal(t, 0, res.Score)
}

func TestCMF_SustainedAccumulationIsBullish(t *testing.T) {
	res := CMF(accumulationCandles(25, 100, 1, 2), DefaultCMFConfig())
	assert.Equal(t, Buy, res.Signal)
	assert.Greater(t, res.Score, 0)
}

func TestCMF_ZeroRangeCandlesAreNeutral(t *testing.T) {
	res := CMF(trendingCandles(25, 100, 0, 0), DefaultCMFConfig())
	assert.Equal(t, Neutral, res.Signal)
	assert.Equal(t, 0, res.Score)
}

func TestCMF_ScoreNeverExceedsMaxScore(t *testing.T) {
	cfg := DefaultCMFConfig()
	res := CMF(accumulationCandles(25, 100, 1, 2), cfg)
	assert.LessOrEqual(t, res.Score, cfg.MaxScore)
	assert.GreaterOrEqual(t, res.Score, -cfg.MaxScore)
}
