package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/perpscreener/internal/domain/clock"
	"github.com/sawpanic/perpscreener/internal/domain/indicators"
)

func buyResult(score int) indicators.Result {
	return indicators.Result{Score: score, Signal: indicators.Buy}
}

func sellResult(score int) indicators.Result {
	return indicators.Result{Score: score, Signal: indicators.Sell}
}

func TestAggregate_ClampsIndicatorSumBeforeTotal(t *testing.T) {
	directional := map[string]indicators.Result{}
	for i := 0; i < 12; i++ {
		directional[string(rune('A'+i))] = buyResult(30)
	}
	snap := indicators.Snapshot{
		Directional: directional,
		DOM:         indicators.Result{Score: 0, Signal: indicators.Neutral},
	}
	clk := clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	sig := Aggregate("BTC-PERP", snap, DefaultCaps(), DefaultConfidencePenalties(), clk)

	assert.Equal(t, DefaultCaps().IndicatorCap, sig.IndicatorScore)
	assert.Equal(t, DefaultCaps().IndicatorCap, sig.TotalScore)
	assert.Equal(t, ExtremeBuy, sig.Classification)
	assert.Equal(t, "BUY", sig.Action)
}

func TestAggregate_ClampsMicroSumIndependently(t *testing.T) {
	snap := indicators.Snapshot{
		Directional: map[string]indicators.Result{"RSI": buyResult(10)},
		DOM:         indicators.Result{Score: 30, Signal: indicators.Buy},
	}
	clk := clock.NewFake(time.Now())
	sig := Aggregate("BTC-PERP", snap, DefaultCaps(), DefaultConfidencePenalties(), clk)
	assert.Equal(t, DefaultCaps().MicroCap, sig.MicrostructureScore)
	assert.Equal(t, 10+DefaultCaps().MicroCap, sig.TotalScore)
}

func TestAggregate_NegativeTotalIsSellAction(t *testing.T) {
	snap := indicators.Snapshot{
		Directional: map[string]indicators.Result{"RSI": sellResult(-50)},
		DOM:         indicators.Result{Score: 0, Signal: indicators.Neutral},
	}
	clk := clock.NewFake(time.Now())
	sig := Aggregate("BTC-PERP", snap, DefaultCaps(), DefaultConfidencePenalties(), clk)
	assert.Equal(t, "SELL", sig.Action)
	assert.Less(t, sig.TotalScore, 0)
}

func TestAggregate_ZeroTotalIsHoldAndNeutral(t *testing.T) {
	snap := indicators.Snapshot{
		Directional: map[string]indicators.Result{
			"RSI":  buyResult(20),
			"MACD": sellResult(-20),
		},
		DOM: indicators.Result{Score: 0, Signal: indicators.Neutral},
	}
	clk := clock.NewFake(time.Now())
	sig := Aggregate("BTC-PERP", snap, DefaultCaps(), DefaultConfidencePenalties(), clk)
	assert.Equal(t, 0, sig.TotalScore)
	assert.Equal(t, "HOLD", sig.Action)
	assert.Equal(t, Neutral, sig.Classification)
}

func TestAggregate_LowScorePenaltyReducesConfidence(t *testing.T) {
	penalties := DefaultConfidencePenalties()
	snap := indicators.Snapshot{
		Directional: map[string]indicators.Result{"RSI": buyResult(10)},
		DOM:         indicators.Result{Score: 0, Signal: indicators.Neutral},
	}
	clk := clock.NewFake(time.Now())
	sig := Aggregate("BTC-PERP", snap, DefaultCaps(), penalties, clk)
	require.Less(t, sig.TotalScore, penalties.LowScoreThreshold)
	assert.Less(t, sig.Confidence, 1.0)
}

func TestAggregate_HighATRPenaltyStacksWithLowScore(t *testing.T) {
	penalties := DefaultConfidencePenalties()
	snap := indicators.Snapshot{
		Directional: map[string]indicators.Result{"RSI": buyResult(10)},
		DOM:         indicators.Result{Score: 0, Signal: indicators.Neutral},
		ATR:         indicators.ATRResult{Valid: true, Percent: 8},
	}
	clk := clock.NewFake(time.Now())
	sig := Aggregate("BTC-PERP", snap, DefaultCaps(), penalties, clk)
	expected := 1.0 - penalties.LowScorePenalty - penalties.HighATRPenalty - penalties.LowConfluencePenalty
	assert.InDelta(t, expected, sig.Confidence, 1e-9)
}

func TestAggregate_ConfidenceNeverGoesBelowZero(t *testing.T) {
	penalties := DefaultConfidencePenalties()
	snap := indicators.Snapshot{
		Directional: map[string]indicators.Result{
			"RSI":  buyResult(5),
			"MACD": sellResult(5),
		},
		DOM: indicators.Result{Score: 0, Signal: indicators.Neutral},
		ATR: indicators.ATRResult{Valid: true, Percent: 10},
	}
	clk := clock.NewFake(time.Now())
	sig := Aggregate("BTC-PERP", snap, DefaultCaps(), penalties, clk)
	assert.GreaterOrEqual(t, sig.Confidence, 0.0)
}

func TestAggregate_BullishBearishCountsIncludeDOM(t *testing.T) {
	snap := indicators.Snapshot{
		Directional: map[string]indicators.Result{
			"RSI":  buyResult(10),
			"MACD": buyResult(10),
		},
		DOM: indicators.Result{Score: 10, Signal: indicators.Buy},
	}
	clk := clock.NewFake(time.Now())
	sig := Aggregate("BTC-PERP", snap, DefaultCaps(), DefaultConfidencePenalties(), clk)
	assert.Equal(t, 3, sig.BullishCount)
	assert.Equal(t, 0, sig.BearishCount)
	assert.Contains(t, sig.Indicators, "DOM")
}

func TestAggregate_TimestampComesFromInjectedClock(t *testing.T) {
	pinned := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	clk := clock.NewFake(pinned)
	sig := Aggregate("BTC-PERP", indicators.Snapshot{DOM: indicators.Result{Signal: indicators.Neutral}}, DefaultCaps(), DefaultConfidencePenalties(), clk)
	assert.True(t, sig.Timestamp.Equal(pinned))
}
